package negotiator

import (
	"context"
	"errors"
	"net/url"
	"testing"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	backend "github.com/inference-gateway/pasteboard/internal/infra/backend"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// hookBackend wraps a memory medium and lets tests interfere between steps
type hookBackend struct {
	*backend.MemoryBackend
	reads    []string
	onRead   func(typ string)
	readErr  map[string]error
	tokenErr error
	listErr  error
	onList   func()
}

func newHookBackend(t *testing.T, entries ...domain.Entry) *hookBackend {
	t.Helper()
	mem := backend.NewMemoryBackend("general")
	require.NoError(t, mem.Replace(context.Background(), entries))
	return &hookBackend{MemoryBackend: mem, readErr: map[string]error{}}
}

func (h *hookBackend) ChangeToken(ctx context.Context) (int64, error) {
	if h.tokenErr != nil {
		return 0, h.tokenErr
	}
	return h.MemoryBackend.ChangeToken(ctx)
}

func (h *hookBackend) Types(ctx context.Context) ([]string, error) {
	if h.onList != nil {
		h.onList()
	}
	if h.listErr != nil {
		return nil, h.listErr
	}
	return h.MemoryBackend.Types(ctx)
}

func (h *hookBackend) ReadPayload(ctx context.Context, typ string) ([]byte, bool, error) {
	h.reads = append(h.reads, typ)
	if h.onRead != nil {
		h.onRead(typ)
	}
	if err := h.readErr[typ]; err != nil {
		return nil, false, err
	}
	return h.MemoryBackend.ReadPayload(ctx, typ)
}

// recorder builds a reader accepting every format and records the calls
type recorder struct {
	calls  []string
	accept map[string]bool
	url    *url.URL
	title  string
	paths  []string
	image  string
	hook   func(call string)
}

func newRecorder() *recorder {
	return &recorder{accept: map[string]bool{}}
}

func (r *recorder) handle(call string) bool {
	r.calls = append(r.calls, call)
	if r.hook != nil {
		r.hook(call)
	}
	accepted, ok := r.accept[call]
	return !ok || accepted
}

func (r *recorder) reader() *domain.WebContentReader {
	return &domain.WebContentReader{
		ReadWebArchive: func([]byte) bool { return r.handle("webarchive") },
		ReadFilePaths: func(paths []string) bool {
			r.paths = paths
			return r.handle("filepaths")
		},
		ReadHTML: func(string) bool { return r.handle("html") },
		ReadRTFD: func([]byte) bool { return r.handle("rtfd") },
		ReadRTF:  func([]byte) bool { return r.handle("rtf") },
		ReadImage: func(_ []byte, mimeType string) bool {
			r.image = mimeType
			return r.handle("image")
		},
		ReadURL: func(u *url.URL, title string) bool {
			r.url, r.title = u, title
			return r.handle("url")
		},
		ReadPlainText: func(string) bool { return r.handle("plaintext") },
	}
}

func entry(typ, data string) domain.Entry {
	return domain.Entry{Type: typ, Data: []byte(data)}
}

func TestRead_PrefersRichestType(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypePlainText, "hello"),
		entry(domain.TypeHTML, "<b>hello</b>"),
		entry(domain.TypeWebArchive, "archive"),
	)
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, Done, result.Outcome)
	assert.Equal(t, domain.TypeWebArchive, result.Type)
	assert.Equal(t, []string{"webarchive"}, rec.calls)
	assert.Equal(t, []string{domain.TypeWebArchive}, b.reads)
}

func TestRead_FallsThroughWhenHandlerDeclines(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypePlainText, "hello"),
		entry(domain.TypeHTML, "<b>hello</b>"),
		entry(domain.TypeWebArchive, "archive"),
	)
	rec := newRecorder()
	rec.accept["webarchive"] = false

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, Done, result.Outcome)
	assert.Equal(t, domain.TypeHTML, result.Type)
	assert.Equal(t, []string{"webarchive", "html"}, rec.calls)
}

func TestRead_OnlyRichTextPolicy(t *testing.T) {
	b := newHookBackend(t, entry(domain.TypePlainText, "hello"))
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.OnlyRichTextTypes)

	require.NoError(t, err)
	assert.Equal(t, NoMatch, result.Outcome)
	assert.Empty(t, rec.calls)
	assert.Empty(t, b.reads)
}

func TestRead_SkipsFormatsTheReaderCannotAccept(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypeWebArchive, "archive"),
		entry(domain.TypePlainText, "hello"),
	)
	var got string
	reader := &domain.WebContentReader{
		ReadPlainText: func(text string) bool {
			got = text
			return true
		},
	}

	result, err := New(b).Read(context.Background(), reader, domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, Done, result.Outcome)
	assert.Equal(t, "hello", got)
	assert.Equal(t, []string{domain.TypePlainText}, b.reads)
}

func TestRead_AbortsWhenMediumChangesDuringFetch(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypeWebArchive, "archive"),
		entry(domain.TypeHTML, "<p>x</p>"),
	)
	b.onRead = func(typ string) {
		_ = b.MemoryBackend.WritePayload(context.Background(), domain.TypePlainText, []byte("intruder"))
	}
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	assert.True(t, errors.Is(err, domain.ErrExternallyModified))
	assert.Equal(t, Aborted, result.Outcome)
	assert.Empty(t, rec.calls)
}

func TestRead_AbortsWhenHandlerMutatesMedium(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypeWebArchive, "archive"),
		entry(domain.TypeHTML, "<p>x</p>"),
		entry(domain.TypePlainText, "x"),
	)
	rec := newRecorder()
	rec.accept["webarchive"] = false
	rec.hook = func(call string) {
		if call == "webarchive" {
			_ = b.MemoryBackend.ClearType(context.Background(), domain.TypePlainText)
		}
	}

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	assert.ErrorIs(t, err, domain.ErrExternallyModified)
	assert.Equal(t, Aborted, result.Outcome)
	assert.Equal(t, []string{"webarchive"}, rec.calls)
}

func TestRead_AbortsWhenMediumChangesWhileListing(t *testing.T) {
	b := newHookBackend(t, entry(domain.TypePlainText, "x"))
	b.onList = func() {
		_ = b.MemoryBackend.Clear(context.Background())
	}
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	assert.ErrorIs(t, err, domain.ErrExternallyModified)
	assert.Equal(t, Aborted, result.Outcome)
	assert.Empty(t, b.reads)
	assert.Empty(t, rec.calls)
}

func TestRead_FailsWithoutChangeToken(t *testing.T) {
	b := newHookBackend(t, entry(domain.TypePlainText, "x"))
	b.tokenErr = errors.New("pasteboard server gone")

	_, err := New(b).Read(context.Background(), newRecorder().reader(), domain.AnyType)

	assert.ErrorIs(t, err, domain.ErrNoChangeToken)
	assert.Empty(t, b.reads)
}

func TestRead_TreatsBackendReadFailureAsAbsent(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypeHTML, "<p>x</p>"),
		entry(domain.TypePlainText, "x"),
	)
	b.readErr[domain.TypeHTML] = errors.New("native call failed")
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, domain.TypePlainText, result.Type)
	assert.Equal(t, []string{"plaintext"}, rec.calls)
}

func TestRead_ListFailureEndsInNoMatch(t *testing.T) {
	b := newHookBackend(t, entry(domain.TypePlainText, "x"))
	b.listErr = errors.New("native call failed")

	result, err := New(b).Read(context.Background(), newRecorder().reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, NoMatch, result.Outcome)
}

func TestRead_EmptyMedium(t *testing.T) {
	b := newHookBackend(t)

	result, err := New(b).Read(context.Background(), newRecorder().reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, NoMatch, result.Outcome)

	result, err = New(b).Read(context.Background(), nil, domain.AnyType)
	require.NoError(t, err)
	assert.Equal(t, NoMatch, result.Outcome)
}

func TestRead_URLWithTitle(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypeURIList, "https://example.com/a?b=c"),
		entry(domain.TypeURLTitle, "Example"),
		entry(domain.TypePlainText, "https://example.com/a?b=c"),
	)
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, domain.TypeURIList, result.Type)
	require.NotNil(t, rec.url)
	assert.Equal(t, "example.com", rec.url.Host)
	assert.Equal(t, "Example", rec.title)
	assert.Equal(t, []string{domain.TypeURIList, domain.TypeURLTitle}, b.reads)
}

func TestRead_FetchesTypesUnderTheirStoredSpelling(t *testing.T) {
	b := newHookBackend(t,
		entry("Text/URI-List", "https://example.com/"),
		entry("Application/X-URL-Title", "Example"),
	)
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, Result{Outcome: Done, Type: domain.TypeURIList}, result)
	assert.Equal(t, []string{"Text/URI-List", "Application/X-URL-Title"}, b.reads)
	require.NotNil(t, rec.url)
	assert.Equal(t, "https://example.com/", rec.url.String())
	assert.Equal(t, "Example", rec.title)
}

func TestRead_AbortsWhenTitleFetchSeesChange(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypeURIList, "https://example.com"),
		entry(domain.TypeURLTitle, "Example"),
	)
	b.onRead = func(typ string) {
		if typ == domain.TypeURLTitle {
			_ = b.MemoryBackend.Clear(context.Background())
		}
	}
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	assert.ErrorIs(t, err, domain.ErrExternallyModified)
	assert.Equal(t, Aborted, result.Outcome)
	assert.Empty(t, rec.calls)
}

func TestRead_RelativeURLIsSkipped(t *testing.T) {
	b := newHookBackend(t,
		entry(domain.TypeURIList, "/just/a/path"),
		entry(domain.TypePlainText, "/just/a/path"),
	)
	rec := newRecorder()

	result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

	require.NoError(t, err)
	assert.Equal(t, domain.TypePlainText, result.Type)
	assert.Equal(t, []string{"plaintext"}, rec.calls)
}

func TestRead_FilePathsAndImages(t *testing.T) {
	paths, err := domain.EncodeFilePaths([]string{"/tmp/a.txt", "/tmp/b\nc.txt"})
	require.NoError(t, err)

	t.Run("file paths", func(t *testing.T) {
		b := newHookBackend(t, domain.Entry{Type: domain.TypeFilePaths, Data: paths}, entry(domain.TypePNG, "png"))
		rec := newRecorder()

		result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

		require.NoError(t, err)
		assert.Equal(t, domain.TypeFilePaths, result.Type)
		assert.Equal(t, []string{"/tmp/a.txt", "/tmp/b\nc.txt"}, rec.paths)
	})

	t.Run("image", func(t *testing.T) {
		b := newHookBackend(t, entry(domain.TypeTIFF, "tiff"), entry(domain.TypeGIF, "gif"))
		rec := newRecorder()

		result, err := New(b).Read(context.Background(), rec.reader(), domain.AnyType)

		require.NoError(t, err)
		assert.Equal(t, domain.TypeTIFF, result.Type)
		assert.Equal(t, domain.TypeTIFF, rec.image)
	})

	t.Run("rich text policy skips files and images", func(t *testing.T) {
		b := newHookBackend(t, domain.Entry{Type: domain.TypeFilePaths, Data: paths}, entry(domain.TypePNG, "png"), entry(domain.TypeRTF, "{\\rtf1}"))
		rec := newRecorder()

		result, err := New(b).Read(context.Background(), rec.reader(), domain.OnlyRichTextTypes)

		require.NoError(t, err)
		assert.Equal(t, domain.TypeRTF, result.Type)
		assert.Equal(t, []string{"rtf"}, rec.calls)
	})
}

func TestPriorityTypes(t *testing.T) {
	assert.Equal(t, []string{domain.TypeWebArchive, domain.TypeRTFD, domain.TypeRTF, domain.TypeHTML}, PriorityTypes(domain.OnlyRichTextTypes))
	all := PriorityTypes(domain.AnyType)
	assert.Equal(t, domain.TypeWebArchive, all[0])
	assert.Equal(t, domain.TypePlainText, all[len(all)-1])
}

func TestRead_LogsChangeWithPasteboardName(t *testing.T) {
	logs := logger.Capture(t)

	b := newHookBackend(t, entry(domain.TypePlainText, "hello"))
	b.onRead = func(string) {
		_ = b.MemoryBackend.WritePayload(context.Background(), domain.TypeHTML, []byte("x"))
	}

	_, err := New(b).Read(context.Background(), newRecorder().reader(), domain.AnyType)
	require.ErrorIs(t, err, domain.ErrExternallyModified)

	changed := logs.FilterMessage("Pasteboard changed during read").All()
	require.Len(t, changed, 1)
	assert.Equal(t, "general", changed[0].ContextMap()["pasteboard"])
}
