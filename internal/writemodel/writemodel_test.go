package writemodel

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	customdata "github.com/inference-gateway/pasteboard/internal/customdata"
	domain "github.com/inference-gateway/pasteboard/internal/domain"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func entryTypes(entries []domain.Entry) []string {
	types := make([]string, 0, len(entries))
	for _, e := range entries {
		types = append(types, e.Type)
	}
	return types
}

func payload(t *testing.T, entries []domain.Entry, typ string) []byte {
	t.Helper()
	for _, e := range entries {
		if e.Type == typ {
			return e.Data
		}
	}
	t.Fatalf("no entry of type %s", typ)
	return nil
}

func TestForWebContent_Order(t *testing.T) {
	content := domain.WebContent{
		ContentOrigin:        "https://docs.example",
		CanSmartCopyOrDelete: true,
		PlainText:            "hello",
		HTML:                 "<b>hello</b>",
		AttributedString:     []byte("attr"),
		RTF:                  []byte("{\\rtf1 hello}"),
		RTFD:                 []byte("rtfd"),
		WebArchive:           []byte("archive"),
		ClientItems: []domain.ClientItem{
			{Type: "application/vnd.editor", Data: []byte("state")},
			{Type: domain.TypeHTML, Data: []byte("<i>shadow</i>")},
			{Type: domain.TypeCustomData, Data: []byte("forged")},
		},
	}

	entries, err := ForWebContent(content)
	require.NoError(t, err)

	assert.Equal(t, []string{
		domain.TypeWebArchive,
		domain.TypeRTFD,
		domain.TypeRTF,
		domain.TypeAttributedString,
		domain.TypeHTML,
		domain.TypePlainText,
		"application/vnd.editor",
		domain.TypeSmartPaste,
		domain.TypeCustomData,
	}, entryTypes(entries))
	assert.Equal(t, "<b>hello</b>", string(payload(t, entries, domain.TypeHTML)))

	bundle, err := customdata.Decode(payload(t, entries, domain.TypeCustomData))
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example", bundle.Origin)
	assert.Empty(t, bundle.OrderedTypes)
}

func TestForWebContent_CanonicalClientTypes(t *testing.T) {
	entries, err := ForWebContent(domain.WebContent{
		ClientItems: []domain.ClientItem{
			{Type: "Text/HTML", Data: []byte("<i>client</i>")},
			{Type: "Application/Vnd.Editor", Data: []byte("state")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.TypeHTML, "Application/Vnd.Editor"}, entryTypes(entries))
}

func TestForWebContent_SkipsEmptyEncodings(t *testing.T) {
	entries, err := ForWebContent(domain.WebContent{PlainText: "only text"})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.TypePlainText}, entryTypes(entries))
}

func TestForURL(t *testing.T) {
	t.Run("absolute url", func(t *testing.T) {
		entries, err := ForURL(domain.URL{URL: "https://example.com/x", Title: "X", UserVisibleForm: "example.com/x"})
		require.NoError(t, err)
		assert.Equal(t, []string{domain.TypeURIList, domain.TypeURLTitle, domain.TypePlainText}, entryTypes(entries))
		assert.Equal(t, "example.com/x", string(payload(t, entries, domain.TypePlainText)))
	})

	t.Run("plain text falls back to the url", func(t *testing.T) {
		entries, err := ForURL(domain.URL{URL: "https://example.com"})
		require.NoError(t, err)
		assert.Equal(t, []string{domain.TypeURIList, domain.TypePlainText}, entryTypes(entries))
		assert.Equal(t, "https://example.com", string(payload(t, entries, domain.TypePlainText)))
	})

	t.Run("relative url", func(t *testing.T) {
		_, err := ForURL(domain.URL{URL: "/relative"})
		assert.ErrorIs(t, err, domain.ErrInvalidURL)
	})
}

func TestForTrustworthyWebURL(t *testing.T) {
	entry, err := ForTrustworthyWebURL(domain.URL{URL: "https://example.com", Title: "Example"})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeTrustworthyWebURL, entry.Type)

	urls, err := DecodeTrustworthyWebURLs(entry.Data)
	require.NoError(t, err)
	assert.Equal(t, []domain.URL{{URL: "https://example.com", Title: "Example"}}, urls)

	_, err = ForTrustworthyWebURL(domain.URL{URL: "example"})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestForPlainText(t *testing.T) {
	assert.Equal(t, []string{domain.TypePlainText, domain.TypeSmartPaste}, entryTypes(ForPlainText("x", domain.CanSmartReplace)))
	assert.Equal(t, []string{domain.TypePlainText}, entryTypes(ForPlainText("x", domain.CannotSmartReplace)))
}

func TestForCustomData(t *testing.T) {
	data := domain.NewCustomData("https://a.example")
	data.SetSameOriginData("application/x-private", "secret")
	data.SetPlatformData("Text/Plain", "visible")
	data.SetPlatformData("application/x-vendor", "native-only")
	data.SetSameOriginData("text/html", "<p>same origin only</p>")

	entries, err := ForCustomData(data)
	require.NoError(t, err)

	assert.Equal(t, []string{domain.TypePlainText, domain.TypeCustomData}, entryTypes(entries))
	assert.Equal(t, "visible", string(payload(t, entries, domain.TypePlainText)))

	decoded, err := customdata.Decode(payload(t, entries, domain.TypeCustomData))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestForCustomData_InvalidBundle(t *testing.T) {
	_, err := ForCustomData(&domain.CustomData{OrderedTypes: []string{"a"}})
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestForImage(t *testing.T) {
	t.Run("decoded image only", func(t *testing.T) {
		entries, err := ForImage(domain.Image{
			Image:         testImage(),
			URL:           domain.URL{URL: "https://example.com/img.png", Title: "img"},
			SuggestedName: "img.png",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			domain.TypeTIFF,
			domain.TypePNG,
			domain.TypeURIList,
			domain.TypeURLTitle,
			domain.TypeSuggestedFilename,
		}, entryTypes(entries))

		decoded, err := png.Decode(bytes.NewReader(payload(t, entries, domain.TypePNG)))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
	})

	t.Run("resource data comes first", func(t *testing.T) {
		var raw bytes.Buffer
		require.NoError(t, png.Encode(&raw, testImage()))

		img, err := DecodeImage(raw.Bytes(), "/tmp/shot.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.ResourceMIMEType)
		assert.Equal(t, "shot.png", img.SuggestedName)
		assert.Equal(t, 3, img.Width)
		assert.Equal(t, 2, img.Height)

		entries, err := ForImage(img)
		require.NoError(t, err)
		assert.Equal(t, []string{domain.TypePNG, domain.TypeTIFF, domain.TypeSuggestedFilename}, entryTypes(entries))
		assert.Equal(t, raw.Bytes(), payload(t, entries, domain.TypePNG))
	})

	t.Run("reserved resource type is dropped", func(t *testing.T) {
		entries, err := ForImage(domain.Image{
			ResourceData:     []byte("forged"),
			ResourceMIMEType: domain.TypeCustomData,
		})
		require.NoError(t, err)
		assert.NotContains(t, entryTypes(entries), domain.TypeCustomData)
		assert.Empty(t, entries)
	})

	t.Run("nothing to write", func(t *testing.T) {
		_, err := ForImage(domain.Image{SuggestedName: "x"})
		assert.Error(t, err)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := ForImage(domain.Image{Image: testImage(), URL: domain.URL{URL: "nope"}})
		assert.ErrorIs(t, err, domain.ErrInvalidURL)
	})
}

func TestDimensions(t *testing.T) {
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, testImage()))

	tests := []struct {
		name   string
		img    domain.Image
		width  int
		height int
	}{
		{"declared", domain.Image{Width: 10, Height: 20}, 10, 20},
		{"decoded", domain.Image{Image: testImage()}, 3, 2},
		{"resource header", domain.Image{ResourceData: raw.Bytes()}, 3, 2},
		{"nothing", domain.Image{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := Dimensions(tt.img)
			require.NoError(t, err)
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}

	_, _, err := Dimensions(domain.Image{ResourceData: []byte("not an image")})
	assert.Error(t, err)
}

func TestForMarkup(t *testing.T) {
	entries := ForMarkup("<p>Hello <strong>world</strong></p>")
	assert.Equal(t, []string{domain.TypeHTML, domain.TypePlainText}, entryTypes(entries))

	text := string(payload(t, entries, domain.TypePlainText))
	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "world")
	assert.NotContains(t, text, "<strong>")

	assert.Equal(t, []string{domain.TypeHTML}, entryTypes(ForMarkup("   ")))
}
