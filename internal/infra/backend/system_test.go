package backend

import (
	"context"
	"sync"
	"testing"

	clipboard "github.com/inference-gateway/pasteboard/internal/clipboard"
	domain "github.com/inference-gateway/pasteboard/internal/domain"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	mutex   sync.Mutex
	text    string
	image   []byte
	noImage bool
}

func (f *fakeClipboard) ReadText() (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.text, nil
}

func (f *fakeClipboard) WriteText(text string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.text = text
	return nil
}

func (f *fakeClipboard) ReadImage() ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.image, nil
}

func (f *fakeClipboard) WriteImage(png []byte) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.noImage {
		return clipboard.ErrImageUnsupported
	}
	f.image = append([]byte{}, png...)
	return nil
}

func TestSystemBackend_ExternalChange(t *testing.T) {
	ctx := context.Background()
	cb := &fakeClipboard{}
	b := NewSystemBackend("general", cb)

	require.NoError(t, b.Replace(ctx, []domain.Entry{
		{Type: domain.TypeHTML, Data: []byte("<i>hi</i>")},
		{Type: domain.TypePlainText, Data: []byte("hi")},
	}))
	assert.Equal(t, "hi", cb.text)

	before, err := b.ChangeToken(ctx)
	require.NoError(t, err)
	unchanged, err := b.ChangeToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, unchanged)

	require.NoError(t, cb.WriteText("copied elsewhere"))

	after, err := b.ChangeToken(ctx)
	require.NoError(t, err)
	assert.Greater(t, after, before)

	types, err := b.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.TypePlainText}, types)

	data, ok, err := b.ReadPayload(ctx, domain.TypePlainText)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "copied elsewhere", string(data))
}

func TestSystemBackend_Images(t *testing.T) {
	ctx := context.Background()

	t.Run("native image", func(t *testing.T) {
		cb := &fakeClipboard{}
		b := NewSystemBackend("general", cb)
		require.NoError(t, b.Replace(ctx, []domain.Entry{{Type: domain.TypePNG, Data: []byte("png")}}))
		assert.Equal(t, []byte("png"), cb.image)

		types, err := b.Types(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{domain.TypePNG}, types)
	})

	t.Run("image kept in process when unsupported", func(t *testing.T) {
		cb := &fakeClipboard{noImage: true}
		b := NewSystemBackend("general", cb)
		require.NoError(t, b.Replace(ctx, []domain.Entry{{Type: domain.TypePNG, Data: []byte("png")}}))
		assert.Nil(t, cb.image)

		data, ok, err := b.ReadPayload(ctx, domain.TypePNG)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("png"), data)
	})
}

func TestSystemStore_DragMediaStayInProcess(t *testing.T) {
	ctx := context.Background()
	cb := &fakeClipboard{}
	store := NewSystemStore(GeneralName, cb)

	drag, err := store.Backend("drag-1")
	require.NoError(t, err)
	require.NoError(t, drag.WritePayload(ctx, domain.TypePlainText, []byte("dragged")))
	assert.Empty(t, cb.text)

	general, err := store.Backend(GeneralName)
	require.NoError(t, err)
	require.NoError(t, general.WritePayload(ctx, domain.TypePlainText, []byte("copied")))
	assert.Equal(t, "copied", cb.text)
}
