package pasteboard

import (
	"context"
	"fmt"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	typegate "github.com/inference-gateway/pasteboard/internal/typegate"
	writemodel "github.com/inference-gateway/pasteboard/internal/writemodel"
)

// replace stores entries as the medium's whole content
func (p *Pasteboard) replace(ctx context.Context, kind string, entries []domain.Entry) error {
	if err := p.backend.Replace(ctx, entries); err != nil {
		return fmt.Errorf("failed to write %s to %s pasteboard: %w", kind, p.Name(), err)
	}
	logger.Debug("Wrote pasteboard content", "pasteboard", p.Name(), "kind", kind, "entries", len(entries))
	return nil
}

// WriteWebContent replaces the medium with every encoding of content
func (p *Pasteboard) WriteWebContent(ctx context.Context, content domain.WebContent) error {
	entries, err := writemodel.ForWebContent(content)
	if err != nil {
		return err
	}
	return p.replace(ctx, "web content", entries)
}

// WriteURL replaces the medium with a link
func (p *Pasteboard) WriteURL(ctx context.Context, u domain.URL) error {
	entries, err := writemodel.ForURL(u)
	if err != nil {
		return err
	}
	return p.replace(ctx, "url", entries)
}

// WriteTrustworthyWebURLs adds the legacy URL-only entry without touching
// any other entry
func (p *Pasteboard) WriteTrustworthyWebURLs(ctx context.Context, u domain.URL) error {
	entry, err := writemodel.ForTrustworthyWebURL(u)
	if err != nil {
		return err
	}
	if err := p.backend.WritePayload(ctx, entry.Type, entry.Data); err != nil {
		return fmt.Errorf("failed to write trustworthy urls to %s pasteboard: %w", p.Name(), err)
	}
	return nil
}

// WriteImage replaces the medium with an image and its alternatives
func (p *Pasteboard) WriteImage(ctx context.Context, img domain.Image) error {
	entries, err := writemodel.ForImage(img)
	if err != nil {
		return err
	}
	return p.replace(ctx, "image", entries)
}

// WriteCustomData replaces the medium with a custom data bundle
func (p *Pasteboard) WriteCustomData(ctx context.Context, data *domain.CustomData) error {
	entries, err := writemodel.ForCustomData(data)
	if err != nil {
		return err
	}
	return p.replace(ctx, "custom data", entries)
}

// WriteMarkup replaces the medium with markup and its text rendering
func (p *Pasteboard) WriteMarkup(ctx context.Context, markup string) error {
	return p.replace(ctx, "markup", writemodel.ForMarkup(markup))
}

// WritePlainText replaces the medium with text
func (p *Pasteboard) WritePlainText(ctx context.Context, text string, option domain.SmartReplaceOption) error {
	return p.replace(ctx, "plain text", writemodel.ForPlainText(text, option))
}

// WriteString stores a single typed value alongside the existing entries
func (p *Pasteboard) WriteString(ctx context.Context, typ, value string) error {
	if !typegate.IsExposable(typ) {
		return fmt.Errorf("%w: %q", domain.ErrInternalType, typ)
	}
	typ = p.storedType(ctx, typ)
	if err := p.backend.WritePayload(ctx, typ, []byte(value)); err != nil {
		return fmt.Errorf("failed to write %s to %s pasteboard: %w", typ, p.Name(), err)
	}
	return nil
}

// Clear removes every entry
func (p *Pasteboard) Clear(ctx context.Context) error {
	if err := p.backend.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear %s pasteboard: %w", p.Name(), err)
	}
	return nil
}

// ClearType removes a single entry. Internal entries cannot be cleared by type.
func (p *Pasteboard) ClearType(ctx context.Context, typ string) error {
	if !typegate.IsExposable(typ) {
		return fmt.Errorf("%w: %q", domain.ErrInternalType, typ)
	}
	typ = p.storedType(ctx, typ)
	if err := p.backend.ClearType(ctx, typ); err != nil {
		return fmt.Errorf("failed to clear %s from %s pasteboard: %w", typ, p.Name(), err)
	}
	return nil
}

// Close releases the backend
func (p *Pasteboard) Close() error {
	return p.backend.Close()
}
