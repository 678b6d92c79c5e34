package pasteboard

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	negotiator "github.com/inference-gateway/pasteboard/internal/negotiator"
	typegate "github.com/inference-gateway/pasteboard/internal/typegate"
	writemodel "github.com/inference-gateway/pasteboard/internal/writemodel"
)

// Read negotiates a web content read with reader under policy
func (p *Pasteboard) Read(ctx context.Context, reader *domain.WebContentReader, policy domain.ReadingPolicy) (negotiator.Result, error) {
	result, err := p.negotiator.Read(ctx, reader, policy)
	if err != nil {
		logger.Debug("Web content read ended without a usable read", "pasteboard", p.Name(), "outcome", result.Outcome.String(), "error", err)
	}
	return result, err
}

// ReadPlainText returns the plain text entry, or the URL when there is no
// plain text
func (p *Pasteboard) ReadPlainText(ctx context.Context) (domain.PlainText, error) {
	var text domain.PlainText
	reader := &domain.WebContentReader{
		ReadPlainText: func(s string) bool {
			text = domain.PlainText{Text: s}
			return true
		},
	}

	result, err := p.negotiator.Read(ctx, reader, domain.AnyType)
	if err != nil {
		return domain.PlainText{}, err
	}
	if result.Outcome == negotiator.Done {
		return text, nil
	}

	reader = &domain.WebContentReader{
		ReadURL: func(u *url.URL, _ string) bool {
			text = domain.PlainText{Text: u.String(), IsURL: true}
			return true
		},
	}
	if _, err := p.negotiator.Read(ctx, reader, domain.AnyType); err != nil {
		return domain.PlainText{}, err
	}
	return text, nil
}

// ReadTrustworthyWebURLs returns the links stored on the legacy URL-only
// channel. A malformed entry reads as no links.
func (p *Pasteboard) ReadTrustworthyWebURLs(ctx context.Context) ([]domain.URL, error) {
	stored, ok := typegate.Resolve(p.types(ctx), domain.TypeTrustworthyWebURL)
	if !ok {
		return nil, nil
	}

	data, ok, err := p.backend.ReadPayload(ctx, stored)
	if err != nil {
		return nil, fmt.Errorf("failed to read trustworthy urls from %s pasteboard: %w", p.Name(), err)
	}
	if !ok {
		return nil, nil
	}

	urls, err := writemodel.DecodeTrustworthyWebURLs(data)
	if err != nil {
		logger.Warn("Ignoring malformed trustworthy url entry", "pasteboard", p.Name(), "error", err)
		return nil, nil
	}
	return urls, nil
}

// ReadFiles delivers file names and in-memory images to reader. The medium
// is revalidated after every fetch; on a change the read stops with
// domain.ErrExternallyModified and callbacks already made stand.
func (p *Pasteboard) ReadFiles(ctx context.Context, reader domain.FileReader) error {
	start, err := p.ChangeToken(ctx)
	if err != nil {
		return err
	}

	types := p.types(ctx)
	if err := p.recheck(ctx, start); err != nil {
		return err
	}

	fetch := func(typ string) ([]byte, bool, error) {
		if stored, ok := typegate.Resolve(types, typ); ok {
			typ = stored
		}
		data, ok, err := p.backend.ReadPayload(ctx, typ)
		if rerr := p.recheck(ctx, start); rerr != nil {
			return nil, false, rerr
		}
		if err != nil {
			logger.Warn("Failed to read pasteboard payload", "pasteboard", p.Name(), "type", typ, "error", err)
			return nil, false, nil
		}
		return data, ok, nil
	}

	if typegate.HasFileEntries(types) && reader.ReadFilename != nil {
		data, ok, err := fetch(domain.TypeFilePaths)
		if err != nil {
			return err
		}
		if ok {
			paths, err := domain.DecodeFilePaths(data)
			if err != nil {
				logger.Warn("Ignoring malformed file path entry", "pasteboard", p.Name(), "error", err)
			}
			for _, path := range paths {
				reader.ReadFilename(path)
			}
		}
	}

	if reader.ReadBuffer == nil {
		return nil
	}

	var filename string
	if contains(types, domain.TypeSuggestedFilename) {
		data, ok, err := fetch(domain.TypeSuggestedFilename)
		if err != nil {
			return err
		}
		if ok {
			filename = string(data)
		}
	}

	for _, imageType := range domain.ImageTypes {
		if !contains(types, imageType) {
			continue
		}
		data, ok, err := fetch(imageType)
		if err != nil {
			return err
		}
		if !ok || len(data) == 0 {
			continue
		}
		reader.ReadBuffer(filename, imageType, data)
		return nil
	}

	return nil
}

func (p *Pasteboard) recheck(ctx context.Context, start int64) error {
	current, err := p.backend.ChangeToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternallyModified, err)
	}
	if current != start {
		return domain.ErrExternallyModified
	}
	return nil
}
