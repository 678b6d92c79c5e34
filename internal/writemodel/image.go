package writemodel

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	typegate "github.com/inference-gateway/pasteboard/internal/typegate"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage builds an Image from encoded bytes, keeping the original
// encoding as the resource data
func DecodeImage(data []byte, name string) (domain.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	return domain.Image{
		Image:            img,
		ResourceData:     data,
		ResourceMIMEType: "image/" + format,
		SuggestedName:    filepath.Base(name),
		Width:            bounds.Dx(),
		Height:           bounds.Dy(),
	}, nil
}

// Dimensions returns the pixel size of img, from the declared size, the
// decoded image or the resource header, in that order
func Dimensions(img domain.Image) (int, int, error) {
	if img.Width > 0 && img.Height > 0 {
		return img.Width, img.Height, nil
	}
	if img.Image != nil {
		b := img.Image.Bounds()
		return b.Dx(), b.Dy(), nil
	}
	if len(img.ResourceData) > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(img.ResourceData))
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read image header: %w", err)
		}
		return cfg.Width, cfg.Height, nil
	}
	return 0, 0, nil
}

// ForImage orders an image write: web archive, the original resource, TIFF
// and PNG renditions of the decoded image, the associated URL, client types
// and the suggested file name.
func ForImage(img domain.Image) ([]domain.Entry, error) {
	if img.Image == nil && len(img.ResourceData) == 0 {
		return nil, fmt.Errorf("image write needs a decoded image or resource data")
	}

	l := newEntryList()
	l.addBytes(domain.TypeWebArchive, img.WebArchive)
	if len(img.ResourceData) > 0 && img.ResourceMIMEType != "" {
		if typegate.IsExposable(img.ResourceMIMEType) {
			l.addBytes(typegate.Canonical(img.ResourceMIMEType), img.ResourceData)
		} else {
			logger.Warn("Dropping image resource with reserved type", "type", img.ResourceMIMEType)
		}
	}

	if img.Image != nil {
		var tiffBuf bytes.Buffer
		if err := tiff.Encode(&tiffBuf, img.Image, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return nil, fmt.Errorf("failed to encode tiff: %w", err)
		}
		l.addBytes(domain.TypeTIFF, tiffBuf.Bytes())

		var pngBuf bytes.Buffer
		if err := png.Encode(&pngBuf, img.Image); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		l.addBytes(domain.TypePNG, pngBuf.Bytes())
	}

	if img.URL.URL != "" {
		if err := validateURL(img.URL.URL); err != nil {
			return nil, err
		}
		l.addString(domain.TypeURIList, img.URL.URL)
		l.addString(domain.TypeURLTitle, img.URL.Title)
	}

	l.addClientItems(img.ClientItems)
	l.addString(domain.TypeSuggestedFilename, img.SuggestedName)

	width, height, err := Dimensions(img)
	if err != nil {
		logger.Debug("Image dimensions unavailable", "error", err)
	}
	logger.Debug("Prepared image write", "width", width, "height", height, "entries", len(l.entries))

	return l.entries, nil
}
