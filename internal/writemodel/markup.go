package writemodel

import (
	"strings"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ForMarkup writes markup together with a readable text rendering of it
func ForMarkup(markup string) []domain.Entry {
	l := newEntryList()
	l.add(domain.TypeHTML, []byte(markup))
	if text := MarkupToText(markup); text != "" {
		l.add(domain.TypePlainText, []byte(text))
	}
	return l.entries
}

// MarkupToText renders HTML as lightweight markdown text. It returns an
// empty string when the markup cannot be converted.
func MarkupToText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	text, err := conv.ConvertString(markup)
	if err != nil {
		logger.Debug("Failed to render markup as text", "error", err)
		return ""
	}

	return strings.TrimSpace(text)
}
