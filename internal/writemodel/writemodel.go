// Package writemodel turns the write-side content shapes into the ordered
// entries stored on the medium, richest encoding first.
package writemodel

import (
	"encoding/json"
	"fmt"
	"net/url"

	customdata "github.com/inference-gateway/pasteboard/internal/customdata"
	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	typegate "github.com/inference-gateway/pasteboard/internal/typegate"
)

// entryList accumulates entries in priority order. The first entry written
// for a type wins, so later, poorer encodings never shadow richer ones.
type entryList struct {
	entries []domain.Entry
	seen    map[string]bool
}

func newEntryList() *entryList {
	return &entryList{seen: make(map[string]bool)}
}

func (l *entryList) add(typ string, data []byte) {
	if l.seen[typ] {
		return
	}
	l.seen[typ] = true
	l.entries = append(l.entries, domain.Entry{Type: typ, Data: data})
}

func (l *entryList) addBytes(typ string, data []byte) {
	if len(data) == 0 {
		return
	}
	l.add(typ, data)
}

func (l *entryList) addString(typ, value string) {
	if value == "" {
		return
	}
	l.add(typ, []byte(value))
}

// addClientItems appends caller-supplied types, refusing internal ones
func (l *entryList) addClientItems(items []domain.ClientItem) {
	for _, item := range items {
		if !typegate.IsExposable(item.Type) {
			logger.Warn("Dropping client item with reserved type", "type", item.Type)
			continue
		}
		l.add(typegate.Canonical(item.Type), item.Data)
	}
}

// ForWebContent orders a web content selection: archive, RTFD, RTF,
// attributed string, HTML, plain text, then client types. An origin is
// recorded in a custom data bundle so later reads can scope to it.
func ForWebContent(content domain.WebContent) ([]domain.Entry, error) {
	l := newEntryList()
	l.addBytes(domain.TypeWebArchive, content.WebArchive)
	l.addBytes(domain.TypeRTFD, content.RTFD)
	l.addBytes(domain.TypeRTF, content.RTF)
	l.addBytes(domain.TypeAttributedString, content.AttributedString)
	l.addString(domain.TypeHTML, content.HTML)
	l.addString(domain.TypePlainText, content.PlainText)
	l.addClientItems(content.ClientItems)

	if content.CanSmartCopyOrDelete {
		l.add(domain.TypeSmartPaste, []byte{})
	}

	if content.ContentOrigin != "" {
		blob, err := customdata.Encode(domain.NewCustomData(content.ContentOrigin))
		if err != nil {
			return nil, fmt.Errorf("failed to encode content origin: %w", err)
		}
		l.add(domain.TypeCustomData, blob)
	}

	return l.entries, nil
}

// ForURL writes the URL, its title and a plain text form
func ForURL(u domain.URL) ([]domain.Entry, error) {
	if err := validateURL(u.URL); err != nil {
		return nil, err
	}

	l := newEntryList()
	l.addString(domain.TypeURIList, u.URL)
	l.addString(domain.TypeURLTitle, u.Title)
	if u.UserVisibleForm != "" {
		l.addString(domain.TypePlainText, u.UserVisibleForm)
	} else {
		l.addString(domain.TypePlainText, u.URL)
	}
	return l.entries, nil
}

type trustworthyURLs struct {
	URLs   []string `json:"urls"`
	Titles []string `json:"titles"`
}

// ForTrustworthyWebURL produces the single legacy URL-only entry
func ForTrustworthyWebURL(u domain.URL) (domain.Entry, error) {
	if err := validateURL(u.URL); err != nil {
		return domain.Entry{}, err
	}

	data, err := json.Marshal(trustworthyURLs{URLs: []string{u.URL}, Titles: []string{u.Title}})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to marshal trustworthy urls: %w", err)
	}
	return domain.Entry{Type: domain.TypeTrustworthyWebURL, Data: data}, nil
}

// DecodeTrustworthyWebURLs parses the legacy URL-only entry
func DecodeTrustworthyWebURLs(data []byte) ([]domain.URL, error) {
	var payload trustworthyURLs
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trustworthy urls: %w", err)
	}

	urls := make([]domain.URL, 0, len(payload.URLs))
	for i, raw := range payload.URLs {
		u := domain.URL{URL: raw}
		if i < len(payload.Titles) {
			u.Title = payload.Titles[i]
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// ForPlainText writes text with an optional smart paste marker
func ForPlainText(text string, option domain.SmartReplaceOption) []domain.Entry {
	l := newEntryList()
	l.add(domain.TypePlainText, []byte(text))
	if option == domain.CanSmartReplace {
		l.add(domain.TypeSmartPaste, []byte{})
	}
	return l.entries
}

// ForCustomData exports the DOM-safe platform values natively and stores the
// whole bundle in the custom data entry
func ForCustomData(data *domain.CustomData) ([]domain.Entry, error) {
	blob, err := customdata.Encode(data)
	if err != nil {
		return nil, err
	}

	l := newEntryList()
	for _, typ := range data.OrderedTypes {
		value, ok := data.PlatformData[typ]
		if !ok || !typegate.IsSafeForDOM(typ) {
			continue
		}
		l.add(typegate.Canonical(typ), []byte(value))
	}
	l.add(domain.TypeCustomData, blob)
	return l.entries, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, raw)
	}
	return nil
}
