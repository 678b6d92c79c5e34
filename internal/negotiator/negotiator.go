// Package negotiator drives a web content read through the formats present on
// the medium, richest first, and abandons the read as soon as the medium
// changes underneath it.
package negotiator

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	typegate "github.com/inference-gateway/pasteboard/internal/typegate"
	"go.uber.org/zap"
)

// Outcome is the terminal state of a negotiation
type Outcome int

const (
	NoMatch Outcome = iota // Nothing usable was present
	Done                   // A handler consumed a format
	Aborted                // The medium changed mid-read
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "no-match"
	}
}

// Result describes how a negotiation ended
type Result struct {
	Outcome Outcome
	// Type is the identifier consumed when Outcome is Done
	Type string
}

// candidate is one row of the priority table
type candidate struct {
	typ      string
	richText bool
	accepts  func(r *domain.WebContentReader) bool
	deliver  func(s *session, r *domain.WebContentReader, typ string, payload []byte) (bool, error)
}

// priority is the fixed read order, richest first
var priority = []candidate{
	{domain.TypeWebArchive, true, func(r *domain.WebContentReader) bool { return r.ReadWebArchive != nil }, deliverWebArchive},
	{domain.TypeFilePaths, false, func(r *domain.WebContentReader) bool { return r.ReadFilePaths != nil }, deliverFilePaths},
	{domain.TypeRTFD, true, func(r *domain.WebContentReader) bool { return r.ReadRTFD != nil }, deliverRTFD},
	{domain.TypeRTF, true, func(r *domain.WebContentReader) bool { return r.ReadRTF != nil }, deliverRTF},
	{domain.TypeHTML, true, func(r *domain.WebContentReader) bool { return r.ReadHTML != nil }, deliverHTML},
	{domain.TypePNG, false, acceptsImage, deliverImage},
	{domain.TypeTIFF, false, acceptsImage, deliverImage},
	{domain.TypeJPEG, false, acceptsImage, deliverImage},
	{domain.TypeGIF, false, acceptsImage, deliverImage},
	{domain.TypeURIList, false, func(r *domain.WebContentReader) bool { return r.ReadURL != nil }, deliverURL},
	{domain.TypePlainText, false, func(r *domain.WebContentReader) bool { return r.ReadPlainText != nil }, deliverPlainText},
}

// PriorityTypes returns the read order, optionally restricted to rich text
func PriorityTypes(policy domain.ReadingPolicy) []string {
	types := make([]string, 0, len(priority))
	for _, c := range priority {
		if policy == domain.OnlyRichTextTypes && !c.richText {
			continue
		}
		types = append(types, c.typ)
	}
	return types
}

// Negotiator reads web content from a single backend
type Negotiator struct {
	backend domain.Backend
}

// New creates a negotiator over backend
func New(backend domain.Backend) *Negotiator {
	return &Negotiator{backend: backend}
}

// Read offers the medium's formats to reader in priority order and stops at
// the first handler that accepts its payload. When the change token moves
// between steps the read ends Aborted with domain.ErrExternallyModified and no
// further handler is invoked. Handlers already invoked are not rolled back.
func (n *Negotiator) Read(ctx context.Context, reader *domain.WebContentReader, policy domain.ReadingPolicy) (Result, error) {
	s, err := newSession(ctx, n.backend)
	if err != nil {
		return Result{}, err
	}

	types, err := n.backend.Types(ctx)
	if err != nil {
		s.log.Warnw("Failed to list pasteboard types", "error", err)
		types = nil
	}
	if err := s.recheck(); err != nil {
		return s.abort()
	}

	s.stored = make(map[string]string, len(types))
	for _, t := range types {
		key := typegate.Normalize(t)
		if _, ok := s.stored[key]; !ok {
			s.stored[key] = t
		}
	}

	for _, c := range priority {
		if _, ok := s.stored[c.typ]; !ok {
			continue
		}
		if policy == domain.OnlyRichTextTypes && !c.richText {
			continue
		}
		if reader == nil || !c.accepts(reader) {
			continue
		}

		payload, ok, err := s.fetch(c.typ)
		if err != nil {
			return s.abort()
		}
		if !ok {
			continue
		}

		consumed, err := c.deliver(s, reader, c.typ, payload)
		if err != nil {
			return s.abort()
		}
		if consumed {
			s.log.Debugw("Pasteboard read consumed type", "type", c.typ, "policy", policy.String())
			return Result{Outcome: Done, Type: c.typ}, nil
		}
	}

	s.log.Debugw("Pasteboard read found no usable type", "types", types, "policy", policy.String())
	return Result{Outcome: NoMatch}, nil
}

// session pins the change token captured at the start of a read
type session struct {
	ctx     context.Context
	backend domain.Backend
	token   int64
	log     *zap.SugaredLogger
	// stored maps normalized identifiers to the spelling on the medium
	stored map[string]string
}

func newSession(ctx context.Context, backend domain.Backend) (*session, error) {
	token, err := backend.ChangeToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoChangeToken, err)
	}
	return &session{
		ctx:     ctx,
		backend: backend,
		token:   token,
		log:     logger.Sugar(logger.WithPasteboard(ctx, backend.Name())),
	}, nil
}

// Recheck compares the current token with the captured one. A token that
// cannot be read counts as a change.
func (s *session) recheck() error {
	current, err := s.backend.ChangeToken(s.ctx)
	if err != nil {
		s.log.Warnw("Failed to read change token mid-read", "error", err)
		return domain.ErrExternallyModified
	}
	if current != s.token {
		s.log.Debugw("Pasteboard changed during read", "started_at", s.token, "now", current)
		return domain.ErrExternallyModified
	}
	return nil
}

// fetch reads one payload and revalidates the token. Backend failures count
// as an absent type; only a token change is returned as an error.
func (s *session) fetch(typ string) ([]byte, bool, error) {
	if stored, ok := s.stored[typ]; ok {
		typ = stored
	}
	data, ok, err := s.backend.ReadPayload(s.ctx, typ)
	if rerr := s.recheck(); rerr != nil {
		return nil, false, rerr
	}
	if err != nil {
		s.log.Warnw("Failed to read pasteboard payload", "type", typ, "error", err)
		return nil, false, nil
	}
	return data, ok, nil
}

func (s *session) abort() (Result, error) {
	return Result{Outcome: Aborted}, domain.ErrExternallyModified
}

func acceptsImage(r *domain.WebContentReader) bool {
	return r.ReadImage != nil
}

func deliverWebArchive(_ *session, r *domain.WebContentReader, _ string, payload []byte) (bool, error) {
	return r.ReadWebArchive(payload), nil
}

func deliverFilePaths(s *session, r *domain.WebContentReader, _ string, payload []byte) (bool, error) {
	paths, err := domain.DecodeFilePaths(payload)
	if err != nil {
		s.log.Warnw("Ignoring malformed file path entry", "error", err)
		return false, nil
	}
	if len(paths) == 0 {
		return false, nil
	}
	return r.ReadFilePaths(paths), nil
}

func deliverRTFD(_ *session, r *domain.WebContentReader, _ string, payload []byte) (bool, error) {
	return r.ReadRTFD(payload), nil
}

func deliverRTF(_ *session, r *domain.WebContentReader, _ string, payload []byte) (bool, error) {
	return r.ReadRTF(payload), nil
}

func deliverHTML(_ *session, r *domain.WebContentReader, _ string, payload []byte) (bool, error) {
	return r.ReadHTML(string(payload)), nil
}

func deliverImage(_ *session, r *domain.WebContentReader, typ string, payload []byte) (bool, error) {
	if len(payload) == 0 {
		return false, nil
	}
	return r.ReadImage(payload, typ), nil
}

// deliverURL needs the title entry too, which is a second fetch and so a
// second checkpoint
func deliverURL(s *session, r *domain.WebContentReader, _ string, payload []byte) (bool, error) {
	u, err := url.Parse(string(payload))
	if err != nil || !u.IsAbs() {
		return false, nil
	}

	title, ok, err := s.fetch(domain.TypeURLTitle)
	if err != nil {
		return false, err
	}
	if !ok {
		title = nil
	}

	return r.ReadURL(u, string(title)), nil
}

func deliverPlainText(_ *session, r *domain.WebContentReader, _ string, payload []byte) (bool, error) {
	return r.ReadPlainText(string(payload)), nil
}
