package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

var ErrInvalidArgument = errors.New("invalid argument")

// Args selects a page of the collection. An empty Search matches everything.
type Args struct {
	Limit  int
	Offset int
	Search string
}

func DefaultArgs() Args {
	return Args{Limit: DefaultLimit, Offset: DefaultOffset}
}

func (a Args) validate() error {
	if a.Limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0, got %d", ErrInvalidArgument, a.Limit)
	}
	if a.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0, got %d", ErrInvalidArgument, a.Offset)
	}
	return nil
}

// Page is one slice of the matching artworks. Total counts every match, not
// just the returned ones. Paintings is owned by the caller.
type Page struct {
	Paintings []Artwork `json:"paintings"`
	Total     int       `json:"total"`
	HasMore   bool      `json:"hasMore"`
}

// Service filters and paginates the collection held by a Store.
type Service struct {
	store   *Store
	metrics *Metrics
}

func NewService(store *Store, metrics *Metrics) *Service {
	return &Service{store: store, metrics: metrics}
}

func (s *Service) Store() *Store { return s.store }

func (s *Service) Query(ctx context.Context, args Args) (Page, error) {
	if err := args.validate(); err != nil {
		s.metrics.observeQuery("paintings", "invalid")
		return Page{}, err
	}

	matches := filter(s.store.Collection(ctx), args.Search)
	total := len(matches)

	start := min(args.Offset, total)
	end := total
	if args.Limit < total-start {
		end = start + args.Limit
	}

	// Copies, so callers may modify a page without touching the store.
	page := make([]Artwork, 0, end-start)
	for _, a := range matches[start:end] {
		page = append(page, a.clone())
	}

	s.metrics.observeQuery("paintings", "ok")
	return Page{
		Paintings: page,
		Total:     total,
		HasMore:   args.Limit < total-args.Offset,
	}, nil
}

// Get returns a copy of the artwork with exactly this id. A miss is not an
// error.
func (s *Service) Get(ctx context.Context, id string) (Artwork, bool) {
	for _, a := range s.store.Collection(ctx) {
		if a.ID == id {
			s.metrics.observeQuery("painting", "ok")
			return a.clone(), true
		}
	}
	s.metrics.observeQuery("painting", "not_found")
	return Artwork{}, false
}

func filter(c Collection, search string) Collection {
	if search == "" {
		return c
	}

	needle := strings.ToLower(search)
	out := make(Collection, 0, len(c))
	for _, a := range c {
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Artist), needle) {
			out = append(out, a)
		}
	}
	return out
}
