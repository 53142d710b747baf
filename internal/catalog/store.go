package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const OriginSynthetic = "synthetic"

// Store loads the collection once and serves it from memory afterwards.
// There is no reload; a new Store is needed to pick up new data.
type Store struct {
	source  Source
	seed    int64
	log     *zap.Logger
	metrics *Metrics

	once   sync.Once
	done   chan struct{}
	coll   Collection
	origin string
}

type StoreOption func(*Store)

// WithSeed fixes the seed of the synthetic fallback.
func WithSeed(seed int64) StoreOption {
	return func(s *Store) { s.seed = seed }
}

func WithLogger(log *zap.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

func WithMetrics(m *Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// NewStore returns an unloaded store over src. A nil src always yields the
// synthetic collection.
func NewStore(src Source, opts ...StoreOption) *Store {
	s := &Store{
		source: src,
		log:    zap.NewNop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection returns the full collection, loading it on first use. Load
// failures fall back to synthetic data and are never returned.
//
// The result is the store's own backing slice and is shared by every caller.
// It must not be modified; Service hands out copies.
func (s *Store) Collection(ctx context.Context) Collection {
	s.once.Do(func() {
		defer close(s.done)

		// The first caller's cancellation must not decide what every later
		// caller sees.
		s.coll, s.origin = s.load(context.WithoutCancel(ctx))

		s.log.Info("catalog loaded",
			zap.String("origin", s.origin),
			zap.Int("records", len(s.coll)),
		)
		if s.metrics != nil {
			s.metrics.observeLoad(s.origin, len(s.coll))
		}
	})
	return s.coll
}

// Loaded reports whether the collection has been materialized.
func (s *Store) Loaded() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Origin names where the collection came from. Empty until loaded.
func (s *Store) Origin() string {
	if !s.Loaded() {
		return ""
	}
	return s.origin
}

func (s *Store) load(ctx context.Context) (Collection, string) {
	if s.source == nil {
		return Synthetic(s.seed), OriginSynthetic
	}

	c, err := s.loadSource(ctx)
	if err == nil {
		err = c.validate()
	}
	if err == nil {
		return c, s.source.Name()
	}

	if errors.Is(err, ErrSourceAbsent) {
		s.log.Warn("no catalog data found, using synthetic data",
			zap.String("source", s.source.Name()),
			zap.Error(err),
		)
	} else {
		s.log.Warn("catalog data unreadable, using synthetic data",
			zap.String("source", s.source.Name()),
			zap.Error(err),
		)
	}
	return Synthetic(s.seed), OriginSynthetic
}

// loadSource turns a panicking source into a load error so the fallback
// still applies.
func (s *Store) loadSource(ctx context.Context) (c Collection, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s source panicked: %v", s.source.Name(), r)
		}
	}()
	return s.source.Load(ctx)
}
