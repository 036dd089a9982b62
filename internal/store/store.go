// Package store holds one in-memory collection per entity and the load
// state of that collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
)

type State string

const (
	StateEmpty     State = "empty"
	StateLoading   State = "loading"
	StatePopulated State = "populated"
	StateError     State = "error"
)

var (
	ErrUnavailable = errors.New("store unavailable")
	ErrNotFound    = errors.New("record not found")
)

// Keyed records expose a unique identifier.
type Keyed interface {
	Key() string
}

// Loader produces the full collection. It must honour ctx cancellation.
type Loader[T any] interface {
	Load(ctx context.Context) ([]T, error)
}

type LoaderFunc[T any] func(ctx context.Context) ([]T, error)

func (f LoaderFunc[T]) Load(ctx context.Context) ([]T, error) { return f(ctx) }

type Option[T Keyed] func(*Store[T])

// WithClone sets the deep copy applied before a record is mutated.
func WithClone[T Keyed](clone func(T) T) Option[T] {
	return func(s *Store[T]) { s.clone = clone }
}

type fetch struct {
	gen    uint64
	done   chan struct{}
	cancel context.CancelFunc
}

// Store moves through empty -> loading -> populated | error. Only the
// newest fetch may commit its result.
type Store[T Keyed] struct {
	name   string
	loader Loader[T]
	clone  func(T) T
	logger logger.ZapLogger

	mu       sync.RWMutex
	state    State
	err      error
	records  []T
	gen      uint64
	inflight *fetch
}

func New[T Keyed](name string, loader Loader[T], log logger.ZapLogger, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:   name,
		loader: loader,
		clone:  func(v T) T { return v },
		logger: log,
		state:  StateEmpty,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch loads the collection. A populated store is left alone unless
// force is set. A non-forced call during a load joins it; a forced call
// cancels it and starts a newer one. ctx bounds only this caller's wait:
// the load itself is cancelled by a newer fetch, never by a caller
// going away.
func (s *Store[T]) Fetch(ctx context.Context, force bool) error {
	s.mu.Lock()
	if !force {
		switch s.state {
		case StatePopulated:
			s.mu.Unlock()
			return nil
		case StateLoading:
			f := s.inflight
			s.mu.Unlock()
			return s.wait(ctx, f)
		}
	}
	if s.inflight != nil {
		s.inflight.cancel()
	}
	fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.gen++
	f := &fetch{gen: s.gen, done: make(chan struct{}), cancel: cancel}
	s.inflight = f
	s.state = StateLoading
	s.err = nil
	s.mu.Unlock()

	go s.run(fctx, f)
	return s.wait(ctx, f)
}

// run performs the load for f and commits it if f is still the newest
// fetch.
func (s *Store[T]) run(ctx context.Context, f *fetch) {
	records, err := s.loader.Load(ctx)
	f.cancel()

	s.mu.Lock()
	if s.gen != f.gen {
		s.mu.Unlock()
		close(f.done)
		s.logger.Debug("discarding superseded fetch", zap.String("store", s.name), zap.Uint64("generation", f.gen))
		return
	}
	s.inflight = nil
	if err != nil {
		s.state = StateError
		s.err = err
	} else {
		s.state = StatePopulated
		s.records = records
	}
	s.mu.Unlock()
	close(f.done)

	if err != nil {
		s.logger.Error("store load failed", zap.String("store", s.name), zap.Error(err))
		return
	}
	s.logger.Info("store populated", zap.String("store", s.name), zap.Int("records", len(records)))
}

// wait blocks until the load in f, or whatever load superseded it,
// settles.
func (s *Store[T]) wait(ctx context.Context, f *fetch) error {
	for f != nil {
		select {
		case <-f.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.RLock()
		if s.state == StateLoading && s.inflight != f {
			f = s.inflight
			s.mu.RUnlock()
			continue
		}
		err := s.settledErr()
		s.mu.RUnlock()
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settledErr()
}

func (s *Store[T]) settledErr() error {
	switch s.state {
	case StatePopulated:
		return nil
	case StateError:
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, s.name, s.err)
	default:
		return fmt.Errorf("%w: %s is %s", ErrUnavailable, s.name, s.state)
	}
}

func (s *Store[T]) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err is the last load failure, nil unless the store is in StateError.
func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns a copy of the collection in store order.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

func (s *Store[T]) Find(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.Key() == id {
			return r, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
}

// Update applies fn to a copy of the record with the given id and stores
// the copy when fn succeeds. Updates are serialized.
func (s *Store[T]) Update(id string, fn func(*T) error) (T, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePopulated {
		return zero, fmt.Errorf("%w: %s is %s", ErrUnavailable, s.name, s.state)
	}
	i := slices.IndexFunc(s.records, func(r T) bool { return r.Key() == id })
	if i < 0 {
		return zero, fmt.Errorf("%s %s: %w", s.name, id, ErrNotFound)
	}
	next := s.clone(s.records[i])
	if err := fn(&next); err != nil {
		return zero, err
	}
	records := slices.Clone(s.records)
	records[i] = next
	s.records = records
	return next, nil
}

// Append adds rec to the end of a populated collection.
func (s *Store[T]) Append(rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePopulated {
		return fmt.Errorf("%w: %s is %s", ErrUnavailable, s.name, s.state)
	}
	s.records = append(slices.Clone(s.records), rec)
	return nil
}
