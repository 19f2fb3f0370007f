package store

import (
	"context"
	"sync"

	"github.com/icar17/teachload/pkg/teachload"
)

// OpenFunc opens the sink a DeferredSink delegates to, along with a function
// releasing it.
type OpenFunc func(ctx context.Context) (teachload.Sink, func(), error)

// DeferredSink opens its underlying sink on the first EnsureSchema or Upsert.
// A run that fails before persisting never touches the database.
// An open error is returned from every later call without reopening.
type DeferredSink struct {
	open OpenFunc

	once    sync.Once
	sink    teachload.Sink
	release func()
	err     error
}

// NewDeferredSink creates a sink that calls open on first use.
func NewDeferredSink(open OpenFunc) *DeferredSink {
	if open == nil {
		panic("open cannot be nil")
	}
	return &DeferredSink{open: open}
}

func (s *DeferredSink) get(ctx context.Context) (teachload.Sink, error) {
	s.once.Do(func() {
		s.sink, s.release, s.err = s.open(ctx)
	})
	return s.sink, s.err
}

// EnsureSchema opens the sink and prepares its schema when it has one.
func (s *DeferredSink) EnsureSchema(ctx context.Context) error {
	sink, err := s.get(ctx)
	if err != nil {
		return err
	}
	if e, ok := sink.(interface{ EnsureSchema(context.Context) error }); ok {
		return e.EnsureSchema(ctx)
	}
	return nil
}

// Upsert opens the sink if needed and delegates.
func (s *DeferredSink) Upsert(ctx context.Context, rec teachload.Record) (bool, error) {
	sink, err := s.get(ctx)
	if err != nil {
		return false, err
	}
	return sink.Upsert(ctx, rec)
}

// Opened reports whether the underlying sink has been opened successfully.
func (s *DeferredSink) Opened() bool {
	return s.sink != nil
}

// Close releases the underlying sink if it was opened.
func (s *DeferredSink) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}
