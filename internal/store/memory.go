package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/icar17/teachload/pkg/teachload"
)

// MemorySink keeps records in memory with insert-if-absent semantics.
// It backs dry runs and tests.
type MemorySink struct {
	mu        sync.Mutex
	rows      map[teachload.Entity]map[string]teachload.Record
	order     map[teachload.Entity][]string
	checkRefs bool
}

// MemoryOption configures a MemorySink.
type MemoryOption func(*MemorySink)

// WithReferenceChecks makes Upsert reject records whose foreign keys are not
// stored yet, the way the database does.
func WithReferenceChecks() MemoryOption {
	return func(s *MemorySink) { s.checkRefs = true }
}

// NewMemorySink creates an empty sink.
func NewMemorySink(opts ...MemoryOption) *MemorySink {
	s := &MemorySink{
		rows:  make(map[teachload.Entity]map[string]teachload.Record),
		order: make(map[teachload.Entity][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert stores rec unless its key is already present.
func (s *MemorySink) Upsert(ctx context.Context, rec teachload.Record) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := rec.Entity()
	if _, ok := s.rows[e][rec.Key()]; ok {
		return false, nil
	}

	if s.checkRefs {
		for _, ref := range teachload.References(rec) {
			if _, ok := s.rows[ref.Target][ref.Value]; !ok {
				return false, fmt.Errorf("%s.%s=%q not present in %s: %w",
					e.Table(), ref.Column, ref.Value, ref.Target.Table(), teachload.ErrConstraintViolation)
			}
		}
	}

	if s.rows[e] == nil {
		s.rows[e] = make(map[string]teachload.Record)
	}
	s.rows[e][rec.Key()] = rec
	s.order[e] = append(s.order[e], rec.Key())
	return true, nil
}

// Get returns the stored record for key.
func (s *MemorySink) Get(e teachload.Entity, key string) (teachload.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[e][key]
	return rec, ok
}

// Count returns the number of stored records of e.
func (s *MemorySink) Count(e teachload.Entity) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[e])
}

// Keys returns the stored keys of e in insertion order.
func (s *MemorySink) Keys(e teachload.Entity) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order[e]...)
}
