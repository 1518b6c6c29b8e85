package mms

import (
	"sync"
)

// Source yields just-received records, newest first. Latest returns nil when
// nothing is pending; the caller owns the returned record and must release it.
type Source interface {
	Latest() *Record
}

// Spool is an in-memory Source fed by the carrier-facing receiver. Each
// delivery pushes one record; each ingestion worker pops the newest. Records
// are independent, so no ordering is promised across workers.
type Spool struct {
	mu      sync.Mutex
	pending []*Record
}

// NewSpool creates an empty spool.
func NewSpool() *Spool {
	return &Spool{}
}

// Push adds a freshly delivered record to the spool.
func (s *Spool) Push(r *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, r)
}

// Latest removes and returns the newest pending record, or nil.
func (s *Spool) Latest() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	r := s.pending[len(s.pending)-1]
	s.pending = s.pending[:len(s.pending)-1]
	return r
}

// Len reports the number of pending records.
func (s *Spool) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
