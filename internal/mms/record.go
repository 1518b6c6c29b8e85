// Package mms models just-delivered multimedia messages as raw records: the
// boundary between the carrier-facing receiver and the ingestion pipeline.
package mms

import (
	"errors"
	"sync"
	"time"
)

// ErrReleased is returned when a record is released twice. The pipeline
// treats release failures as non-fatal and swallows them.
var ErrReleased = errors.New("record already released")

// Part is one logical message part inside a delivery: a text body, an image,
// a smil wrapper. Text carries decoded textual payloads; Data carries the
// raw bytes for binary parts.
type Part struct {
	Seq       int
	MimeType  string
	Text      string
	Data      []byte
	Timestamp time.Time
}

// Record is an opaque handle to one just-received MMS transaction. It is
// owned by the source that produced it; the pipeline queries it and then
// releases it, exactly once, even on failure.
type Record struct {
	From     string
	To       string // comma-space separated recipient list
	Received time.Time
	Parts    []Part

	mu       sync.Mutex
	released bool
	onRelease func() error
}

// NewRecord builds a record over the given addressing and parts. onRelease,
// if non-nil, runs when the record is released (closing spool resources).
func NewRecord(from, to string, received time.Time, parts []Part, onRelease func() error) *Record {
	return &Record{
		From:      from,
		To:        to,
		Received:  received,
		Parts:     parts,
		onRelease: onRelease,
	}
}

// Release frees the record. Releasing twice returns ErrReleased; callers are
// expected to ignore the error.
func (r *Record) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	r.released = true
	r.Parts = nil
	if r.onRelease != nil {
		return r.onRelease()
	}
	return nil
}

// Released reports whether the record has been released.
func (r *Record) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
