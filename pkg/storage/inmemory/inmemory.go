// Package inmemory keeps session records in process memory. It backs the
// API and worker pool tests, where nothing should touch disk.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/pairwise/pkg/session"
	"github.com/papercomputeco/pairwise/pkg/storage"
)

// Driver implements storage.Driver over a slice.
type Driver struct {
	mu      sync.RWMutex
	records []*session.Record
	closed  bool

	// FailWith, when set, is returned from every Append.
	FailWith error
}

var _ storage.Driver = (*Driver)(nil)

// NewDriver creates an empty in-memory driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Append stores a copy of rec.
func (d *Driver) Append(_ context.Context, rec *session.Record) error {
	if rec == nil {
		return storage.ErrNilRecord
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return storage.ErrClosed
	}
	if d.FailWith != nil {
		return d.FailWith
	}

	cp := *rec
	d.records = append(d.records, &cp)
	return nil
}

// Records returns the stored records in append order.
func (d *Driver) Records() []*session.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*session.Record, len(d.records))
	copy(out, d.records)
	return out
}

// Close rejects further appends.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
