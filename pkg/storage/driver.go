// Package storage defines where saved sessions go.
package storage

import (
	"context"

	"github.com/papercomputeco/pairwise/pkg/session"
)

// Driver persists session records. Drivers are not required to be safe for
// concurrent use; api/worker serializes calls through a single writer.
type Driver interface {
	// Append adds one record. A record is either fully written or an error
	// is returned; drivers never retry.
	Append(ctx context.Context, rec *session.Record) error

	// Close releases any resources held by the driver.
	Close() error
}
