package storage

import "errors"

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("storage driver is closed")

// ErrNilRecord is returned when Append is called without a record.
var ErrNilRecord = errors.New("cannot append nil record")
