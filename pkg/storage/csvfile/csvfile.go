// Package csvfile stores session records as rows of a CSV file.
//
// The file is opened in append mode for every record and closed again, so it
// can be copied, tailed or opened in a spreadsheet while the server runs. It
// is created with a header row on first use and is never truncated.
package csvfile

import (
	"context"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/papercomputeco/pairwise/pkg/session"
	"github.com/papercomputeco/pairwise/pkg/storage"
)

// DefaultPath is the log location used when none is configured.
const DefaultPath = "conversations_log.csv"

// Driver appends records to a CSV file.
type Driver struct {
	path   string
	closed atomic.Bool
}

var _ storage.Driver = (*Driver)(nil)

// NewDriver returns a driver writing to path. The file and its parent
// directory are created lazily on the first Append.
func NewDriver(path string) *Driver {
	if path == "" {
		path = DefaultPath
	}
	return &Driver{path: path}
}

// Path returns the file the driver appends to.
func (d *Driver) Path() string {
	return d.path
}

// Append writes rec as one row, preceded by session.Header if the file did
// not exist yet.
func (d *Driver) Append(ctx context.Context, rec *session.Record) error {
	if rec == nil {
		return storage.ErrNilRecord
	}
	if d.closed.Load() {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	isNew := false
	if _, err := os.Stat(d.path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking conversation log: %w", err)
		}
		isNew = true
	}

	if dir := filepath.Dir(d.path); isNew && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating conversation log directory: %w", err)
		}
	}

	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening conversation log: %w", err)
	}

	var rows [][]string
	if isNew {
		rows = append(rows, session.Header)
	}
	rows = append(rows, rec.Row())

	for _, row := range rows {
		line, err := encodeRow(row)
		if err != nil {
			f.Close()
			return fmt.Errorf("encoding conversation log row: %w", err)
		}
		if _, err := f.Write(line); err != nil {
			f.Close()
			return fmt.Errorf("writing conversation log row: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing conversation log: %w", err)
	}
	return nil
}

// Close marks the driver closed. No file handle is held between appends.
func (d *Driver) Close() error {
	d.closed.Store(true)
	return nil
}

// encodeRow quotes row as one CSV record terminated by CRLF. Newlines and
// carriage returns inside fields are written unchanged.
func encodeRow(row []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	line := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return append(line, '\r', '\n'), nil
}
