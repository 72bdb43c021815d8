// Package stdout provides a snapshot sink that writes newline-delimited
// JSON to an io.Writer, by default os.Stdout. It is the zero-infrastructure
// sink for local runs and piping into other tools.
package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/couchcryptid/weatherlink-live-collector/internal/domain"
)

// Writer emits one JSON line per snapshot.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer targeting os.Stdout.
func NewWriter() *Writer {
	return NewWriterTo(os.Stdout)
}

// NewWriterTo creates a Writer targeting the given destination.
func NewWriterTo(dst io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(dst)}
}

// Publish writes the snapshot as a single JSON line.
func (w *Writer) Publish(_ context.Context, snap domain.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
