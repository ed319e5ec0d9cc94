// Package export delivers compiled documents to their destination.
package export

import (
	"context"
	"io"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// Target receives exported data. name identifies the exported document,
// e.g. a file name; targets are free to ignore it.
type Target interface {
	Export(ctx context.Context, name string, data []byte) error
}

// Writer writes every export to a single io.Writer. It is safe for
// concurrent use; exports are never interleaved.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Export(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write(data); err != nil {
		return errors.Wrapf(err, "failed to write %s", name)
	}
	return nil
}

// Clipboard copies exports to the system clipboard. Each export replaces
// the previous clipboard content.
type Clipboard struct {
	write func(string) error
}

func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

// Supported reports whether a clipboard utility is available.
func (*Clipboard) Supported() bool {
	return !clipboard.Unsupported
}

func (c *Clipboard) Export(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	write := c.write
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(string(data)); err != nil {
		return errors.Wrapf(err, "failed to copy %s to clipboard", name)
	}
	return nil
}

// Multi exports to every target in order and stops at the first error.
type Multi []Target

func (m Multi) Export(ctx context.Context, name string, data []byte) error {
	for _, t := range m {
		if err := t.Export(ctx, name, data); err != nil {
			return err
		}
	}
	return nil
}
