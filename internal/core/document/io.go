package document

import (
	"context"
	"io"
)

// Source opens named documents for reading.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Sink creates named documents. Closing the returned writer commits it.
// Writers that also implement Abort are aborted instead of closed when a save fails.
type Sink interface {
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}

type aborter interface {
	Abort() error
}

func discard(w io.WriteCloser) {
	if a, ok := w.(aborter); ok {
		_ = a.Abort()
		return
	}
	_ = w.Close()
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
