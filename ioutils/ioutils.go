package ioutils

import (
	"bufio"
	"io"
	"os"
)

type writeCloserWrapper struct {
	io.Writer
	closer func() error
}

func (r *writeCloserWrapper) Close() error {
	return r.closer()
}

// NewWriteCloserWrapper returns an io.WriteCloser writing to w and running
// closer on Close.
func NewWriteCloserWrapper(w io.Writer, closer func() error) io.WriteCloser {
	return &writeCloserWrapper{
		Writer: w,
		closer: closer,
	}
}

// OpenOutput returns a buffered sink for path. An empty path or "-" writes
// to stdout, which is flushed but left open on Close. Files are created,
// then flushed, synced and closed on Close.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return bufferedWriteCloser(os.Stdout, nil), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return bufferedWriteCloser(f, func() error {
		if err := f.Sync(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}), nil
}

func bufferedWriteCloser(w io.Writer, closer func() error) io.WriteCloser {
	bw := bufio.NewWriter(w)
	return NewWriteCloserWrapper(bw, func() error {
		if err := bw.Flush(); err != nil {
			if closer != nil {
				closer()
			}
			return err
		}
		if closer != nil {
			return closer()
		}
		return nil
	})
}
