// core/streamio/write.go
package streamio

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// multiWriteCloser closes its closers in order; the compressor must come
// before the file so buffered blocks reach disk.
type multiWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (m *multiWriteCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NopWriteCloser wraps w with a no-op Close, for handing process-owned
// streams to writers that close what they own.
func NopWriteCloser(w io.Writer) io.WriteCloser { return nopWriteCloser{w} }

// OpenWriter opens path for writing, truncating any existing file.
// "-" is stdout (never closed). A .gz or .zst suffix interposes the
// matching streaming compressor.
func OpenWriter(path string) (io.WriteCloser, error) {
	if path == "-" {
		return NopWriteCloser(os.Stdout), nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gw := gzip.NewWriter(fh)
		return &multiWriteCloser{Writer: gw, closers: []io.Closer{gw, fh}}, nil
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiWriteCloser{Writer: zw, closers: []io.Closer{zw, fh}}, nil
	}
	return fh, nil
}
