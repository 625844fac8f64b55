// core/streamio/open.go

// Package streamio opens paths for byte I/O: "-" maps to the standard
// streams, gzip and zstd are layered transparently. Downstream code sees
// plain readers and writers regardless of compression.
package streamio

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies the stream encoding detected on a file.
type Compression int

const (
	NoCompression Compression = iota
	Gzip
	Zstd
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Detect sniffs r's magic bytes and rewinds. Short or unreadable streams
// count as uncompressed.
func Detect(r io.ReadSeeker) Compression {
	var sig [4]byte
	n, _ := io.ReadFull(r, sig[:])
	_, _ = r.Seek(0, io.SeekStart)
	switch {
	case n >= 2 && sig[0] == 0x1f && sig[1] == 0x8b:
		return Gzip
	case n >= 4 && sig[0] == 0x28 && sig[1] == 0xb5 && sig[2] == 0x2f && sig[3] == 0xfd:
		return Zstd
	}
	return NoCompression
}

// CompressedSuffix reports whether path carries an extension the adapter
// treats as compressed.
func CompressedSuffix(path string) bool {
	return strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".zst")
}

// OpenReader opens path for reading. "-" is stdin (never closed).
// Compression is recognized by magic bytes or by a .gz/.zst suffix.
func OpenReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	kind := Detect(fh)
	if kind == NoCompression {
		switch {
		case strings.HasSuffix(path, ".gz"):
			kind = Gzip
		case strings.HasSuffix(path, ".zst"):
			kind = Zstd
		}
	}
	switch kind {
	case Gzip:
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	case Zstd:
		zr, err := zstd.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		rc := zr.IOReadCloser()
		return &multiReadCloser{Reader: rc, closers: []io.Closer{rc, fh}}, nil
	}
	return fh, nil
}
