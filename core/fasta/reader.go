// core/fasta/reader.go
//
// Package fasta reads and writes FASTA sequence records. The reader is
// pull based: callers ask for one record at a time and only ever see
// complete, valid records. Malformed records are logged and skipped.
package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"alignio-core/pipe"
	"alignio-core/seq"
	"alignio-core/streamio"
)

const readerBufSize = 64 * 1024

// Partition restricts a Reader to one byte-range block of a file, so
// several workers can split a large input without coordination. A
// record belongs to the partition its header byte falls in; the reader
// follows a record across the upper bound to finish it.
type Partition struct {
	BlockSize  int64
	BlockIndex int64
}

func (p Partition) active() bool { return p.BlockSize > 0 }

// ReaderOptions configures NewReader. The zero value reads the whole
// input and logs through slog.Default.
type ReaderOptions struct {
	Partition Partition
	Logger    *slog.Logger
}

// ReaderStats counts reader progress. Lines counts physical lines
// consumed from the stream, Records complete records handed out, and
// Skipped records dropped because of invalid sequence characters.
type ReaderStats struct {
	Lines   int
	Records int
	Skipped int
}

// Reader produces sequence records from one FASTA stream.
type Reader struct {
	rc  io.ReadCloser
	br  *bufio.Reader
	log *slog.Logger

	bound   int64 // exclusive upper byte bound, 0 when unpartitioned
	offset  int64 // byte offset of the next unread byte
	pending *pendingLine
	done    bool
	err     error
	stats   ReaderStats
}

// pendingLine holds a header line read while finishing the previous
// record, together with the offset it started at.
type pendingLine struct {
	line  []byte
	start int64
}

// NewReader opens path ("-" for stdin) and returns a reader over its
// records. Plain, gzip and zstd inputs are detected automatically.
// Partitioned reads need a seekable uncompressed file; stdin and
// compressed inputs are rejected here rather than mid-stream.
func NewReader(path string, opt ReaderOptions) (*Reader, error) {
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	p := opt.Partition
	if p.BlockSize < 0 || p.BlockIndex < 0 {
		return nil, pipe.Configf("fasta reader", "partition block size and index must not be negative")
	}
	if !p.active() {
		rc, err := streamio.OpenReader(path)
		if err != nil {
			return nil, err
		}
		return &Reader{rc: rc, br: bufio.NewReaderSize(rc, readerBufSize), log: log}, nil
	}

	if path == "-" {
		return nil, pipe.Configf("fasta reader", "partitioned read needs a seekable file, not stdin")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if streamio.Detect(fh) != streamio.NoCompression || streamio.CompressedSuffix(path) {
		_ = fh.Close()
		return nil, pipe.Configf("fasta reader", "partitioned read needs uncompressed input, %s looks compressed", path)
	}

	r := &Reader{rc: fh, log: log, bound: p.BlockSize * (p.BlockIndex + 1)}
	lower := p.BlockSize * p.BlockIndex
	r.offset = lower
	if lower > 0 {
		// Land one byte early and read through the next '\n'. That both
		// aligns the stream to a line start and drops any line straddling
		// the boundary, which the previous partition owns.
		if _, err := fh.Seek(lower-1, io.SeekStart); err != nil {
			_ = fh.Close()
			return nil, err
		}
		r.offset = lower - 1
	}
	r.br = bufio.NewReaderSize(fh, readerBufSize)
	if lower > 0 {
		skipped, err := r.br.ReadBytes('\n')
		r.offset += int64(len(skipped))
		if err == io.EOF {
			r.done = true
		} else if err != nil {
			_ = fh.Close()
			return nil, err
		}
	}
	return r, nil
}

// Next returns the next complete record wrapped in a fresh tray, or
// io.EOF when the stream (or this reader's partition) is exhausted.
func (r *Reader) Next() (*pipe.Tray, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.done {
		return nil, io.EOF
	}
	// Retry loop: a record that fails validation is logged, counted and
	// replaced by the next parseable one.
	for {
		header, start, err := r.scanHeader()
		if err != nil {
			return nil, r.fail(err)
		}
		if r.bound > 0 && start >= r.bound {
			// The header starts at or past the bound, so the record
			// belongs to the next partition.
			r.done = true
			return nil, io.EOF
		}

		attempt := r.stats.Records + r.stats.Skipped + 1
		rec := parseHeader(header)
		comments := true
		var bad *seq.BadCharError
		var badLine []byte

	body:
		for {
			line, lstart, err := r.readLine()
			if err != nil {
				if err == io.EOF {
					break body // record ends with the stream
				}
				return nil, r.fail(err)
			}
			switch {
			case len(line) > 0 && line[0] == '>':
				r.pending = &pendingLine{line: line, start: lstart}
				break body
			case comments && len(line) > 0 && line[0] == ';':
				parseComment(rec, line)
			default:
				comments = false
				data := bytes.TrimSpace(line)
				if len(data) == 0 {
					continue
				}
				if err := rec.Append(data); err != nil {
					errors.As(err, &bad)
					badLine = line
					break body
				}
			}
		}

		if bad == nil {
			r.stats.Records++
			return &pipe.Tray{Input: rec}, nil
		}

		r.stats.Skipped++
		r.log.Warn("skipping sequence with invalid character",
			"line", r.stats.Lines,
			"record", attempt,
			"name", rec.Name,
			"char", string(bad.Char),
			"data", string(badLine),
		)
		if err := r.skipToHeader(); err != nil {
			return nil, r.fail(err)
		}
	}
}

// Close releases the underlying stream. Stats stay readable after.
func (r *Reader) Close() error {
	r.done = true
	return r.rc.Close()
}

// Stats reports progress counters accumulated so far.
func (r *Reader) Stats() ReaderStats { return r.stats }

// fail records a terminal condition and returns the error the caller
// should see. io.EOF ends the stream cleanly, anything else sticks.
func (r *Reader) fail(err error) error {
	if err == io.EOF {
		r.done = true
		return io.EOF
	}
	r.err = err
	return err
}

// scanHeader returns the next header line, favoring one parked by a
// previous record's lookahead.
func (r *Reader) scanHeader() ([]byte, int64, error) {
	if p := r.pending; p != nil {
		r.pending = nil
		return p.line, p.start, nil
	}
	for {
		line, start, err := r.readLine()
		if err != nil {
			return nil, 0, err
		}
		if len(line) > 0 && line[0] == '>' {
			return line, start, nil
		}
	}
}

// skipToHeader discards lines up to the next header, which it parks
// for the following scanHeader call.
func (r *Reader) skipToHeader() error {
	for {
		line, start, err := r.readLine()
		if err != nil {
			return err
		}
		if len(line) > 0 && line[0] == '>' {
			r.pending = &pendingLine{line: line, start: start}
			return nil
		}
	}
}

// readLine returns the next line without its terminator plus the byte
// offset it started at. io.EOF means no bytes remain; a final line
// without a trailing newline is still returned.
func (r *Reader) readLine() ([]byte, int64, error) {
	start := r.offset
	line, err := r.br.ReadBytes('\n')
	r.offset += int64(len(line))
	if err != nil && (err != io.EOF || len(line) == 0) {
		return nil, start, err
	}
	r.stats.Lines++
	return trimEOL(line), start, nil
}

func trimEOL(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

// parseHeader splits ">name rest of description" into a new record.
// Everything after the first space is the description, which may be
// present but empty (">name " keeps an empty description).
func parseHeader(line []byte) *seq.Sequence {
	text := strings.TrimPrefix(string(line), ">")
	rec := &seq.Sequence{}
	if i := strings.IndexByte(text, ' '); i >= 0 {
		rec.Name = text[:i]
		rec.SetDesc(text[i+1:])
	} else {
		rec.Name = text
	}
	return rec
}

// parseComment handles ";key=value" lines between header and body.
// Lines without '=' carry no key and are dropped.
func parseComment(rec *seq.Sequence, line []byte) {
	text := strings.TrimPrefix(string(line), ";")
	i := strings.IndexByte(text, '=')
	if i < 0 {
		return
	}
	key := strings.TrimSpace(text[:i])
	if key == "" {
		return
	}
	rec.Attrs.Set(key, seq.StringValue(strings.TrimSpace(text[i+1:])))
}
