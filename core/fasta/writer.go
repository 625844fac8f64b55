// core/fasta/writer.go
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"alignio-core/csvio"
	"alignio-core/pipe"
	"alignio-core/seq"
	"alignio-core/streamio"
)

const writerBufSize = 64 * 1024

// WriterOptions configures a Writer. The zero value writes plain
// headers, unwrapped bodies and no metadata.
type WriterOptions struct {
	Meta        MetaMode
	LineWidth   int     // wrap body lines at this width, <= 0 writes one line
	MinIdentity float64 // exclude records whose align_idty scores below this
	DNA         bool    // render U/u as T/t
	Dots        bool    // render unaligned edge gaps as '.'
	Logger      *slog.Logger
}

// WriterStats counts records written and records excluded (unaligned
// or below the identity threshold).
type WriterStats struct {
	Exported int
	Excluded int
}

// Writer serializes aligned records as FASTA, optionally with their
// attributes inline, as comment lines, or as a CSV sidecar.
type Writer struct {
	out io.WriteCloser
	bw  *bufio.Writer
	opt WriterOptions
	log *slog.Logger
	buf []byte

	csv       *csvio.RowWriter
	csvOut    io.WriteCloser
	csvCols   []string
	csvFrozen bool

	stats WriterStats
}

// NewWriter opens path ("-" for stdout, ".gz"/".zst" compressed) for
// FASTA output. In csv metadata mode a sidecar at path+".csv" is
// opened alongside, which rules out stdout.
func NewWriter(path string, opt WriterOptions) (*Writer, error) {
	if opt.Meta == MetaCSV && path == "-" {
		return nil, pipe.Configf("fasta writer", "csv metadata mode needs an output file, not stdout")
	}
	out, err := streamio.OpenWriter(path)
	if err != nil {
		return nil, err
	}
	w := newWriter(out, opt)
	if opt.Meta == MetaCSV {
		side, err := streamio.OpenWriter(path + ".csv")
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		w.csvOut = side
		w.csv = csvio.NewRowWriter(side, true)
	}
	return w, nil
}

// NewWriterTo wraps an already-open stream. The csv metadata mode
// derives its sidecar from a path and is rejected here.
func NewWriterTo(out io.WriteCloser, opt WriterOptions) (*Writer, error) {
	if opt.Meta == MetaCSV {
		return nil, pipe.Configf("fasta writer", "csv metadata mode needs a named output file")
	}
	return newWriter(out, opt), nil
}

func newWriter(out io.WriteCloser, opt WriterOptions) *Writer {
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Writer{out: out, bw: bufio.NewWriterSize(out, writerBufSize), opt: opt, log: log}
}

// Write serializes the tray's aligned record. Unaligned and
// below-threshold records are counted and skipped without error; a
// tray with no input record breaks the stage contract and is fatal.
func (w *Writer) Write(t *pipe.Tray) error {
	if t == nil || t.Input == nil {
		return fmt.Errorf("fasta writer: %w", pipe.ErrBrokenTray)
	}
	if t.Aligned == nil {
		w.stats.Excluded++
		w.log.Warn("sequence was not aligned, nothing to write",
			"name", t.Input.Name)
		return nil
	}
	rec := t.Aligned
	if w.opt.MinIdentity > rec.Identity() {
		w.stats.Excluded++
		w.log.Warn("sequence below identity threshold, excluded from output",
			"name", t.Input.Name,
			"threshold", w.opt.MinIdentity,
			"idty", rec.Identity(),
		)
		return nil
	}

	w.buf = w.buf[:0]
	w.buf = append(w.buf, '>')
	w.buf = append(w.buf, rec.Name...)
	if d := rec.Desc(); d != "" {
		w.buf = append(w.buf, ' ')
		w.buf = append(w.buf, d...)
	}

	switch w.opt.Meta {
	case MetaNone:
		w.buf = append(w.buf, '\n')
	case MetaHeader:
		for _, key := range rec.Attrs.Keys() {
			if key == seq.AttrFamily || key == seq.AttrFullName {
				continue
			}
			v, _ := rec.Attrs.Get(key)
			w.buf = append(w.buf, " ["...)
			w.buf = append(w.buf, key...)
			w.buf = append(w.buf, '=')
			w.buf = append(w.buf, v.String()...)
			w.buf = append(w.buf, ']')
		}
		w.buf = append(w.buf, '\n')
	case MetaComment:
		w.buf = append(w.buf, '\n')
		for _, key := range rec.Attrs.Keys() {
			if key == seq.AttrFamily {
				continue
			}
			v, _ := rec.Attrs.Get(key)
			w.buf = append(w.buf, "; "...)
			w.buf = append(w.buf, key...)
			w.buf = append(w.buf, '=')
			w.buf = append(w.buf, v.String()...)
			w.buf = append(w.buf, '\n')
		}
	case MetaCSV:
		w.buf = append(w.buf, '\n')
		if err := w.writeSidecar(rec); err != nil {
			return err
		}
	default:
		return pipe.Configf("fasta writer", "unknown metadata mode %d", w.opt.Meta)
	}

	body := rec.Aligned(w.opt.Dots, w.opt.DNA)
	if w.opt.LineWidth > 0 {
		for i := 0; i < len(body); i += w.opt.LineWidth {
			end := i + w.opt.LineWidth
			if end > len(body) {
				end = len(body)
			}
			w.buf = append(w.buf, body[i:end]...)
			w.buf = append(w.buf, '\n')
		}
	} else {
		w.buf = append(w.buf, body...)
		w.buf = append(w.buf, '\n')
	}

	if _, err := w.bw.Write(w.buf); err != nil {
		return err
	}
	w.stats.Exported++
	return nil
}

// writeSidecar appends one CSV row for rec, emitting the header first.
// Columns freeze on the first written record (its attribute keys in
// insertion order, align_family dropped); later records with other
// keys render empty cells rather than shifting the header.
func (w *Writer) writeSidecar(rec *seq.Sequence) error {
	if !w.csvFrozen {
		w.csvFrozen = true
		for _, key := range rec.Attrs.Keys() {
			if key != seq.AttrFamily {
				w.csvCols = append(w.csvCols, key)
			}
		}
		if err := w.csv.Write(append([]string{"name"}, w.csvCols...)); err != nil {
			return err
		}
	}
	row := make([]string, 0, len(w.csvCols)+1)
	row = append(row, rec.Name)
	for _, key := range w.csvCols {
		v, _ := rec.Attrs.Get(key)
		row = append(row, v.String())
	}
	return w.csv.Write(row)
}

// Close flushes buffered output and closes the primary stream and,
// in csv mode, the sidecar. The first error wins; stats stay
// readable after.
func (w *Writer) Close() error {
	first := w.bw.Flush()
	if err := w.out.Close(); err != nil && first == nil {
		first = err
	}
	if w.csvOut != nil {
		if err := w.csvOut.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats reports exported and excluded record counts.
func (w *Writer) Stats() WriterStats { return w.stats }
