// core/csvio/writer.go
package csvio

import (
	"io"

	"alignio-core/pipe"
	"alignio-core/seq"
	"alignio-core/streamio"
)

// Options configures a Writer.
type Options struct {
	// Fields is the explicit ordered column list. Empty, or exactly the
	// single full-name field (which option layers inject as a default),
	// means the columns are derived from the first written record.
	Fields []string

	// CRLF switches row terminators from LF to CRLF.
	CRLF bool
}

// Stats counts the rows a Writer has produced, header excluded.
type Stats struct {
	Rows int
}

// Writer serializes each tray's aligned record as one CSV row. The
// column set is frozen when the first record is written; the header row
// is emitted exactly once, right before it.
type Writer struct {
	out    io.WriteCloser
	rw     *RowWriter
	fields []string
	cols   []string
	frozen bool
	stats  Stats
}

// NewWriter opens path ("-" for stdout, .gz/.zst compressed) for CSV
// output.
func NewWriter(path string, opt Options) (*Writer, error) {
	out, err := streamio.OpenWriter(path)
	if err != nil {
		return nil, err
	}
	return NewWriterTo(out, opt), nil
}

// NewWriterTo writes CSV to an already-open stream; out is closed by
// Close.
func NewWriterTo(out io.WriteCloser, opt Options) *Writer {
	return &Writer{out: out, rw: NewRowWriter(out, opt.CRLF), fields: opt.Fields}
}

// Write emits one row for the tray's aligned record. A tray without an
// aligned record passes through untouched.
func (w *Writer) Write(t *pipe.Tray) error {
	if t == nil || t.Aligned == nil {
		return nil
	}
	rec := t.Aligned
	if !w.frozen {
		w.cols = w.pickColumns(rec)
		w.frozen = true
		if err := w.rw.Write(append([]string{"name"}, w.cols...)); err != nil {
			return err
		}
	}
	row := make([]string, 0, len(w.cols)+1)
	row = append(row, rec.Name)
	for _, k := range w.cols {
		row = append(row, attrText(rec, k))
	}
	if err := w.rw.Write(row); err != nil {
		return err
	}
	w.stats.Rows++
	return nil
}

// pickColumns fixes the column set for the writer's lifetime: the
// explicit field list when one was really configured, otherwise the
// first record's attribute keys in insertion order.
func (w *Writer) pickColumns(rec *seq.Sequence) []string {
	auto := len(w.fields) == 0 ||
		(len(w.fields) == 1 && w.fields[0] == seq.AttrFullName)
	if auto {
		return append([]string(nil), rec.Attrs.Keys()...)
	}
	return append([]string(nil), w.fields...)
}

// attrText resolves one column for rec. The full-name column reads the
// record description; anything else reads the attribute map, rendering
// missing keys as the empty string.
func attrText(rec *seq.Sequence, key string) string {
	if key == seq.AttrFullName {
		return rec.Desc()
	}
	v, _ := rec.Attrs.Get(key)
	return v.String()
}

func (w *Writer) Stats() Stats { return w.stats }

func (w *Writer) Close() error { return w.out.Close() }
