// core/csvio/row.go

// Package csvio writes record attributes as RFC4180 CSV. encoding/csv is
// not used on the write side: it quotes fields with leading spaces and
// rewrites embedded line breaks, while this format's contract is to
// quote only when a field contains a quote, comma, CR or LF and to keep
// everything else verbatim.
package csvio

import (
	"io"
	"strings"
)

// RowWriter emits one RFC4180 row per Write call with a fixed line
// terminator.
type RowWriter struct {
	w   io.Writer
	eol []byte
	buf []byte
}

// NewRowWriter writes rows to w, terminated by LF or, when crlf is set,
// by CRLF as RFC4180 demands.
func NewRowWriter(w io.Writer, crlf bool) *RowWriter {
	eol := []byte("\n")
	if crlf {
		eol = []byte("\r\n")
	}
	return &RowWriter{w: w, eol: eol}
}

func (rw *RowWriter) Write(fields []string) error {
	rw.buf = rw.buf[:0]
	for i, f := range fields {
		if i > 0 {
			rw.buf = append(rw.buf, ',')
		}
		rw.buf = appendField(rw.buf, f)
	}
	rw.buf = append(rw.buf, rw.eol...)
	_, err := rw.w.Write(rw.buf)
	return err
}

// appendField appends f to dst, quoting only when f contains a quote,
// comma, CR or LF. Internal quotes are doubled.
func appendField(dst []byte, f string) []byte {
	if !strings.ContainsAny(f, "\",\r\n") {
		return append(dst, f...)
	}
	dst = append(dst, '"')
	for i := 0; i < len(f); i++ {
		if f[i] == '"' {
			dst = append(dst, '"', '"')
			continue
		}
		dst = append(dst, f[i])
	}
	return append(dst, '"')
}
