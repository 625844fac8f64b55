// internal/jsonutil/json.go
package jsonutil

import (
	"encoding/json"
	"io"
)

// WriteIndented writes v as two-space indented JSON with a trailing
// newline. The value is marshaled completely before any byte goes out;
// a failed encode leaves w untouched.
func WriteIndented(w io.Writer, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	buf = append(buf, '\n')
	_, err = w.Write(buf)
	return err
}
