// core/pipe/tray.go

// Package pipe defines the unit of work flowing between pipeline stages
// and the error classes stages report.
package pipe

import (
	"fmt"

	"alignio-core/seq"
)

// Tray carries one record through the pipeline: the raw input, the
// aligned result once an aligner has run, and a per-record log that
// stages may append to. A nil Aligned slot means alignment did not
// occur; writers treat that as a filterable condition, not an error.
// The tray owns both record slots.
type Tray struct {
	Input   *seq.Sequence
	Aligned *seq.Sequence
	Log     []string
}

// Logf appends one formatted message to the tray's log.
func (t *Tray) Logf(format string, a ...any) {
	t.Log = append(t.Log, fmt.Sprintf(format, a...))
}
