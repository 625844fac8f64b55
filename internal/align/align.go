// internal/align/align.go

// Package align holds the alignment stage used between the reader and
// the writers. The real engine is an external collaborator; Prealigned
// is the stand-in for inputs that are already aligned.
package align

import (
	"context"
	"fmt"

	"alignio-core/pipe"
)

// Prealigned copies the input record into the aligned slot unchanged.
type Prealigned struct{}

// Align deep-copies the input so downstream stages can render the
// aligned record without touching the raw input slot.
func (Prealigned) Align(_ context.Context, t *pipe.Tray) error {
	if t == nil || t.Input == nil {
		return fmt.Errorf("prealigned: %w", pipe.ErrBrokenTray)
	}
	t.Aligned = t.Input.Clone()
	return nil
}
