// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"alignio-core/pipe"
)

// Source produces trays one at a time, ending the stream with io.EOF.
type Source interface {
	Next() (*pipe.Tray, error)
}

// Aligner fills the tray's aligned slot.
type Aligner interface {
	Align(ctx context.Context, t *pipe.Tray) error
}

// Sink consumes finished trays.
type Sink interface {
	Write(t *pipe.Tray) error
}

// Stats reports the work done by one Run.
type Stats struct {
	Trays int
}

// Run pulls records from src until io.EOF, aligns each tray, and hands
// it to every sink in order. The context is checked between trays and
// the first error stops the run. Notes accumulated on a tray are
// flushed to log at debug level once all sinks have seen it.
func Run(ctx context.Context, src Source, al Aligner, sinks []Sink, log *slog.Logger) (Stats, error) {
	if log == nil {
		log = slog.Default()
	}
	var st Stats
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		t, err := src.Next()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return st, err
		}
		if err := al.Align(ctx, t); err != nil {
			return st, err
		}
		for _, s := range sinks {
			if err := s.Write(t); err != nil {
				return st, err
			}
		}
		for _, note := range t.Log {
			log.Debug("tray note", "name", t.Input.Name, "note", note)
		}
		st.Trays++
	}
}
