// internal/output/output.go

// Package output assembles the run's sinks from configuration: the
// primary FASTA writer plus an optional standalone CSV attribute table.
package output

import (
	"io"
	"log/slog"

	"alignio-core/csvio"
	"alignio-core/fasta"
	"alignio-core/streamio"
)

// Config selects and parameterizes the sinks of one run.
type Config struct {
	FastaPath   string
	Meta        fasta.MetaMode
	LineWidth   int
	MinIdentity float64
	DNA         bool
	Dots        bool

	CSVPath   string // "" disables the standalone CSV sink
	CSVFields []string
	CSVCRLF   bool

	Logger *slog.Logger
}

// Sinks bundles one run's writers. Fields are nil when disabled.
type Sinks struct {
	FASTA *fasta.Writer
	CSV   *csvio.Writer
}

// Build opens the configured sinks. The '-' path writes to stdout,
// which the caller provides so tests can capture it; stdout is never
// closed. On error every already-opened sink is closed again.
func Build(cfg Config, stdout io.Writer) (*Sinks, error) {
	wopt := fasta.WriterOptions{
		Meta:        cfg.Meta,
		LineWidth:   cfg.LineWidth,
		MinIdentity: cfg.MinIdentity,
		DNA:         cfg.DNA,
		Dots:        cfg.Dots,
		Logger:      cfg.Logger,
	}

	var (
		s   Sinks
		err error
	)
	if cfg.FastaPath == "-" {
		s.FASTA, err = fasta.NewWriterTo(streamio.NopWriteCloser(stdout), wopt)
	} else {
		s.FASTA, err = fasta.NewWriter(cfg.FastaPath, wopt)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CSVPath != "" {
		copt := csvio.Options{Fields: cfg.CSVFields, CRLF: cfg.CSVCRLF}
		if cfg.CSVPath == "-" {
			s.CSV = csvio.NewWriterTo(streamio.NopWriteCloser(stdout), copt)
		} else {
			s.CSV, err = csvio.NewWriter(cfg.CSVPath, copt)
			if err != nil {
				_ = s.FASTA.Close()
				return nil, err
			}
		}
	}
	return &s, nil
}

// Close flushes and closes every sink, returning the first error.
func (s *Sinks) Close() error {
	first := s.FASTA.Close()
	if s.CSV != nil {
		if err := s.CSV.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
