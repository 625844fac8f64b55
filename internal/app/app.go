// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"alignio-core/fasta"
	"alignio-core/pipe"
	"alignio/internal/align"
	"alignio/internal/cli"
	"alignio/internal/jsonutil"
	"alignio/internal/logging"
	"alignio/internal/output"
	"alignio/internal/pipeline"
	"alignio/internal/runutil"
	"alignio/internal/version"
	"alignio/pkg/api"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("alignio")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); output.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); output.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		if e := outw.Flush(); output.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "alignio version %s\n", version.Version)
		if e := outw.Flush(); output.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	runID := uuid.NewString()
	log := logging.New(stderr, opts.LogLevel, opts.Quiet).With("run_id", runID)

	rep := api.ReportV1{Version: version.Version, RunID: runID}
	var runErr error
	if opts.Parallel > 1 {
		runErr = runParallel(parent, opts, log, &rep)
	} else {
		runErr = runSerial(parent, opts, stdout, log, &rep)
	}

	if runErr != nil {
		if output.IsBrokenPipe(runErr) {
			return 0
		}
		if errors.Is(runErr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, runErr)
		var confErr *pipe.ConfigError
		if errors.As(runErr, &confErr) {
			return 2
		}
		return 3
	}

	log.Info("run complete",
		"inputs", len(rep.Inputs),
		"lines", rep.LinesRead,
		"records", rep.RecordsRead,
		"skipped", rep.RecordsSkipped,
		"exported", rep.RecordsExported,
		"excluded", rep.RecordsExcluded,
	)
	if opts.Report == "json" {
		if err := jsonutil.WriteIndented(stderr, rep); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// runSerial feeds every input through one shared pair of sinks, in
// order, so multiple inputs concatenate into a single output stream.
func runSerial(ctx context.Context, opts cli.Options, stdout io.Writer, log *slog.Logger, rep *api.ReportV1) error {
	sinks, err := output.Build(sinkConfig(opts, opts.Out, opts.CSVPath, log), stdout)
	if err != nil {
		return err
	}

	var firstErr error
	for _, path := range opts.Inputs {
		if err := readInto(ctx, path, opts.BlockSize, opts.BlockIndex, sinks, log, rep); err != nil {
			firstErr = err
			break
		}
	}
	if err := sinks.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	harvest(rep, sinks)
	return firstErr
}

// readInto drains one input (or one partition of it) into the sinks and
// folds the reader counters into the report.
func readInto(ctx context.Context, path string, blockSize, blockIndex int64, sinks *output.Sinks, log *slog.Logger, rep *api.ReportV1) error {
	r, err := fasta.NewReader(path, fasta.ReaderOptions{
		Partition: fasta.Partition{BlockSize: blockSize, BlockIndex: blockIndex},
		Logger:    log,
	})
	if err != nil {
		return err
	}
	_, runErr := pipeline.Run(ctx, r, align.Prealigned{}, sinkList(sinks), log)
	closeErr := r.Close()

	st := r.Stats()
	rep.Inputs = append(rep.Inputs, api.InputReportV1{
		Path:           path,
		Partition:      int(blockIndex),
		LinesRead:      st.Lines,
		RecordsRead:    st.Records,
		RecordsSkipped: st.Skipped,
	})
	rep.LinesRead += st.Lines
	rep.RecordsRead += st.Records
	rep.RecordsSkipped += st.Skipped
	log.Info("input complete",
		"path", path,
		"lines", st.Lines,
		"records", st.Records,
		"skipped", st.Skipped,
	)

	if runErr != nil {
		return runErr
	}
	return closeErr
}

// runParallel splits the single input into Parallel byte-range blocks
// and runs one full reader/aligner/sink chain per block. Partition k
// writes <out>.partk so no two workers share a stream; the parts
// concatenate to the serial output.
func runParallel(parent context.Context, opts cli.Options, log *slog.Logger, rep *api.ReportV1) error {
	input := opts.Inputs[0]
	fi, err := os.Stat(input)
	if err != nil {
		return err
	}
	block := runutil.PlanBlockSize(fi.Size(), int64(opts.Parallel))

	results := make([]partResult, opts.Parallel)
	g, ctx := errgroup.WithContext(parent)
	for i := 0; i < opts.Parallel; i++ {
		i := i
		g.Go(func() error {
			return runPart(ctx, input, i, block, opts, log, &results[i])
		})
	}
	err = g.Wait()

	for i := range results {
		res := &results[i]
		if !res.done {
			continue
		}
		rep.Inputs = append(rep.Inputs, api.InputReportV1{
			Path:           input,
			Partition:      i,
			Output:         res.outPath,
			LinesRead:      res.reader.Lines,
			RecordsRead:    res.reader.Records,
			RecordsSkipped: res.reader.Skipped,
		})
		rep.LinesRead += res.reader.Lines
		rep.RecordsRead += res.reader.Records
		rep.RecordsSkipped += res.reader.Skipped
		rep.RecordsExported += res.writer.Exported
		rep.RecordsExcluded += res.writer.Excluded
		rep.CSVRows += res.csvRows
	}
	return err
}

type partResult struct {
	outPath string
	reader  fasta.ReaderStats
	writer  fasta.WriterStats
	csvRows int
	done    bool
}

func runPart(ctx context.Context, input string, idx int, block int64, opts cli.Options, log *slog.Logger, res *partResult) error {
	plog := log.With("partition", idx)

	r, err := fasta.NewReader(input, fasta.ReaderOptions{
		Partition: fasta.Partition{BlockSize: block, BlockIndex: int64(idx)},
		Logger:    plog,
	})
	if err != nil {
		return err
	}

	outPath := runutil.PartPath(opts.Out, idx)
	csvPath := ""
	if opts.CSVPath != "" {
		csvPath = runutil.PartPath(opts.CSVPath, idx)
	}
	sinks, err := output.Build(sinkConfig(opts, outPath, csvPath, plog), io.Discard)
	if err != nil {
		_ = r.Close()
		return err
	}

	_, runErr := pipeline.Run(ctx, r, align.Prealigned{}, sinkList(sinks), plog)
	closeErr := r.Close()
	if err := sinks.Close(); err != nil && runErr == nil && closeErr == nil {
		closeErr = err
	}

	res.outPath = outPath
	res.reader = r.Stats()
	res.writer = sinks.FASTA.Stats()
	if sinks.CSV != nil {
		res.csvRows = sinks.CSV.Stats().Rows
	}
	res.done = true
	plog.Info("partition complete",
		"output", outPath,
		"records", res.reader.Records,
		"exported", res.writer.Exported,
	)

	if runErr != nil {
		return runErr
	}
	return closeErr
}

func sinkConfig(opts cli.Options, outPath, csvPath string, log *slog.Logger) output.Config {
	return output.Config{
		FastaPath:   outPath,
		Meta:        opts.Meta,
		LineWidth:   opts.LineLength,
		MinIdentity: opts.MinIdentity,
		DNA:         opts.WriteDNA,
		Dots:        opts.WriteDots,
		CSVPath:     csvPath,
		CSVFields:   opts.CSVFields,
		CSVCRLF:     opts.CSVCRLF,
		Logger:      log,
	}
}

func sinkList(s *output.Sinks) []pipeline.Sink {
	list := []pipeline.Sink{s.FASTA}
	if s.CSV != nil {
		list = append(list, s.CSV)
	}
	return list
}

func harvest(rep *api.ReportV1, sinks *output.Sinks) {
	wst := sinks.FASTA.Stats()
	rep.RecordsExported += wst.Exported
	rep.RecordsExcluded += wst.Excluded
	if sinks.CSV != nil {
		rep.CSVRows += sinks.CSV.Stats().Rows
	}
}
