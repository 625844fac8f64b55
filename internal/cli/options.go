// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"alignio-core/fasta"
	"alignio/internal/cliutil"
	"alignio/internal/common"
	"alignio/internal/version"
)

// Options holds all CLI flags and arguments, validated and immutable
// after ParseArgs returns.
type Options struct {
	// Input / output
	Inputs []string
	Out    string

	// FASTA writer
	Meta        fasta.MetaMode
	LineLength  int
	MinIdentity float64
	WriteDNA    bool
	WriteDots   bool

	// Partitioned reading
	BlockSize  int64
	BlockIndex int64

	// Standalone CSV sink
	CSVPath   string
	CSVFields []string
	CSVCRLF   bool

	// Run control
	Parallel int
	Report   string
	LogLevel string
	Quiet    bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: FASTA alignment I/O

Reads FASTA records, runs them through the alignment stage, and writes
aligned FASTA plus optional CSV attribute tables.

Version: %s

Usage: %s [flags] <input.fasta ...>   ('-' reads stdin)

`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Positionals (input paths, globs, '-') may appear anywhere on the line.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	var meta string
	var fields stringSlice

	// Output
	fs.StringVar(&opt.Out, "out", "-", "output FASTA path ('-' = stdout, .gz/.zst compressed) [-]")
	fs.StringVar(&meta, "meta", "none", "attribute placement: none | header | comment | csv [none]")
	fs.IntVar(&opt.LineLength, "line-length", 0, "wrap FASTA body lines at N columns (0 = one line) [0]")
	fs.Float64Var(&opt.MinIdentity, "min-idty", 0, "exclude records whose align_idty is below this [0]")
	fs.BoolVar(&opt.WriteDNA, "write-dna", false, "write T/t instead of U/u [false]")
	fs.BoolVar(&opt.WriteDots, "write-dots", false, "write unaligned edge gaps as '.' [false]")

	// Partitioned reading
	fs.Int64Var(&opt.BlockSize, "block-size", 0, "read only one byte-range block of this size (0 = whole input) [0]")
	fs.Int64Var(&opt.BlockIndex, "block-index", 0, "index of the block to read (with --block-size) [0]")

	// Standalone CSV sink
	fs.StringVar(&opt.CSVPath, "csv", "", "also write attributes as CSV to this path ('-' = stdout) []")
	fs.Var(&fields, "csv-fields", "CSV attribute column (repeatable or comma separated) []")
	fs.BoolVar(&opt.CSVCRLF, "csv-crlf", false, "terminate CSV rows with CRLF [false]")

	// Run control
	fs.IntVar(&opt.Parallel, "parallel", 1, "split one input into N partitions processed concurrently [1]")
	fs.StringVar(&opt.Report, "report", "text", "run report format: text | json [text]")
	fs.StringVar(&opt.LogLevel, "log-level", "info", "log level: debug | info | warn | error [info]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress per-record diagnostics [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	inputs, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return opt, err
	}
	opt.Inputs = inputs
	opt.CSVFields = common.CleanFields(splitCommas(fields))
	if opt.Meta, err = fasta.ParseMetaMode(meta); err != nil {
		return opt, err
	}

	// Validation
	if len(opt.Inputs) == 0 {
		return opt, errors.New("at least one input FASTA is required ('-' reads stdin)")
	}
	if opt.LineLength < 0 {
		return opt, errors.New("--line-length must be ≥ 0")
	}
	if opt.MinIdentity < 0 {
		return opt, errors.New("--min-idty must be ≥ 0")
	}
	if opt.BlockSize < 0 {
		return opt, errors.New("--block-size must be ≥ 0")
	}
	if opt.BlockIndex < 0 {
		return opt, errors.New("--block-index must be ≥ 0")
	}
	if opt.BlockIndex > 0 && opt.BlockSize == 0 {
		return opt, errors.New("--block-index requires --block-size")
	}
	if opt.BlockSize > 0 {
		if len(opt.Inputs) != 1 {
			return opt, errors.New("--block-size needs exactly one input file")
		}
		if opt.Inputs[0] == "-" {
			return opt, errors.New("--block-size cannot read stdin")
		}
	}
	if opt.Parallel < 1 {
		return opt, errors.New("--parallel must be ≥ 1")
	}
	if opt.Parallel > 1 {
		switch {
		case opt.BlockSize > 0:
			return opt, errors.New("--parallel conflicts with --block-size")
		case len(opt.Inputs) != 1:
			return opt, errors.New("--parallel needs exactly one input file")
		case opt.Inputs[0] == "-":
			return opt, errors.New("--parallel cannot read stdin")
		case opt.Out == "-":
			return opt, errors.New("--parallel requires --out (workers cannot share stdout)")
		case opt.CSVPath == "-":
			return opt, errors.New("--parallel requires a file path for --csv")
		}
	}
	if opt.Meta == fasta.MetaCSV && opt.Out == "-" {
		return opt, errors.New("--meta csv requires --out (the sidecar derives its path from it)")
	}
	if opt.CSVPath == "-" && opt.Out == "-" {
		return opt, errors.New("--csv and --out cannot both write to stdout")
	}
	if opt.Report != "text" && opt.Report != "json" {
		return opt, fmt.Errorf("invalid --report %q", opt.Report)
	}
	switch opt.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return opt, fmt.Errorf("invalid --log-level %q", opt.LogLevel)
	}
	return opt, nil
}

// splitCommas widens repeatable flag values that carry comma lists.
func splitCommas(in []string) []string {
	var out []string
	for _, v := range in {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
