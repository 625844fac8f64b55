// core/fasta/reader_test.go
package fasta

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"alignio-core/pipe"
	"alignio-core/seq"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openReader(t *testing.T, path string, opt ReaderOptions) *Reader {
	t.Helper()
	r, err := NewReader(path, opt)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// collect drains the reader and fails the test on any non-EOF error.
func collect(t *testing.T, r *Reader) []*seq.Sequence {
	t.Helper()
	var recs []*seq.Sequence
	for {
		tr, err := r.Next()
		if err == io.EOF {
			return recs
		}
		require.NoError(t, err)
		require.NotNil(t, tr.Input)
		recs = append(recs, tr.Input)
	}
}

func names(recs []*seq.Sequence) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Name
	}
	return out
}

// attr renders the named attribute as text, failing when absent.
func attr(t *testing.T, rec *seq.Sequence, key string) string {
	t.Helper()
	v, ok := rec.Attrs.Get(key)
	require.True(t, ok, "attribute %q missing", key)
	return v.String()
}

func TestReaderParsesRecords(t *testing.T) {
	path := writeInput(t, "in.fasta", ">seq1 desc one\n;note=hello\nACGU\n>seq2\nACGT\n")
	r := openReader(t, path, ReaderOptions{})

	recs := collect(t, r)
	require.Len(t, recs, 2)

	require.Equal(t, "seq1", recs[0].Name)
	require.True(t, recs[0].HasDesc())
	require.Equal(t, "desc one", recs[0].Desc())
	require.Equal(t, "hello", attr(t, recs[0], "note"))
	require.Equal(t, "ACGU", string(recs[0].Bases()))

	require.Equal(t, "seq2", recs[1].Name)
	require.False(t, recs[1].HasDesc())
	require.Equal(t, "ACGT", string(recs[1].Bases()))

	st := r.Stats()
	require.Equal(t, 5, st.Lines)
	require.Equal(t, 2, st.Records)
	require.Equal(t, 0, st.Skipped)
}

func TestReaderDescriptionPresence(t *testing.T) {
	path := writeInput(t, "in.fasta", ">padded \nAC\n>bare\nGT\n>spaced two words\nAA\n")
	recs := collect(t, openReader(t, path, ReaderOptions{}))
	require.Len(t, recs, 3)

	// A trailing space keeps an empty but present description.
	require.True(t, recs[0].HasDesc())
	require.Equal(t, "", recs[0].Desc())

	require.False(t, recs[1].HasDesc())

	require.Equal(t, "spaced", recs[2].Name)
	require.Equal(t, "two words", recs[2].Desc())
}

func TestReaderComments(t *testing.T) {
	in := ">x ample\n" +
		";note=hello\n" +
		"; spaced =  padded value \n" +
		";just a remark\n" +
		";=nokey\n" +
		"ACGT\n"
	recs := collect(t, openReader(t, writeInput(t, "in.fasta", in), ReaderOptions{}))
	require.Len(t, recs, 1)

	rec := recs[0]
	require.Equal(t, []string{"note", "spaced"}, rec.Attrs.Keys())
	require.Equal(t, "hello", attr(t, rec, "note"))
	require.Equal(t, "padded value", attr(t, rec, "spaced"))
	require.Equal(t, "ACGT", string(rec.Bases()))
}

func TestReaderCommentAfterDataInvalidatesRecord(t *testing.T) {
	// Once residue data started, a ';' line is data and its ';' is an
	// invalid character, so the record is skipped.
	in := ">y\nAC\n;late=1\nGT\n>z\nAA\n"
	r := openReader(t, writeInput(t, "in.fasta", in), ReaderOptions{Logger: discard()})

	recs := collect(t, r)
	require.Equal(t, []string{"z"}, names(recs))
	require.Equal(t, 1, r.Stats().Skipped)
}

func TestReaderCRLF(t *testing.T) {
	path := writeInput(t, "in.fasta", ">a r1\r\n;k=v\r\nACGT\r\nGG\r\n")
	recs := collect(t, openReader(t, path, ReaderOptions{}))
	require.Len(t, recs, 1)
	require.Equal(t, "a", recs[0].Name)
	require.Equal(t, "r1", recs[0].Desc())
	require.Equal(t, "v", attr(t, recs[0], "k"))
	require.Equal(t, "ACGTGG", string(recs[0].Bases()))
}

func TestReaderSkipsLeadingJunk(t *testing.T) {
	path := writeInput(t, "in.fasta", "# produced elsewhere\njunk\n\n>a\nACGT\n")
	recs := collect(t, openReader(t, path, ReaderOptions{}))
	require.Equal(t, []string{"a"}, names(recs))
}

func TestReaderBlankLinesAndPadding(t *testing.T) {
	path := writeInput(t, "in.fasta", ">a\n\n  ACGT  \n\nGG\n")
	recs := collect(t, openReader(t, path, ReaderOptions{}))
	require.Len(t, recs, 1)
	require.Equal(t, "ACGTGG", string(recs[0].Bases()))
}

func TestReaderHeaderOnlyRecord(t *testing.T) {
	path := writeInput(t, "in.fasta", ">lone survivor\n")
	recs := collect(t, openReader(t, path, ReaderOptions{}))
	require.Len(t, recs, 1)
	require.Equal(t, "lone", recs[0].Name)
	require.Equal(t, 0, recs[0].Len())
}

func TestReaderEmptyInput(t *testing.T) {
	r := openReader(t, writeInput(t, "in.fasta", ""), ReaderOptions{})
	_, err := r.Next()
	require.Equal(t, io.EOF, err)
	require.Equal(t, ReaderStats{}, r.Stats())
}

func TestReaderMalformedRecordIsolation(t *testing.T) {
	var logbuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logbuf, nil))

	in := ">R1\nACGT\n>R2\nAC!T\nGGGG\n>R3\nGGCC\n"
	r := openReader(t, writeInput(t, "in.fasta", in), ReaderOptions{Logger: log})

	recs := collect(t, r)
	require.Equal(t, []string{"R1", "R3"}, names(recs))
	require.Equal(t, "GGCC", string(recs[1].Bases()))

	st := r.Stats()
	require.Equal(t, 2, st.Records)
	require.Equal(t, 1, st.Skipped)

	msg := logbuf.String()
	require.Contains(t, msg, "skipping sequence with invalid character")
	require.Contains(t, msg, "R2")
	require.Contains(t, msg, "char=!")
}

func TestReaderConsecutiveMalformedRecords(t *testing.T) {
	in := ">R1\nAC!T\n>R2\nGG?C\n>R3\nAA\n"
	r := openReader(t, writeInput(t, "in.fasta", in), ReaderOptions{Logger: discard()})

	recs := collect(t, r)
	require.Equal(t, []string{"R3"}, names(recs))
	require.Equal(t, 2, r.Stats().Skipped)
}

func TestReaderMalformedLastRecord(t *testing.T) {
	in := ">R1\nACGT\n>R2\nAC!T\n"
	r := openReader(t, writeInput(t, "in.fasta", in), ReaderOptions{Logger: discard()})

	recs := collect(t, r)
	require.Equal(t, []string{"R1"}, names(recs))
	require.Equal(t, 1, r.Stats().Skipped)
}

func TestReaderGzipInput(t *testing.T) {
	var raw bytes.Buffer
	zw := gzip.NewWriter(&raw)
	_, err := zw.Write([]byte(">a\nACGT\n>b\nGGCC\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "in.fasta.gz")
	require.NoError(t, os.WriteFile(path, raw.Bytes(), 0o644))

	recs := collect(t, openReader(t, path, ReaderOptions{}))
	require.Equal(t, []string{"a", "b"}, names(recs))
}

func TestReaderPartitionBoundaryAlignedHeaders(t *testing.T) {
	// Each record is exactly 9 bytes, so every header starts on a
	// multiple of the block size. A header at the bound belongs to the
	// next partition.
	content := ">r0\nAAAA\n>r1\nCCCC\n>r2\nGGGG\n"
	path := writeInput(t, "in.fasta", content)

	for idx := int64(0); idx < 3; idx++ {
		r := openReader(t, path, ReaderOptions{Partition: Partition{BlockSize: 9, BlockIndex: idx}})
		recs := collect(t, r)
		require.Equal(t, []string{fmt.Sprintf("r%d", idx)}, names(recs), "partition %d", idx)
	}
}

func TestReaderPartitionCompleteness(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, ">seq%03d sample %d\n", i, i)
		fmt.Fprintf(&sb, "%s\n", strings.Repeat("ACGU", i%7+1))
		if i%3 == 0 {
			fmt.Fprintf(&sb, "%s\n", strings.Repeat("GU", i%5+1))
		}
	}
	content := sb.String()
	path := writeInput(t, "big.fasta", content)

	flatten := func(recs []*seq.Sequence) []string {
		out := make([]string, len(recs))
		for i, rec := range recs {
			out[i] = rec.Name + "|" + rec.Desc() + "|" + string(rec.Bases())
		}
		return out
	}

	serial := flatten(collect(t, openReader(t, path, ReaderOptions{})))
	require.Len(t, serial, 40)

	size := int64(len(content))
	for _, block := range []int64{7, 64, 256, size, size + 9} {
		var got []string
		for idx := int64(0); idx*block < size; idx++ {
			r, err := NewReader(path, ReaderOptions{Partition: Partition{BlockSize: block, BlockIndex: idx}})
			require.NoError(t, err)
			got = append(got, flatten(collect(t, r))...)
			require.NoError(t, r.Close())
		}
		require.Equal(t, serial, got, "block size %d", block)
	}
}

func TestReaderPartitionPastEOF(t *testing.T) {
	path := writeInput(t, "in.fasta", ">a\nACGT\n")
	r := openReader(t, path, ReaderOptions{Partition: Partition{BlockSize: 1024, BlockIndex: 3}})
	_, err := r.Next()
	require.Equal(t, io.EOF, err)
}

func TestReaderPartitionConfigErrors(t *testing.T) {
	var confErr *pipe.ConfigError

	_, err := NewReader("-", ReaderOptions{Partition: Partition{BlockSize: 16}})
	require.ErrorAs(t, err, &confErr)

	path := writeInput(t, "in.fasta", ">a\nACGT\n")
	_, err = NewReader(path, ReaderOptions{Partition: Partition{BlockSize: -1}})
	require.ErrorAs(t, err, &confErr)
	_, err = NewReader(path, ReaderOptions{Partition: Partition{BlockSize: 16, BlockIndex: -2}})
	require.ErrorAs(t, err, &confErr)

	var raw bytes.Buffer
	zw := gzip.NewWriter(&raw)
	_, err = zw.Write([]byte(">a\nACGT\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	gzPath := filepath.Join(t.TempDir(), "in.fasta.gz")
	require.NoError(t, os.WriteFile(gzPath, raw.Bytes(), 0o644))

	_, err = NewReader(gzPath, ReaderOptions{Partition: Partition{BlockSize: 16}})
	require.ErrorAs(t, err, &confErr)

	// Unpartitioned reads of the same inputs stay fine.
	r, err := NewReader(gzPath, ReaderOptions{})
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.fasta"), ReaderOptions{})
	require.Error(t, err)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
