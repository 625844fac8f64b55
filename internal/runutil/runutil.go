// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"strings"
)

// PlanBlockSize splits size bytes across parts partitions and returns
// the per-partition block size (ceiling division). The result is never
// zero: a zero block size would mean "unpartitioned" to the reader, and
// every worker would read the whole file.
func PlanBlockSize(size, parts int64) int64 {
	if parts < 1 {
		parts = 1
	}
	if size <= 0 {
		return 1
	}
	return (size + parts - 1) / parts
}

// PartPath derives a per-partition output path: "res.fasta" becomes
// "res.fasta.part3". A trailing compression extension stays terminal
// ("res.fasta.gz" -> "res.fasta.part3.gz") so each part remains
// independently readable.
func PartPath(path string, idx int) string {
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(path, ext) {
			return fmt.Sprintf("%s.part%d%s", strings.TrimSuffix(path, ext), idx, ext)
		}
	}
	return fmt.Sprintf("%s.part%d", path, idx)
}
