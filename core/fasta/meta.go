// core/fasta/meta.go
package fasta

import (
	"strings"

	"alignio-core/pipe"
)

// MetaMode selects how record attributes are serialized around the
// sequence body. The set is closed; ParseMetaMode is the only way
// configuration reaches it.
type MetaMode uint8

const (
	// MetaNone writes the bare header and body.
	MetaNone MetaMode = iota
	// MetaHeader renders attributes inline as " [key=value]" on the
	// header line, except the family and full-name attributes.
	MetaHeader
	// MetaComment renders attributes as "; key=value" lines after the
	// header, except the family attribute.
	MetaComment
	// MetaCSV writes attributes to a sidecar CSV next to the output.
	MetaCSV
)

func (m MetaMode) String() string {
	switch m {
	case MetaNone:
		return "none"
	case MetaHeader:
		return "header"
	case MetaComment:
		return "comment"
	case MetaCSV:
		return "csv"
	}
	return "unknown"
}

// ParseMetaMode maps a mode name onto the closed MetaMode set. The empty
// string means none; unknown names are a configuration error.
func ParseMetaMode(s string) (MetaMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return MetaNone, nil
	case "header":
		return MetaHeader, nil
	case "comment":
		return MetaComment, nil
	case "csv":
		return MetaCSV, nil
	}
	return MetaNone, pipe.Configf("fasta writer", "unknown metadata mode %q (want none, header, comment or csv)", s)
}
