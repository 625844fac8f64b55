// core/seq/sequence.go

// Package seq holds the sequence record model shared by every pipeline
// stage: one named residue row plus an insertion-ordered map of typed
// attributes.
package seq

// Distinguished attribute keys shared across the pipeline.
const (
	// AttrFullName names the description text after the record name on a
	// FASTA header line. Readers and writers keep it on the Sequence
	// itself (Desc), not in the attribute map; the constant exists so
	// configuration surfaces can refer to it.
	AttrFullName = "full_name"

	// AttrIdentity is the alignment identity score set by the aligner,
	// read back by the FASTA writer's threshold filter.
	AttrIdentity = "align_idty"

	// AttrFamily is the reference-neighbourhood blob. It is excluded
	// from header and comment metadata and from CSV sidecars.
	AttrFamily = "align_family"
)

// Sequence is one record: a name, optional description, attributes and a
// residue row. Residues are stored as received except that '.' gaps are
// normalized to '-'; case and the T/U distinction are preserved. An
// aligned sequence carries its gaps inline, so Len is the full column
// count.
type Sequence struct {
	Name  string
	Attrs Attributes

	desc    string
	hasDesc bool
	bases   []byte
}

// SetDesc records the description ("full name"). An empty description is
// remembered as present: a header with a trailing space reads back
// differently from one with no description at all.
func (s *Sequence) SetDesc(d string) {
	s.desc = d
	s.hasDesc = true
}

func (s *Sequence) Desc() string  { return s.desc }
func (s *Sequence) HasDesc() bool { return s.hasDesc }

// Append validates one line of residue data and adds it to the row.
// The line is checked before anything is stored, so a failed Append
// leaves the sequence unchanged.
func (s *Sequence) Append(line []byte) error {
	for i, c := range line {
		if !baseOK[c] {
			return &BadCharError{Char: c, Col: i + 1}
		}
	}
	for _, c := range line {
		if c == '.' {
			c = '-'
		}
		s.bases = append(s.bases, c)
	}
	return nil
}

// Len is the number of stored columns, gaps included.
func (s *Sequence) Len() int { return len(s.bases) }

// Bases returns the stored residue row. The slice is shared; treat it as
// read-only.
func (s *Sequence) Bases() []byte { return s.bases }

// Identity returns the align_idty attribute as a float, 0 when unset.
func (s *Sequence) Identity() float64 {
	v, _ := s.Attrs.Get(AttrIdentity)
	return v.Float()
}

// Clone returns a deep copy of the record.
func (s *Sequence) Clone() *Sequence {
	c := &Sequence{
		Name:    s.Name,
		Attrs:   s.Attrs.clone(),
		desc:    s.desc,
		hasDesc: s.hasDesc,
	}
	c.bases = append([]byte(nil), s.bases...)
	return c
}

// Aligned renders the residue row for output. Gap positions outside the
// span from first to last residue are unknown data rather than indels:
// they render as '.' when dots is set, '-' otherwise. Interior gaps are
// always '-'. When dna is set U maps to T (case preserved); otherwise
// residues are written as stored.
func (s *Sequence) Aligned(dots, dna bool) []byte {
	out := make([]byte, len(s.bases))
	edge := byte('-')
	if dots {
		edge = '.'
	}
	first, last := s.span()
	for i, c := range s.bases {
		if c == '-' {
			if i < first || i > last {
				out[i] = edge
			} else {
				out[i] = '-'
			}
			continue
		}
		out[i] = mapBase(c, dna)
	}
	return out
}

// span returns the index range [first, last] covered by residues;
// (len, -1) for an all-gap row.
func (s *Sequence) span() (first, last int) {
	first, last = len(s.bases), -1
	for i, c := range s.bases {
		if c != '-' {
			if first > i {
				first = i
			}
			last = i
		}
	}
	return first, last
}

func mapBase(c byte, dna bool) byte {
	if !dna {
		return c
	}
	switch c {
	case 'U':
		return 'T'
	case 'u':
		return 't'
	}
	return c
}
