// core/seq/alphabet.go
package seq

import "fmt"

/* ------------------------ residue lookup table ------------------------ */

// baseOK marks every byte accepted in residue data: the IUPAC nucleotide
// codes in both cases plus '-' and '.' gap characters.
var baseOK [256]bool

func init() {
	set := func(cs string) {
		for i := 0; i < len(cs); i++ {
			baseOK[cs[i]] = true
		}
	}
	set("ACGTU")       // canonical bases
	set("MRWSYKVHDBN") // IUPAC ambiguity codes
	set("acgtu")
	set("mrwsykvhdbn")
	set("-.") // indel / unknown
}

// BadCharError reports a residue symbol outside the recognized alphabet.
type BadCharError struct {
	Char byte
	Col  int // 1-based position within the offending line
}

func (e *BadCharError) Error() string {
	return fmt.Sprintf("invalid character %q at column %d", e.Char, e.Col)
}
