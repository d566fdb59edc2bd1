package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/folio"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// na is printed for values that cannot be computed.
const na = "n/a"

// gain formats a gain and its percentage, or n/a when the cost basis is not fully known.
func gain(m folio.Money, p folio.Percent, costKnown bool) (string, string) {
	if !costKnown {
		return na, na
	}
	return m.SignedString(), p.SignedString()
}
