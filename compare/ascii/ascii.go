// Package ascii implements the plain byte-wise order function of spec.md
// section 4.6 ("ascii: byte-wise strcmp").
package ascii

import "strings"

func Compare(a, b string) int {
	return strings.Compare(a, b)
}
