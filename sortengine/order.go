package sortengine

import (
	"math/rand"

	"github.com/lwouis/fatsort-go/compare"
)

// buildOrderedList implements spec.md section 4.7 step 1: insert each
// record into the growing ordered list at the position the comparator
// picks. reordered is true the moment any insertion lands before the
// current tail.
func buildOrderedList(records []record, cmp compare.Func) (ordered []record, reordered bool) {
	ordered = make([]record, 0, len(records))
	for _, r := range records {
		pos := len(ordered)
		for i, existing := range ordered {
			if cmp(r, existing) < 0 {
				pos = i
				break
			}
		}
		if pos != len(ordered) {
			reordered = true
		}
		ordered = append(ordered, nil)
		copy(ordered[pos+1:], ordered[pos:])
		ordered[pos] = r
	}
	return ordered, reordered
}

// randomizeRange implements spec.md section 4.7 step 2: a Fisher-Yates
// permutation of the sub-range beginning after the leading anchored records
// (volume label, ".", "..") and ending before the first deleted record.
func randomizeRange(ordered []record, seed int64) {
	start := 0
	for start < len(ordered) && isAnchored(ordered[start]) {
		start++
	}
	end := len(ordered)
	for i := start; i < len(ordered); i++ {
		if ordered[i].IsDeleted() {
			end = i
			break
		}
	}

	rng := rand.New(rand.NewSource(seed))
	for i := end - 1; i > start; i-- {
		j := start + rng.Intn(i-start+1)
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
}

func isAnchored(r record) bool {
	return r.IsVolumeLabel() || r.ShortName() == "." || r.ShortName() == ".."
}
