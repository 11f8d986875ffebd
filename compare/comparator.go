package compare

import (
	"github.com/lwouis/fatsort-go/compare/ascii"
	"github.com/lwouis/fatsort-go/compare/fold"
	"github.com/lwouis/fatsort-go/compare/locale"
	"github.com/lwouis/fatsort-go/compare/natural"
	"github.com/lwouis/fatsort-go/compare/prefix"
)

// DirPolicy selects the directory-grouping option of spec.md section 4.6
// step 1.
type DirPolicy int

const (
	DirsMixed DirPolicy = iota
	DirsFirst
	FilesFirst
)

// OrderFunc selects the order function of spec.md section 4.6 step 5.
type OrderFunc int

const (
	OrderNatural OrderFunc = iota
	OrderASCII
	OrderLocale
)

// Options carries every option spec.md section 6 feeds into the comparator.
// Locale must be non-nil when Order is OrderLocale.
type Options struct {
	DirPolicy      DirPolicy
	ByModTime      bool
	IgnorePrefixes []string
	IgnoreCase     bool
	Order          OrderFunc
	Locale         *locale.Comparator
	Reverse        bool
	ListingOnly    bool
	Randomize      bool
}

// Func is a strict weak order over two Records, ties returning zero.
type Func func(a, b Record) int

// New builds a Func from opts, implementing the exact positional-override
// order of spec.md section 4.6 followed by the fixed option precedence
// chain.
func New(opts Options) Func {
	return func(a, b Record) int {
		if c, ok := positionalOverride(a, b, opts); ok {
			return c
		}
		return compareByOptions(a, b, opts)
	}
}

// positionalOverride evaluates rules 1-5 of spec.md section 4.6 in order;
// the first matching rule fixes the result.
func positionalOverride(a, b Record, opts Options) (int, bool) {
	aLabel, bLabel := a.IsVolumeLabel(), b.IsVolumeLabel()
	if aLabel != bLabel {
		return boolLess(aLabel, bLabel), true
	}
	if aLabel && bLabel {
		return 0, true
	}

	aDot, bDot := a.ShortName() == ".", b.ShortName() == "."
	if aDot != bDot {
		return boolLess(aDot, bDot), true
	}
	if aDot && bDot {
		return 0, true
	}

	aDotDot, bDotDot := a.ShortName() == "..", b.ShortName() == ".."
	if aDotDot != bDotDot {
		return boolLess(aDotDot, bDotDot), true
	}
	if aDotDot && bDotDot {
		return 0, true
	}

	aDel, bDel := a.IsDeleted(), b.IsDeleted()
	if aDel != bDel {
		// deleted sorts after non-deleted, the reverse of boolLess's
		// "true sorts first" convention.
		if aDel {
			return 1, true
		}
		return -1, true
	}

	if opts.ListingOnly || opts.Randomize {
		return 1, true
	}

	return 0, false
}

// boolLess returns -1 if aFlag holds and not bFlag, 1 if bFlag holds and not
// aFlag, matching the "flagged record sorts first" shape shared by rules
// 1-3.
func boolLess(aFlag, bFlag bool) int {
	if aFlag {
		return -1
	}
	return 1
}

func compareByOptions(a, b Record, opts Options) int {
	if opts.DirPolicy != DirsMixed {
		aDir, bDir := a.IsDirectory(), b.IsDirectory()
		if aDir != bDir {
			if opts.DirPolicy == DirsFirst {
				return boolLess(aDir, bDir)
			}
			return boolLess(bDir, aDir)
		}
	}

	var c int
	if opts.ByModTime {
		ak, bk := a.ModTimeKey(), b.ModTimeKey()
		c = -1
		if ak > bk {
			c = 1
		} else if ak == bk {
			c = 0
		}
	} else {
		nameA, nameB := a.DisplayName(), b.DisplayName()
		if len(opts.IgnorePrefixes) > 0 {
			nameA = prefix.Strip(nameA, opts.IgnorePrefixes)
			nameB = prefix.Strip(nameB, opts.IgnorePrefixes)
		}
		if opts.IgnoreCase {
			nameA = fold.Fold(nameA)
			nameB = fold.Fold(nameB)
		}

		switch opts.Order {
		case OrderASCII:
			c = ascii.Compare(nameA, nameB)
		case OrderLocale:
			c = opts.Locale.Compare(nameA, nameB)
		default:
			c = natural.Compare(nameA, nameB)
		}
	}

	if opts.Reverse {
		c = -c
	}
	return c
}
