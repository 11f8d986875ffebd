// Package sortengine drives the end-to-end directory sort and rewrite of
// spec.md section 4.7: assemble records, order them with a compare.Func,
// detect whether the order changed, and rewrite under the signal guard.
package sortengine

import (
	"github.com/lwouis/fatsort-go/compare"
	"github.com/lwouis/fatsort-go/compare/locale"
	"github.com/lwouis/fatsort-go/pathfilter"
)

// Config is every option of spec.md section 6 that shapes a sort pass.
type Config struct {
	Compare    compare.Options
	LocaleTag  string // BCP 47 tag, used only when Compare.Order == compare.OrderLocale
	Selection  pathfilter.Options
	RandomSeed int64
	ListOnly   bool
	Force      bool
}

// BuildComparator resolves cfg.Compare into a compare.Func, constructing the
// golang.org/x/text/collate collator for locale mode.
func (cfg *Config) BuildComparator() (compare.Func, error) {
	opts := cfg.Compare
	if opts.Order == compare.OrderLocale && opts.Locale == nil {
		tag, err := parseLocaleTag(cfg.LocaleTag)
		if err != nil {
			return nil, err
		}
		opts.Locale = locale.New(tag)
	}
	return compare.New(opts), nil
}
