// Package pathfilter implements the directory selection policy of spec.md
// section 4.7 ("Selection filter"): path-list and regex modes, mutually
// exclusive.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/lwouis/fatsort-go/ferr"
)

// Entry is one include/exclude path-list rule.
type Entry struct {
	Path      string
	Recursive bool
}

// Filter decides whether a directory path should be sorted.
type Filter struct {
	includes     []Entry
	excludes     []Entry
	includeRegex *regexp.Regexp
	excludeRegex *regexp.Regexp
	isRegex      bool
}

// Normalize renders path rooted at '/' with a leading and trailing
// separator for each component, per spec.md section 4.7.
func Normalize(path string) string {
	parts := strings.Split(path, "/")
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "/"
	}
	return "/" + strings.Join(kept, "/") + "/"
}

func matches(path string, entries []Entry) bool {
	for _, e := range entries {
		target := Normalize(e.Path)
		if path == target {
			return true
		}
		if e.Recursive && strings.HasPrefix(path, target) {
			return true
		}
	}
	return false
}

// NewPathList builds a path-list mode Filter. With no includes, every
// directory is allowed except exclusions; with includes, a match is
// required and an exact exclusion still wins over a matching include.
func NewPathList(includes, excludes []Entry) *Filter {
	return &Filter{includes: includes, excludes: excludes}
}

// NewRegex builds a regex mode Filter. A nil includeRegex matches every
// directory.
func NewRegex(includeRegex, excludeRegex *regexp.Regexp) *Filter {
	return &Filter{includeRegex: includeRegex, excludeRegex: excludeRegex, isRegex: true}
}

// Allow reports whether path should be sorted, path already Normalize'd.
func (f *Filter) Allow(path string) bool {
	if f.isRegex {
		if f.excludeRegex != nil && f.excludeRegex.MatchString(path) {
			return false
		}
		if f.includeRegex == nil {
			return true
		}
		return f.includeRegex.MatchString(path)
	}

	if matches(path, f.excludes) {
		return false
	}
	if len(f.includes) == 0 {
		return true
	}
	return matches(path, f.includes)
}

// Options mirrors the CLI flag groups of spec.md section 6; New rejects a
// mix of the path-list and regex groups.
type Options struct {
	Includes     []Entry
	Excludes     []Entry
	IncludeRegex string
	ExcludeRegex string
}

// New validates that the path-list and regex option groups were not both
// supplied, and builds the appropriate Filter. An all-empty Options yields
// a Filter that allows everything.
func New(opts Options) (*Filter, error) {
	pathListActive := len(opts.Includes) > 0 || len(opts.Excludes) > 0
	regexActive := opts.IncludeRegex != "" || opts.ExcludeRegex != ""

	if pathListActive && regexActive {
		return nil, ferr.ErrUnsupported.WithMessage("path-list and regex selection are mutually exclusive")
	}

	if regexActive {
		var inc, exc *regexp.Regexp
		var err error
		if opts.IncludeRegex != "" {
			inc, err = regexp.Compile(opts.IncludeRegex)
			if err != nil {
				return nil, ferr.ErrUnsupported.WithMessage("invalid include-regex").WrapError(err)
			}
		}
		if opts.ExcludeRegex != "" {
			exc, err = regexp.Compile(opts.ExcludeRegex)
			if err != nil {
				return nil, ferr.ErrUnsupported.WithMessage("invalid exclude-regex").WrapError(err)
			}
		}
		return NewRegex(inc, exc), nil
	}

	return NewPathList(opts.Includes, opts.Excludes), nil
}
