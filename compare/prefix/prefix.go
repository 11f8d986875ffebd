// Package prefix implements the ignore-prefixes stripping step of spec.md
// section 4.6 step 3: strip the first configured prefix that matches,
// case-insensitively regardless of the ignore-case option.
package prefix

import "strings"

// Strip removes the first prefix in prefixes that matches name
// case-insensitively, returning name unchanged if none match.
func Strip(name string, prefixes []string) string {
	lower := strings.ToLower(name)
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			return name[len(p):]
		}
	}
	return name
}
