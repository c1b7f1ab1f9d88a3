package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Characters that never appear in a slug. Whitespace, underscores, and
	// hyphens survive this pass and are normalized below.
	invalidChars = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	// Runs of whitespace or underscores become a single hyphen.
	separatorRuns = regexp.MustCompile(`[\s_]+`)
	hyphenRuns    = regexp.MustCompile(`-{2,}`)
)

// Make creates a URL-friendly slug from the given name. It is deterministic
// and total: any input produces a (possibly empty) slug.
//
// Examples:
//   - "Green Embroidered Cotton Suit Set" → "green-embroidered-cotton-suit-set"
//   - "Kurta__Set  (Blue)" → "kurta-set-blue"
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = invalidChars.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// MakeUnique returns base if it is not taken, otherwise the first of
// base-1, base-2, ... that is free. The suffix space is unbounded, so this
// always terminates.
//
// This is advisory only: concurrent inserts of the same base can still
// collide, and the database unique constraint is the real guarantee.
func MakeUnique(base string, taken map[string]struct{}) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
