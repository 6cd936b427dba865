// Package normalize rewrites category-specific fact values into canonical
// forms. Every transform is best-effort and idempotent: a value the
// transform cannot apply to passes through unchanged, and re-normalizing an
// already canonical value is a no-op.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

// directionRules are checked in order; intercardinals come first so
// "northeast" canonicalizes to NE rather than matching the embedded "north".
var directionRules = []struct {
	word   string
	abbrev string
}{
	{"northeast", "NE"},
	{"northwest", "NW"},
	{"southeast", "SE"},
	{"southwest", "SW"},
	{"north", "N"},
	{"south", "S"},
	{"east", "E"},
	{"west", "W"},
}

var timePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(AM|PM|am|pm)?`)

// Facts returns a copy of the fact list with each fact canonicalized
func Facts(facts []model.Fact) []model.Fact {
	normalized := make([]model.Fact, len(facts))
	for i, f := range facts {
		normalized[i] = Fact(f)
	}
	return normalized
}

// Fact canonicalizes one fact's normalized value by category
func Fact(f model.Fact) model.Fact {
	switch f.Category {
	case model.CategoryLocation:
		f.NormalizedValue = normalizeDirection(f.NormalizedValue)
	case model.CategoryImpact:
		f.NormalizedValue = normalizeImpact(f.NormalizedValue)
	case model.CategoryTemporal:
		f.NormalizedValue = normalizeTime(f.NormalizedValue)
	}
	return f
}

// normalizeDirection replaces a value containing a full direction word with
// the standard abbreviation. Matching is case-insensitive; values without a
// direction word are left untouched.
func normalizeDirection(value string) string {
	lower := strings.ToLower(value)
	for _, rule := range directionRules {
		if strings.Contains(lower, rule.word) {
			return rule.abbrev
		}
	}
	return value
}

// normalizeImpact lowercases and joins impact descriptions with underscores
// (e.g. "Rear-Left" and "rear left" both become "rear_left")
func normalizeImpact(value string) string {
	impact := strings.ToLower(value)
	impact = strings.ReplaceAll(impact, "-", "_")
	impact = strings.ReplaceAll(impact, " ", "_")
	return impact
}

// normalizeTime rewrites an H:MM value (with optional AM/PM) as zero-padded
// HH:MM with an uppercase period suffix. Values with no time pattern pass
// through unchanged.
func normalizeTime(value string) string {
	m := timePattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return value
	}
	if m[3] != "" {
		return fmt.Sprintf("%02d:%s %s", hour, m[2], strings.ToUpper(m[3]))
	}
	return fmt.Sprintf("%02d:%s", hour, m[2])
}
