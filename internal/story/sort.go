package story

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortBy returns a copy of items ordered by field. Numeric fields compare
// numerically; text fields compare lower-cased under locale collation.
// The sort is stable and the input slice is never modified.
func SortBy(items []Story, field Field, ascending bool) []Story {
	out := slices.Clone(items)
	if len(out) < 2 {
		return out
	}

	// Collators keep internal buffers, so each call gets its own.
	col := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b Story) int {
		c := compare(col, a, b, field)
		if !ascending {
			return -c
		}
		return c
	})
	return out
}

func compare(col *collate.Collator, a, b Story, field Field) int {
	if field.Numeric() {
		x, y := a.Int(field), b.Int(field)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return col.CompareString(strings.ToLower(a.Text(field)), strings.ToLower(b.Text(field)))
}
