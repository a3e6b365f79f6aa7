// Package pager decides how freshly fetched pages combine with the stories
// already on screen, and computes the page window of the classic pager.
package pager

import (
	"fmt"
	"slices"

	"github.com/abelbrown/hackerstories/internal/story"
)

// Mode selects a pagination strategy.
type Mode string

const (
	// Classic shows one numbered page at a time.
	Classic Mode = "classic"
	// LoadMoreManual appends the next page when the user asks for it.
	LoadMoreManual Mode = "load-more-manual"
	// LoadMoreAuto appends the next page when the user reaches the last row.
	LoadMoreAuto Mode = "load-more-auto"
)

// DefaultWindowSize is the number of page buttons the classic pager shows.
const DefaultWindowSize = 5

// Modes lists every mode in the order the UI cycles through them.
var Modes = []Mode{LoadMoreManual, LoadMoreAuto, Classic}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", fmt.Errorf("unknown pager mode %q", s)
	}
	return m, nil
}

// Label returns the name shown in the mode selector.
func (m Mode) Label() string {
	switch m {
	case Classic:
		return "Classic"
	case LoadMoreManual:
		return "Get More (manual)"
	case LoadMoreAuto:
		return "Get More (auto)"
	}
	return string(m)
}

// LoadMore reports whether pages are appended rather than replaced.
func (m Mode) LoadMore() bool {
	return m == LoadMoreManual || m == LoadMoreAuto
}

// Next returns the mode following m in Modes.
func (m Mode) Next() Mode {
	i := slices.Index(Modes, m)
	return Modes[(i+1)%len(Modes)]
}

// Merge returns the unsorted collection that results from receiving next as
// page number page (0-based). Classic replaces; load-more appends unless the
// page is the first one. The result never aliases prev or next.
func Merge(mode Mode, page int, prev, next []story.Story) []story.Story {
	if !mode.LoadMore() || page == 0 {
		return slices.Clone(next)
	}
	out := make([]story.Story, 0, len(prev)+len(next))
	out = append(out, prev...)
	return append(out, next...)
}

// HasMore reports whether a page after page (0-based) exists.
func HasMore(page, totalPages int) bool {
	return page+1 < totalPages
}

// Window returns the 1-based page numbers to display around current
// (1-based), keeping size entries where the total allows it.
func Window(current, total, size int) []int {
	if size <= 0 {
		size = DefaultWindowSize
	}
	if total <= 0 {
		return nil
	}

	left := size / 2
	right := (size+1)/2 - 1

	// Borrow slots from the opposite side when current sits near an edge.
	addRight := 0
	if d := current - left - 1; d < 0 {
		addRight = -d
	}
	addLeft := 0
	if d := total - current - right; d < 0 {
		addLeft = -d
	}

	first := current - left - addLeft
	last := current + right + addRight

	pages := make([]int, 0, size)
	for i := first; i <= last; i++ {
		if i < 1 || i > total {
			continue
		}
		if len(pages) == size {
			break
		}
		pages = append(pages, i)
	}
	return pages
}
