package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/stories"
	"github.com/abelbrown/hackerstories/internal/story"
)

// Fixed column widths; the title column takes the rest.
const (
	authorColWidth = 24
	countColWidth  = 11
	minTitleWidth  = 20
	colGap         = 2
)

// RenderHeading renders the page title with the comment total.
func RenderHeading(sumComments int, width int) string {
	return Title.Width(width).Render(fmt.Sprintf("My Hacker Stories with %d comments", sumComments))
}

// titleWidth returns the width left for the title column.
func titleWidth(width int) int {
	w := width - authorColWidth - 2*countColWidth - 3*colGap
	if w < minTitleWidth {
		w = minTitleWidth
	}
	return w
}

// cell pads or truncates s to exactly w display columns.
func cell(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// rcell right-aligns s in w display columns.
func rcell(s string, w int) string {
	return runewidth.FillLeft(runewidth.Truncate(s, w, "…"), w)
}

// RenderColumnHeaders renders the sortable column headers. Each header shows
// the key that sorts it and the arrow of the active direction.
func RenderColumnHeaders(specs []stories.SortSpec, width int) string {
	dir := func(f story.Field) stories.Direction {
		for _, s := range specs {
			if s.Field == f {
				return s.Direction
			}
		}
		return stories.Unset
	}

	widths := []int{titleWidth(width), authorColWidth, countColWidth, countColWidth}
	parts := make([]string, len(story.SortableFields))
	for i, f := range story.SortableFields {
		d := dir(f)
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if arrow := d.Arrow(); arrow != "" {
			label += " " + arrow
		}
		var text string
		if f.Numeric() {
			text = rcell(label, widths[i])
		} else {
			text = cell(label, widths[i])
		}
		style := ColumnHeader
		if d != stories.Unset {
			style = ColumnHeaderActive
		}
		parts[i] = style.Render(text)
	}
	return strings.Join(parts, strings.Repeat(" ", colGap))
}

// renderRow renders one story as a table row.
func renderRow(s story.Story, selected bool, width int) string {
	row := strings.Join([]string{
		cell(s.Title, titleWidth(width)),
		cell(s.Author, authorColWidth),
		rcell(strconv.Itoa(s.NumComments), countColWidth),
		rcell(strconv.Itoa(s.Points), countColWidth),
	}, strings.Repeat(" ", colGap))

	if selected {
		return SelectedRow.Render(row)
	}
	return NormalRow.Render(row)
}

// RenderList renders the visible rows, scrolled so the cursor stays on
// screen.
func RenderList(items []story.Story, cursor, width, height int) string {
	if len(items) == 0 {
		return HelpStyle.Render("No stories to display. Press / to search or a to add one.")
	}
	if height < 1 {
		height = 1
	}

	offset := calcScrollOffset(len(items), cursor, height)
	end := offset + height
	if end > len(items) {
		end = len(items)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		b.WriteString(renderRow(items[i], i == cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

// calcScrollOffset returns the first visible row for a viewport of height
// rows that must contain cursor.
func calcScrollOffset(n, cursor, height int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	if cursor >= height {
		return cursor - height + 1
	}
	return 0
}

// RenderPager renders the pagination controls for mode. page is 0-based.
func RenderPager(mode pager.Mode, page, totalPages, size int) string {
	label := StatusBarText.Render("[" + mode.Label() + "]")

	switch mode {
	case pager.Classic:
		if totalPages <= 0 {
			return label
		}
		current := page + 1
		button := func(text string, enabled bool) string {
			if enabled {
				return PagerButton.Render(text)
			}
			return PagerDisabled.Render(text)
		}

		parts := []string{
			label,
			button("First", true),
			button("Previous", current > 1),
		}
		for _, p := range pager.Window(current, totalPages, size) {
			if p == current {
				parts = append(parts, PagerCurrent.Render(strconv.Itoa(p)))
			} else {
				parts = append(parts, PagerButton.Render(strconv.Itoa(p)))
			}
		}
		parts = append(parts,
			button("Next", current < totalPages),
			button("Last", true),
		)
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	case pager.LoadMoreManual:
		if !pager.HasMore(page, totalPages) {
			return label
		}
		return label + " " + StatusBarKey.Render("m") + StatusBarText.Render(": get more results")

	case pager.LoadMoreAuto:
		if !pager.HasMore(page, totalPages) {
			return label
		}
		return label + " " + StatusBarText.Render("more results load at the last row")
	}
	return label
}

// RenderSearchBar renders the search input.
func RenderSearchBar(input string, focused bool, width int) string {
	style := SearchBarIdle
	if focused {
		style = SearchBar
	}
	return style.Width(width).Render(StatusBarKey.Render("/") + " Search: " + input)
}

// RenderStatusBar renders the bottom status bar with position, source and
// key hints.
func RenderStatusBar(cursor, total int, source string, hints string, width int) string {
	position := fmt.Sprintf(" %d/%d ", min(cursor+1, total), total)
	left := position + StatusBarText.Render(source)

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(hints)
	padding := width - leftWidth - rightWidth - 2
	if padding < 1 {
		padding = 1
	}

	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + hints)
}
