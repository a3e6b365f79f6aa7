package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorAccent    = lipgloss.Color("208") // Orange
)

// Title style for the "My Hacker Stories" heading.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent).
	Padding(0, 1)

// SelectedRow style for the row under the cursor.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// NormalRow style for every other row.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// ColumnHeader style for the table header.
var ColumnHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Underline(true)

// ColumnHeaderActive marks the column the list is sorted by.
var ColumnHeaderActive = ColumnHeader.
	Foreground(colorAccent)

// Busy style for the in-flight status line that replaces the list.
var Busy = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Italic(true).
	Padding(1, 2)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// SearchBar style for the search input bar.
var SearchBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// SearchBarIdle is the search bar when it does not have focus.
var SearchBarIdle = SearchBar.
	Background(lipgloss.Color("236"))

// PagerButton style for classic pager entries.
var PagerButton = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// PagerCurrent style for the current page number.
var PagerCurrent = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// PagerDisabled style for buttons that cannot be used.
var PagerDisabled = PagerButton.
	Foreground(colorMuted).
	Strikethrough(true)

// FormBox frames the add/edit form.
var FormBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// FormLabel style for form field labels.
var FormLabel = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Width(14)

// FormLabelFocused style for the label of the focused field.
var FormLabelFocused = FormLabel.
	Foreground(colorHighlight).
	Bold(true)
