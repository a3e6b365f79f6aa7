package ui

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/hackerstories/internal/story"
)

// maxNewID bounds the id pre-filled into the add form.
const maxNewID = 1000000

const (
	fieldTitle = iota
	fieldURL
	fieldAuthor
	fieldComments
	fieldPoints
	fieldCount
)

var formLabels = [fieldCount]string{"Title:", "URL:", "Author(s):", "Num Comments:", "Points:"}

// randomID returns an id in [1, maxNewID].
func randomID() int {
	return rand.IntN(maxNewID) + 1
}

// storyForm edits one story. The id is fixed when the form opens.
type storyForm struct {
	id     int
	isAdd  bool
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
	// submitted is set once the form has been sent; further input is
	// ignored until the form closes.
	submitted bool
}

// newStoryForm opens the edit form for editing, or the add form with a
// fresh id when editing is nil.
func newStoryForm(editing *story.Story, newID func() int) storyForm {
	f := storyForm{isAdd: editing == nil}

	s := story.Story{}
	if editing != nil {
		s = *editing
	} else {
		s.ObjectID = newID()
	}
	f.id = s.ObjectID

	values := [fieldCount]string{
		s.Title,
		s.URL,
		s.Author,
		strconv.Itoa(s.NumComments),
		strconv.Itoa(s.Points),
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.Width = 40
		if i == fieldComments || i == fieldPoints {
			ti.CharLimit = 9
			ti.Width = 10
		}
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[0].Focus()
	return f
}

// Update moves focus between fields or edits the focused one.
func (f storyForm) Update(msg tea.KeyMsg) (storyForm, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Next):
		return f.setFocus((f.focus + 1) % fieldCount), nil
	case key.Matches(msg, formKeys.Prev):
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount), nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return f, cmd
}

func (f storyForm) setFocus(i int) storyForm {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
	return f
}

// Story builds the submitted story. Counts must be non-negative integers.
func (f storyForm) Story() (story.Story, error) {
	comments, err := parseCount(f.inputs[fieldComments].Value())
	if err != nil {
		return story.Story{}, fmt.Errorf("num comments: %w", err)
	}
	points, err := parseCount(f.inputs[fieldPoints].Value())
	if err != nil {
		return story.Story{}, fmt.Errorf("points: %w", err)
	}
	return story.Story{
		ObjectID:    f.id,
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		URL:         strings.TrimSpace(f.inputs[fieldURL].Value()),
		Author:      strings.TrimSpace(f.inputs[fieldAuthor].Value()),
		NumComments: comments,
		Points:      points,
	}, nil
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

// View renders the form.
func (f storyForm) View() string {
	var b strings.Builder
	heading := "Edit story"
	if f.isAdd {
		heading = "Add story"
	}
	fmt.Fprintf(&b, "%s  %s\n\n", ColumnHeader.Render(heading), StatusBarText.Render(fmt.Sprintf("id %d", f.id)))

	for i, in := range f.inputs {
		label := FormLabel
		if i == f.focus {
			label = FormLabelFocused
		}
		b.WriteString(label.Render(formLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString(ErrorStyle.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StatusBarKey.Render("enter") + StatusBarText.Render(":submit "))
	b.WriteString(StatusBarKey.Render("tab") + StatusBarText.Render(":next "))
	b.WriteString(StatusBarKey.Render("esc") + StatusBarText.Render(":cancel"))
	return FormBox.Render(b.String())
}
