// Package stories holds the state-transition core of the application: the
// collection State and the pure Reduce function that moves it forward one
// Action at a time.
//
// Reduce never performs I/O. Operational failures (network, missing ids)
// are turned into SetError actions by the caller before they get here; the
// only errors Reduce returns are programming errors (ErrInvalidAction,
// ErrUnknownAction), and on error the input state is returned untouched.
package stories

import (
	"fmt"

	"github.com/abelbrown/hackerstories/internal/story"
)

// Direction is the sort state of one column.
type Direction int

const (
	Unset Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	}
	return "unset"
}

// Next advances the three-way toggle unset → ascending → descending → unset.
func (d Direction) Next() Direction {
	switch d {
	case Unset:
		return Ascending
	case Ascending:
		return Descending
	}
	return Unset
}

// Arrow is the column header marker for the direction.
func (d Direction) Arrow() string {
	switch d {
	case Ascending:
		return "↑"
	case Descending:
		return "↓"
	}
	return ""
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unset", "":
		*d = Unset
	case "ascending":
		*d = Ascending
	case "descending":
		*d = Descending
	default:
		return fmt.Errorf("unknown sort direction %q", text)
	}
	return nil
}

// SortSpec is the sort state of one sortable field.
type SortSpec struct {
	Field     story.Field `json:"field" yaml:"field"`
	Direction Direction   `json:"direction" yaml:"direction"`
}

// State is the collection owned by the reducer. Treat it as a value: Reduce
// returns a new State and never writes through the slices it was given.
type State struct {
	// Items is the display order.
	Items []story.Story `json:"items" yaml:"items"`
	// UnsortedItems is fetch/insertion order, the base for re-sorting.
	UnsortedItems []story.Story `json:"unsortedItems" yaml:"unsortedItems"`
	// StatusMessage is empty when idle.
	StatusMessage string `json:"statusMessage" yaml:"statusMessage"`
	// Editing is the story open in the form; nil in add mode or when hidden.
	Editing     *story.Story `json:"editing,omitempty" yaml:"editing,omitempty"`
	FormVisible bool         `json:"formVisible" yaml:"formVisible"`
	SortSpecs   []SortSpec   `json:"sortSpecs" yaml:"sortSpecs"`

	// Page and TotalPages describe the last completed fetch. Page is 0-based.
	Page       int `json:"page" yaml:"page"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`
}

// NewState returns the start-of-session state: empty collections, idle
// status, hidden form and every sortable field unset.
func NewState() State {
	specs := make([]SortSpec, len(story.SortableFields))
	for i, f := range story.SortableFields {
		specs[i] = SortSpec{Field: f, Direction: Unset}
	}
	return State{
		Items:         []story.Story{},
		UnsortedItems: []story.Story{},
		SortSpecs:     specs,
	}
}

// ActiveSort returns the one non-unset sort spec, if any.
func (s State) ActiveSort() (SortSpec, bool) {
	for _, spec := range s.SortSpecs {
		if spec.Direction != Unset {
			return spec, true
		}
	}
	return SortSpec{}, false
}

// DirectionOf returns the sort direction of field.
func (s State) DirectionOf(field story.Field) Direction {
	for _, spec := range s.SortSpecs {
		if spec.Field == field {
			return spec.Direction
		}
	}
	return Unset
}

// Find returns the displayed story with the given id.
func (s State) Find(id int) (story.Story, bool) {
	if i := story.IndexOf(s.Items, id); i >= 0 {
		return s.Items[i], true
	}
	return story.Story{}, false
}

// SumComments totals NumComments over the displayed stories.
func (s State) SumComments() int {
	total := 0
	for _, item := range s.Items {
		total += item.NumComments
	}
	return total
}

// FormMode describes what the story form is doing.
type FormMode int

const (
	FormHidden FormMode = iota
	FormAdd
	FormEdit
)

// FormMode derives the form mode from FormVisible and Editing.
func (s State) FormMode() FormMode {
	switch {
	case !s.FormVisible:
		return FormHidden
	case s.Editing != nil:
		return FormEdit
	}
	return FormAdd
}

// Busy reports whether a status message is showing.
func (s State) Busy() bool {
	return s.StatusMessage != ""
}
