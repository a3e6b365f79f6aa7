package stories

import (
	"fmt"
	"slices"

	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/story"
)

// Reduce applies a to s and returns the next state. It is pure: equal
// inputs give deep-equal outputs, and slices reachable from s or a are never
// written to. On error the returned state is s, unchanged.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case FetchStart:
		s.StatusMessage = a.Message
		return s, nil

	case FetchComplete:
		s.UnsortedItems = pager.Merge(a.Mode, a.Page, s.UnsortedItems, a.Data)
		s.Items = arrange(s.UnsortedItems, s.SortSpecs)
		s.StatusMessage = ""
		s.Page = a.Page
		s.TotalPages = a.TotalPages
		return s, nil

	case DeleteStart:
		s.StatusMessage = a.Message
		return s, nil
	case EditProcessing:
		s.StatusMessage = a.Message
		return s, nil
	case AddProcessing:
		s.StatusMessage = a.Message
		return s, nil

	// Mutation results arrive in backend order; the active sort is not
	// reapplied until the next fetch or SORT.
	case DeleteComplete:
		return replaceItems(s, a.Items), nil
	case EditComplete:
		return replaceItems(s, a.Items), nil
	case AddComplete:
		return replaceItems(s, a.Items), nil

	case SetError:
		s.StatusMessage = a.Message
		return s, nil
	case ClearError:
		s.StatusMessage = ""
		return s, nil

	case EditStart:
		if a.Story == nil {
			return s, fmt.Errorf("%w: %s without a story", ErrInvalidAction, a.Type())
		}
		editing := *a.Story
		s.Editing = &editing
		s.FormVisible = true
		return s, nil

	case AddStart:
		s.Editing = nil
		s.FormVisible = true
		return s, nil

	case CloseForm:
		s.Editing = nil
		s.FormVisible = false
		return s, nil

	case Sort:
		idx := slices.IndexFunc(s.SortSpecs, func(spec SortSpec) bool { return spec.Field == a.Field })
		if idx < 0 {
			return s, fmt.Errorf("%w: %s on unknown field %q", ErrInvalidAction, a.Type(), a.Field)
		}
		specs := make([]SortSpec, len(s.SortSpecs))
		for i, spec := range s.SortSpecs {
			specs[i] = SortSpec{Field: spec.Field, Direction: Unset}
		}
		specs[idx].Direction = s.SortSpecs[idx].Direction.Next()
		s.SortSpecs = specs
		s.Items = arrange(s.UnsortedItems, specs)
		return s, nil
	}
	return s, fmt.Errorf("%w: %s", ErrUnknownAction, TypeOf(a))
}

// arrange derives the display order from the base order and sort specs.
func arrange(unsorted []story.Story, specs []SortSpec) []story.Story {
	for _, spec := range specs {
		if spec.Direction != Unset {
			return story.SortBy(unsorted, spec.Field, spec.Direction == Ascending)
		}
	}
	return slices.Clone(unsorted)
}

func replaceItems(s State, items []story.Story) State {
	if items == nil {
		items = []story.Story{}
	}
	s.Items = slices.Clone(items)
	s.UnsortedItems = slices.Clone(items)
	s.StatusMessage = ""
	return s
}
