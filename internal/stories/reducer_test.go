package stories

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/story"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	react = story.Story{ObjectID: 0, Title: "React", URL: "http://reactjs.org/", Author: "Jordan Walke", NumComments: 3, Points: 4}
	redux = story.Story{ObjectID: 1, Title: "Redux", URL: "https://redux.js.org/", Author: "Dan Abramov, Andrew Clark", NumComments: 2, Points: 5}
	vue   = story.Story{ObjectID: 2, Title: "Vue", URL: "https://vuejs.org/", Author: "Evan You", NumComments: 9, Points: 1}
)

// bogusAction is a type outside the reducer's vocabulary.
type bogusAction struct{}

func (bogusAction) Type() ActionType { return "NOT_A_REAL_ACTION" }
func (bogusAction) action()          {}

func loaded(items ...story.Story) State {
	s := NewState()
	s.Items = slices.Clone(items)
	s.UnsortedItems = slices.Clone(items)
	return s
}

func mustReduce(t *testing.T, s State, a Action) State {
	t.Helper()
	next, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("Reduce(%s) failed: %v", TypeOf(a), err)
	}
	return next
}

func ids(items []story.Story) []int {
	out := make([]int, len(items))
	for i, s := range items {
		out[i] = s.ObjectID
	}
	return out
}

func sortedIDs(items []story.Story) []int {
	out := ids(items)
	slices.Sort(out)
	return out
}

func activeCount(s State) int {
	n := 0
	for _, spec := range s.SortSpecs {
		if spec.Direction != Unset {
			n++
		}
	}
	return n
}

func TestNewState(t *testing.T) {
	s := NewState()
	if len(s.Items) != 0 || len(s.UnsortedItems) != 0 {
		t.Error("new state should start with empty collections")
	}
	if s.StatusMessage != "" || s.FormVisible || s.Editing != nil {
		t.Error("new state should be idle with the form hidden")
	}
	if len(s.SortSpecs) != len(story.SortableFields) {
		t.Errorf("expected %d sort specs, got %d", len(story.SortableFields), len(s.SortSpecs))
	}
	if _, ok := s.ActiveSort(); ok {
		t.Error("no sort should be active initially")
	}
}

func TestStatusMessageActions(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{FetchStart{Message: "Loading data..."}, "Loading data..."},
		{DeleteStart{Message: "Deleting a Story"}, "Deleting a Story"},
		{EditProcessing{Message: "Updating"}, "Updating"},
		{AddProcessing{Message: "Adding"}, "Adding"},
		{SetError{Message: "There was an error deleting the story"}, "There was an error deleting the story"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action.Type()), func(t *testing.T) {
			before := loaded(react, redux)
			after := mustReduce(t, before, tt.action)

			if after.StatusMessage != tt.want {
				t.Errorf("StatusMessage = %q, want %q", after.StatusMessage, tt.want)
			}
			// Everything but the message is untouched.
			after.StatusMessage = before.StatusMessage
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("unexpected state change (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClearError(t *testing.T) {
	s := loaded(react)
	s.StatusMessage = "boom"

	got := mustReduce(t, s, ClearError{})
	if got.StatusMessage != "" {
		t.Errorf("expected empty status, got %q", got.StatusMessage)
	}
}

func TestFetchCompleteClassicReplaces(t *testing.T) {
	x := story.Story{ObjectID: 10, Title: "X"}
	s := loaded(react, redux)
	s.StatusMessage = "Loading data..."

	got := mustReduce(t, s, FetchComplete{Data: []story.Story{x}, Page: 2, TotalPages: 5, Mode: pager.Classic})

	if diff := cmp.Diff([]story.Story{x}, got.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]story.Story{x}, got.UnsortedItems); diff != "" {
		t.Errorf("UnsortedItems mismatch (-want +got):\n%s", diff)
	}
	if got.StatusMessage != "" {
		t.Errorf("expected status cleared, got %q", got.StatusMessage)
	}
	if got.Page != 2 || got.TotalPages != 5 {
		t.Errorf("page = %d/%d, want 2/5", got.Page, got.TotalPages)
	}
}

func TestFetchCompleteLoadMoreAppends(t *testing.T) {
	x := story.Story{ObjectID: 10, Title: "X"}
	y := story.Story{ObjectID: 11, Title: "Y"}
	s := loaded(x)

	got := mustReduce(t, s, FetchComplete{Data: []story.Story{y}, Page: 1, TotalPages: 3, Mode: pager.LoadMoreManual})

	if diff := cmp.Diff([]story.Story{x, y}, got.UnsortedItems); diff != "" {
		t.Errorf("UnsortedItems mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]story.Story{x, y}, got.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchCompleteAppliesActiveSort(t *testing.T) {
	s := loaded(react)
	s = mustReduce(t, s, Sort{Field: story.FieldPoints}) // ascending
	s = mustReduce(t, s, Sort{Field: story.FieldPoints}) // descending

	got := mustReduce(t, s, FetchComplete{Data: []story.Story{vue, redux}, Page: 1, TotalPages: 2, Mode: pager.LoadMoreAuto})

	if diff := cmp.Diff([]int{0, 2, 1}, ids(got.UnsortedItems)); diff != "" {
		t.Errorf("UnsortedItems order mismatch (-want +got):\n%s", diff)
	}
	// points: redux 5, react 4, vue 1
	if diff := cmp.Diff([]int{1, 0, 2}, ids(got.Items)); diff != "" {
		t.Errorf("Items order mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchCompleteKeepsItemsPermutation(t *testing.T) {
	fetches := []FetchComplete{
		{Data: []story.Story{react, redux}, Page: 0, TotalPages: 2, Mode: pager.LoadMoreManual},
		{Data: []story.Story{vue}, Page: 1, TotalPages: 2, Mode: pager.LoadMoreManual},
		{Data: []story.Story{redux}, Page: 3, TotalPages: 4, Mode: pager.Classic},
	}

	s := NewState()
	s = mustReduce(t, s, Sort{Field: story.FieldTitle})
	for _, fc := range fetches {
		s = mustReduce(t, s, fc)
		if diff := cmp.Diff(sortedIDs(s.UnsortedItems), sortedIDs(s.Items)); diff != "" {
			t.Fatalf("Items is not a permutation of UnsortedItems (-want +got):\n%s", diff)
		}
	}
}

func TestMutationCompleteReplacesCollection(t *testing.T) {
	for _, mk := range []func([]story.Story) Action{
		func(items []story.Story) Action { return DeleteComplete{Items: items} },
		func(items []story.Story) Action { return EditComplete{Items: items} },
		func(items []story.Story) Action { return AddComplete{Items: items} },
	} {
		action := mk([]story.Story{redux})
		t.Run(string(action.Type()), func(t *testing.T) {
			s := loaded(react, redux, vue)
			s.StatusMessage = "working"

			got := mustReduce(t, s, action)
			if diff := cmp.Diff([]story.Story{redux}, got.Items); diff != "" {
				t.Errorf("Items mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]story.Story{redux}, got.UnsortedItems); diff != "" {
				t.Errorf("UnsortedItems mismatch (-want +got):\n%s", diff)
			}
			if got.StatusMessage != "" {
				t.Errorf("expected status cleared, got %q", got.StatusMessage)
			}
		})
	}
}

func TestDeleteCompleteEmpty(t *testing.T) {
	s := loaded(react, redux)
	s.StatusMessage = "Deleting Story and refreshing"

	got := mustReduce(t, s, DeleteComplete{Items: []story.Story{}})

	if len(got.Items) != 0 || len(got.UnsortedItems) != 0 {
		t.Errorf("expected empty collections, got %v / %v", got.Items, got.UnsortedItems)
	}
	if got.StatusMessage != "" {
		t.Errorf("expected empty status, got %q", got.StatusMessage)
	}
}

// Mutation completions keep backend order even when a sort is active; the
// sort comes back on the next SORT or fetch.
func TestMutationCompleteDoesNotResort(t *testing.T) {
	s := loaded(react, redux, vue)
	s = mustReduce(t, s, Sort{Field: story.FieldPoints}) // ascending: vue, react, redux

	backendOrder := []story.Story{redux, react, vue}
	got := mustReduce(t, s, EditComplete{Items: backendOrder})

	if diff := cmp.Diff([]int{1, 0, 2}, ids(got.Items)); diff != "" {
		t.Errorf("Items should keep backend order (-want +got):\n%s", diff)
	}
	if got.DirectionOf(story.FieldPoints) != Ascending {
		t.Error("sort spec should survive the mutation")
	}

	refetched := mustReduce(t, got, FetchComplete{Data: backendOrder, Page: 0, TotalPages: 1, Mode: pager.Classic})
	if diff := cmp.Diff([]int{2, 0, 1}, ids(refetched.Items)); diff != "" {
		t.Errorf("fetch should re-sort (-want +got):\n%s", diff)
	}
}

func TestEditStart(t *testing.T) {
	s := loaded(react, redux)
	target := redux

	got := mustReduce(t, s, EditStart{Story: &target})

	if !got.FormVisible {
		t.Error("form should be visible")
	}
	if got.Editing == nil || *got.Editing != redux {
		t.Fatalf("Editing = %v, want %v", got.Editing, redux)
	}
	if got.FormMode() != FormEdit {
		t.Errorf("FormMode = %v, want FormEdit", got.FormMode())
	}

	// The state keeps its own copy.
	target.Title = "changed"
	if got.Editing.Title != "Redux" {
		t.Error("Editing aliases the action payload")
	}
}

func TestEditStartWithoutStory(t *testing.T) {
	s := loaded(react, redux)

	got, err := Reduce(s, EditStart{})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("state should be unchanged (-want +got):\n%s", diff)
	}
}

func TestFormLifecycle(t *testing.T) {
	s := loaded(react)

	add := mustReduce(t, s, AddStart{})
	if !add.FormVisible || add.Editing != nil || add.FormMode() != FormAdd {
		t.Errorf("ADD_START should open an empty form, got visible=%v editing=%v", add.FormVisible, add.Editing)
	}

	r := react
	edit := mustReduce(t, add, EditStart{Story: &r})
	back := mustReduce(t, edit, AddStart{})
	if back.Editing != nil {
		t.Error("ADD_START should drop the story being edited")
	}

	closed := mustReduce(t, edit, CloseForm{})
	if closed.FormVisible || closed.Editing != nil || closed.FormMode() != FormHidden {
		t.Error("CLOSE_FORM should hide the form and clear Editing")
	}
}

func TestSortScenario(t *testing.T) {
	a := story.Story{ObjectID: 1, Title: "A", Points: 4}
	b := story.Story{ObjectID: 2, Title: "B", Points: 5}
	s := State{
		Items:         []story.Story{a, b},
		UnsortedItems: []story.Story{a, b},
		SortSpecs:     []SortSpec{{Field: story.FieldPoints, Direction: Unset}},
	}

	got := mustReduce(t, s, Sort{Field: story.FieldPoints})

	if diff := cmp.Diff([]story.Story{a, b}, got.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	if got.DirectionOf(story.FieldPoints) != Ascending {
		t.Errorf("points direction = %v, want ascending", got.DirectionOf(story.FieldPoints))
	}
}

func TestSortCycle(t *testing.T) {
	s := loaded(react, redux, vue)
	want := []Direction{Ascending, Descending, Unset, Ascending}
	wantOrder := [][]int{{2, 0, 1}, {1, 0, 2}, {0, 1, 2}, {2, 0, 1}}

	for i := range want {
		s = mustReduce(t, s, Sort{Field: story.FieldPoints})
		if got := s.DirectionOf(story.FieldPoints); got != want[i] {
			t.Errorf("after %d sorts direction = %v, want %v", i+1, got, want[i])
		}
		if diff := cmp.Diff(wantOrder[i], ids(s.Items)); diff != "" {
			t.Errorf("after %d sorts order mismatch (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestSortIsExclusive(t *testing.T) {
	s := loaded(react, redux, vue)
	for _, f := range []story.Field{story.FieldTitle, story.FieldTitle, story.FieldAuthor, story.FieldNumComments, story.FieldPoints} {
		s = mustReduce(t, s, Sort{Field: f})
		if n := activeCount(s); n > 1 {
			t.Fatalf("after SORT %s, %d specs active", f, n)
		}
	}
	active, ok := s.ActiveSort()
	if !ok || active.Field != story.FieldPoints || active.Direction != Ascending {
		t.Errorf("active sort = %+v (ok=%v), want points ascending", active, ok)
	}
	if s.DirectionOf(story.FieldTitle) != Unset {
		t.Error("title should have been reset by later sorts")
	}
}

func TestSortDoesNotMutateInputSpecs(t *testing.T) {
	s := loaded(react, redux)
	before := slices.Clone(s.SortSpecs)

	_ = mustReduce(t, s, Sort{Field: story.FieldTitle})

	if diff := cmp.Diff(before, s.SortSpecs); diff != "" {
		t.Errorf("input SortSpecs modified (-want +got):\n%s", diff)
	}
}

func TestSortUnknownField(t *testing.T) {
	s := loaded(react)
	for _, f := range []story.Field{story.FieldURL, "bogus"} {
		got, err := Reduce(s, Sort{Field: f})
		if !errors.Is(err, ErrInvalidAction) {
			t.Errorf("SORT %q: expected ErrInvalidAction, got %v", f, err)
		}
		if diff := cmp.Diff(s, got); diff != "" {
			t.Errorf("state should be unchanged (-want +got):\n%s", diff)
		}
	}
}

func TestUnknownAction(t *testing.T) {
	s := loaded(react)

	if _, err := Reduce(s, bogusAction{}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
	if _, err := Reduce(s, nil); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("nil action: expected ErrUnknownAction, got %v", err)
	}
}

func TestReduceIsPure(t *testing.T) {
	r := redux
	actions := []Action{
		FetchStart{Message: "Loading data..."},
		FetchComplete{Data: []story.Story{react, redux, vue}, Page: 0, TotalPages: 2, Mode: pager.LoadMoreManual},
		Sort{Field: story.FieldTitle},
		FetchComplete{Data: []story.Story{{ObjectID: 9, Title: "Angular"}}, Page: 1, TotalPages: 2, Mode: pager.LoadMoreManual},
		EditStart{Story: &r},
		EditComplete{Items: []story.Story{vue, react}},
		CloseForm{},
		Sort{Field: story.FieldTitle},
		SetError{Message: "oops"},
		ClearError{},
	}

	s := NewState()
	for _, a := range actions {
		snapshot, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}

		first := mustReduce(t, s, a)
		second := mustReduce(t, s, a)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("%s is not deterministic (-first +second):\n%s", a.Type(), diff)
		}

		after, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		if string(snapshot) != string(after) {
			t.Fatalf("%s modified its input state", a.Type())
		}
		s = first
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Action
	}{
		{"FETCH_START", `"Loading data..."`, FetchStart{Message: "Loading data..."}},
		{"SET_ERROR", `"boom"`, SetError{Message: "boom"}},
		{"CLEAR_ERROR", ``, ClearError{}},
		{"ADD_START", `null`, AddStart{}},
		{"CLOSE_FORM", ``, CloseForm{}},
		{"SORT", `"points"`, Sort{Field: story.FieldPoints}},
		{"DELETE_COMPLETE", `[]`, DeleteComplete{Items: []story.Story{}}},
		{"ADD_COMPLETE", `[{"objectID":1,"title":"Redux"}]`, AddComplete{Items: []story.Story{{ObjectID: 1, Title: "Redux"}}}},
		{"EDIT_START", `{"objectID":"3","title":"Go"}`, EditStart{Story: &story.Story{ObjectID: 3, Title: "Go"}}},
		{"EDIT_START", `null`, EditStart{}},
		{
			"FETCH_COMPLETE",
			`{"data":[{"objectID":0,"title":"React"}],"page":1,"totalPages":4,"pagerMode":"classic"}`,
			FetchComplete{Data: []story.Story{{ObjectID: 0, Title: "React"}}, Page: 1, TotalPages: 4, Mode: pager.Classic},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.name, json.RawMessage(tt.payload))
			if err != nil {
				t.Fatalf("ParseAction failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("action mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseActionErrors(t *testing.T) {
	if _, err := ParseAction("NOT_A_REAL_ACTION", nil); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
	if _, err := ParseAction("SET_ERROR", json.RawMessage(`{"oops":true}`)); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction for bad payload, got %v", err)
	}
	if _, err := ParseAction("FETCH_COMPLETE", json.RawMessage(`{"data":[],"pagerMode":"sideways"}`)); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction for bad pager mode, got %v", err)
	}
}

// Journaled actions must replay to the same action.
func TestEncodePayloadParsesBack(t *testing.T) {
	actions := []Action{
		FetchStart{Message: "Loading data..."},
		FetchComplete{Data: []story.Story{react, redux}, Page: 2, TotalPages: 3, Mode: pager.LoadMoreAuto},
		EditStart{Story: &react},
		EditComplete{Items: []story.Story{redux}},
		AddStart{},
		Sort{Field: story.FieldAuthor},
		CloseForm{},
	}
	for _, a := range actions {
		payload, err := EncodePayload(a)
		if err != nil {
			t.Fatalf("EncodePayload(%s) failed: %v", a.Type(), err)
		}
		got, err := ParseAction(string(a.Type()), payload)
		if err != nil {
			t.Fatalf("ParseAction(%s, %s) failed: %v", a.Type(), payload, err)
		}
		if diff := cmp.Diff(a, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", a.Type(), diff)
		}
	}

	if _, err := EncodePayload(nil); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction for nil, got %v", err)
	}
}

func TestDirectionText(t *testing.T) {
	for _, d := range []Direction{Unset, Ascending, Descending} {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Direction
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if back != d {
			t.Errorf("round trip %v -> %q -> %v", d, text, back)
		}
	}
}

func TestSumComments(t *testing.T) {
	s := loaded(react, redux)
	if got := s.SumComments(); got != 5 {
		t.Errorf("SumComments = %d, want 5", got)
	}
}
