package stories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/story"
)

var (
	// ErrInvalidAction means an action carried a payload the reducer cannot
	// apply (no story to edit, unknown sort field). Caller bug; do not retry.
	ErrInvalidAction = errors.New("invalid action")
	// ErrUnknownAction means the action type is not part of the vocabulary.
	ErrUnknownAction = errors.New("unknown action")
)

// ActionType is the canonical name of an action.
type ActionType string

const (
	TypeFetchStart     ActionType = "FETCH_START"
	TypeFetchComplete  ActionType = "FETCH_COMPLETE"
	TypeDeleteStart    ActionType = "DELETE_START"
	TypeDeleteComplete ActionType = "DELETE_COMPLETE"
	TypeEditStart      ActionType = "EDIT_START"
	TypeEditProcessing ActionType = "EDIT_PROCESSING"
	TypeEditComplete   ActionType = "EDIT_COMPLETE"
	TypeAddStart       ActionType = "ADD_START"
	TypeAddProcessing  ActionType = "ADD_PROCESSING"
	TypeAddComplete    ActionType = "ADD_COMPLETE"
	TypeSetError       ActionType = "SET_ERROR"
	TypeClearError     ActionType = "CLEAR_ERROR"
	TypeCloseForm      ActionType = "CLOSE_FORM"
	TypeSort           ActionType = "SORT"
)

// Action is one entry of the reducer's vocabulary. Each action kind is its
// own type carrying exactly the payload it needs. The interface is sealed:
// only this package declares actions.
type Action interface {
	Type() ActionType
	action()
}

// FetchStart marks a fetch as in flight.
type FetchStart struct{ Message string }

// FetchComplete delivers one page of fetched stories.
type FetchComplete struct {
	Data       []story.Story
	Page       int
	TotalPages int
	Mode       pager.Mode
}

// DeleteStart marks a delete as in flight.
type DeleteStart struct{ Message string }

// DeleteComplete carries the collection left after a delete.
type DeleteComplete struct{ Items []story.Story }

// EditStart opens the form on Story. A nil Story is invalid.
type EditStart struct{ Story *story.Story }

// EditProcessing marks an edit as in flight.
type EditProcessing struct{ Message string }

// EditComplete carries the collection after an edit.
type EditComplete struct{ Items []story.Story }

// AddStart opens an empty form.
type AddStart struct{}

// AddProcessing marks an add as in flight.
type AddProcessing struct{ Message string }

// AddComplete carries the collection after an add.
type AddComplete struct{ Items []story.Story }

// SetError shows an error message.
type SetError struct{ Message string }

// ClearError clears the status message.
type ClearError struct{}

// CloseForm hides the form.
type CloseForm struct{}

// Sort toggles the sort direction of Field.
type Sort struct{ Field story.Field }

func (FetchStart) Type() ActionType     { return TypeFetchStart }
func (FetchComplete) Type() ActionType  { return TypeFetchComplete }
func (DeleteStart) Type() ActionType    { return TypeDeleteStart }
func (DeleteComplete) Type() ActionType { return TypeDeleteComplete }
func (EditStart) Type() ActionType      { return TypeEditStart }
func (EditProcessing) Type() ActionType { return TypeEditProcessing }
func (EditComplete) Type() ActionType   { return TypeEditComplete }
func (AddStart) Type() ActionType       { return TypeAddStart }
func (AddProcessing) Type() ActionType  { return TypeAddProcessing }
func (AddComplete) Type() ActionType    { return TypeAddComplete }
func (SetError) Type() ActionType       { return TypeSetError }
func (ClearError) Type() ActionType     { return TypeClearError }
func (CloseForm) Type() ActionType      { return TypeCloseForm }
func (Sort) Type() ActionType           { return TypeSort }

func (FetchStart) action()     {}
func (FetchComplete) action()  {}
func (DeleteStart) action()    {}
func (DeleteComplete) action() {}
func (EditStart) action()      {}
func (EditProcessing) action() {}
func (EditComplete) action()   {}
func (AddStart) action()       {}
func (AddProcessing) action()  {}
func (AddComplete) action()    {}
func (SetError) action()       {}
func (ClearError) action()     {}
func (CloseForm) action()      {}
func (Sort) action()           {}

// TypeOf returns the action's type name, tolerating nil.
func TypeOf(a Action) ActionType {
	if a == nil {
		return "<nil>"
	}
	return a.Type()
}

// fetchPayload is the wire shape of a FETCH_COMPLETE payload.
type fetchPayload struct {
	Data       []story.Story `json:"data"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	PagerMode  string        `json:"pagerMode"`
}

// ParseAction decodes an action from its type name and JSON payload. An
// unknown name yields ErrUnknownAction; a payload of the wrong shape yields
// ErrInvalidAction. A missing EDIT_START story decodes to EditStart{nil},
// which Reduce rejects.
func ParseAction(name string, payload json.RawMessage) (Action, error) {
	switch t := ActionType(name); t {
	case TypeFetchStart, TypeDeleteStart, TypeEditProcessing, TypeAddProcessing, TypeSetError:
		var msg string
		if err := decodePayload(t, payload, &msg); err != nil {
			return nil, err
		}
		switch t {
		case TypeFetchStart:
			return FetchStart{Message: msg}, nil
		case TypeDeleteStart:
			return DeleteStart{Message: msg}, nil
		case TypeEditProcessing:
			return EditProcessing{Message: msg}, nil
		case TypeAddProcessing:
			return AddProcessing{Message: msg}, nil
		}
		return SetError{Message: msg}, nil

	case TypeDeleteComplete, TypeEditComplete, TypeAddComplete:
		var items []story.Story
		if err := decodePayload(t, payload, &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []story.Story{}
		}
		switch t {
		case TypeDeleteComplete:
			return DeleteComplete{Items: items}, nil
		case TypeEditComplete:
			return EditComplete{Items: items}, nil
		}
		return AddComplete{Items: items}, nil

	case TypeFetchComplete:
		var p fetchPayload
		if err := decodePayload(t, payload, &p); err != nil {
			return nil, err
		}
		mode, err := pager.ParseMode(p.PagerMode)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAction, t, err)
		}
		return FetchComplete{Data: p.Data, Page: p.Page, TotalPages: p.TotalPages, Mode: mode}, nil

	case TypeEditStart:
		var s *story.Story
		if err := decodePayload(t, payload, &s); err != nil {
			return nil, err
		}
		return EditStart{Story: s}, nil

	case TypeSort:
		var field string
		if err := decodePayload(t, payload, &field); err != nil {
			return nil, err
		}
		return Sort{Field: story.Field(field)}, nil

	case TypeAddStart:
		return AddStart{}, nil
	case TypeClearError:
		return ClearError{}, nil
	case TypeCloseForm:
		return CloseForm{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
}

func decodePayload(t ActionType, payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrInvalidAction, t, err)
	}
	return nil
}

// EncodePayload returns the JSON payload of a in the shape ParseAction
// accepts. Actions without a payload encode to nil.
func EncodePayload(a Action) (json.RawMessage, error) {
	var v any
	switch a := a.(type) {
	case FetchStart:
		v = a.Message
	case DeleteStart:
		v = a.Message
	case EditProcessing:
		v = a.Message
	case AddProcessing:
		v = a.Message
	case SetError:
		v = a.Message
	case DeleteComplete:
		v = a.Items
	case EditComplete:
		v = a.Items
	case AddComplete:
		v = a.Items
	case FetchComplete:
		v = fetchPayload{Data: a.Data, Page: a.Page, TotalPages: a.TotalPages, PagerMode: string(a.Mode)}
	case EditStart:
		v = a.Story
	case Sort:
		v = string(a.Field)
	case AddStart, ClearError, CloseForm:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, TypeOf(a))
	}
	return json.Marshal(v)
}
