// Package ui provides the Bubble Tea TUI for the story list.
package ui

import "github.com/abelbrown/hackerstories/internal/stories"

// StateChanged is sent by the dispatcher after every committed action.
type StateChanged struct {
	State stories.State
}

// SourceToggled is sent when the backend was switched.
type SourceToggled struct {
	Name string
}

// ActionFailed is sent when a synchronous gesture was rejected.
type ActionFailed struct {
	Err error
}
