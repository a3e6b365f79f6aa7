// Package source provides the data sources the coordinator talks to: the
// live Hacker News search API and an in-memory simulation of it.
//
// Mutations (delete, edit, add) take the caller's current collection and
// return a new one. The given slice is treated as read-only.
package source

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/abelbrown/hackerstories/internal/story"
)

var (
	// ErrNotFound is returned when a delete or edit targets an id that is
	// not in the collection.
	ErrNotFound = errors.New("story not found")
	// ErrDuplicate is returned when an add reuses an existing id.
	ErrDuplicate = errors.New("story already present")
)

// FetchError reports a failed page fetch: either a non-200 status or a
// transport/decode error.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch stories: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("fetch stories: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Page is one page of search results.
type Page struct {
	Items      []story.Story
	Page       int // 0-based
	TotalPages int
}

// Source is the data-source contract used by the coordinator.
type Source interface {
	// Name identifies the source in logs and the UI.
	Name() string
	FetchPage(ctx context.Context, query string, page int) (Page, error)
	Delete(ctx context.Context, id int, current []story.Story) ([]story.Story, error)
	Edit(ctx context.Context, s story.Story, current []story.Story) ([]story.Story, error)
	Add(ctx context.Context, s story.Story, current []story.Story) ([]story.Story, error)
}

// remove returns current without the story whose id matches.
func remove(id int, current []story.Story) ([]story.Story, error) {
	if story.IndexOf(current, id) < 0 {
		return nil, fmt.Errorf("%w: could not delete story with id %d", ErrNotFound, id)
	}
	out := make([]story.Story, 0, len(current))
	for _, s := range current {
		if s.ObjectID != id {
			out = append(out, s)
		}
	}
	return out, nil
}

// replace returns current with the story sharing s's id swapped for s.
func replace(s story.Story, current []story.Story) ([]story.Story, error) {
	i := story.IndexOf(current, s.ObjectID)
	if i < 0 {
		return nil, fmt.Errorf("%w: could not update story with id %d", ErrNotFound, s.ObjectID)
	}
	out := slices.Clone(current)
	out[i] = s
	return out, nil
}

// appendNew returns current with s appended.
func appendNew(s story.Story, current []story.Story) ([]story.Story, error) {
	if story.IndexOf(current, s.ObjectID) >= 0 {
		return nil, fmt.Errorf("%w: story with id %d is already in the collection", ErrDuplicate, s.ObjectID)
	}
	out := make([]story.Story, 0, len(current)+1)
	out = append(out, current...)
	return append(out, s), nil
}
