package source

import (
	"context"
	"sync/atomic"

	"github.com/abelbrown/hackerstories/internal/story"
)

// Switch delegates to either a live or a fake source and can flip between
// them at runtime. Safe for concurrent use.
type Switch struct {
	live    Source
	fake    Source
	useFake atomic.Bool
}

// NewSwitch creates a Switch starting on fake when useFake is set.
func NewSwitch(live, fake Source, useFake bool) *Switch {
	s := &Switch{live: live, fake: fake}
	s.useFake.Store(useFake)
	return s
}

// Toggle flips between the sources and returns the name of the new one.
func (s *Switch) Toggle() string {
	for {
		old := s.useFake.Load()
		if s.useFake.CompareAndSwap(old, !old) {
			break
		}
	}
	return s.Name()
}

func (s *Switch) current() Source {
	if s.useFake.Load() {
		return s.fake
	}
	return s.live
}

// Name implements Source.
func (s *Switch) Name() string { return s.current().Name() }

// FetchPage implements Source.
func (s *Switch) FetchPage(ctx context.Context, query string, page int) (Page, error) {
	return s.current().FetchPage(ctx, query, page)
}

// Delete implements Source.
func (s *Switch) Delete(ctx context.Context, id int, current []story.Story) ([]story.Story, error) {
	return s.current().Delete(ctx, id, current)
}

// Edit implements Source.
func (s *Switch) Edit(ctx context.Context, st story.Story, current []story.Story) ([]story.Story, error) {
	return s.current().Edit(ctx, st, current)
}

// Add implements Source.
func (s *Switch) Add(ctx context.Context, st story.Story, current []story.Story) ([]story.Story, error) {
	return s.current().Add(ctx, st, current)
}
