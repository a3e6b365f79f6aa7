package source

import (
	"context"
	"slices"
	"time"

	"github.com/abelbrown/hackerstories/internal/story"
)

// Default latencies of the simulated source.
const (
	DefaultFetchDelay  = 1200 * time.Millisecond
	DefaultMutateDelay = 1000 * time.Millisecond
)

// SeedStories is what the fake source returns for every query.
var SeedStories = []story.Story{
	{
		ObjectID:    0,
		Title:       "React",
		URL:         "http://reactjs.org/",
		Author:      "Jordan Walke",
		NumComments: 3,
		Points:      4,
	},
	{
		ObjectID:    1,
		Title:       "Redux",
		URL:         "https://redux.js.org/",
		Author:      "Dan Abramov, Andrew Clark",
		NumComments: 2,
		Points:      5,
	},
}

// Fake simulates the backend with fixed seed data and artificial latency.
// It keeps no state of its own: every mutation works on the caller's
// collection.
type Fake struct {
	fetchDelay  time.Duration
	mutateDelay time.Duration
}

// NewFake creates a simulated source. Zero delays make it respond at once.
func NewFake(fetchDelay, mutateDelay time.Duration) *Fake {
	return &Fake{fetchDelay: fetchDelay, mutateDelay: mutateDelay}
}

// Name implements Source.
func (f *Fake) Name() string { return "fake" }

// FetchPage implements Source. The query and page are ignored.
func (f *Fake) FetchPage(ctx context.Context, query string, page int) (Page, error) {
	if err := sleep(ctx, f.fetchDelay); err != nil {
		return Page{}, &FetchError{Err: err}
	}
	return Page{Items: slices.Clone(SeedStories), Page: 0, TotalPages: 1}, nil
}

// Delete implements Source.
func (f *Fake) Delete(ctx context.Context, id int, current []story.Story) ([]story.Story, error) {
	if err := sleep(ctx, f.mutateDelay); err != nil {
		return nil, err
	}
	return remove(id, current)
}

// Edit implements Source.
func (f *Fake) Edit(ctx context.Context, s story.Story, current []story.Story) ([]story.Story, error) {
	if err := sleep(ctx, f.mutateDelay); err != nil {
		return nil, err
	}
	return replace(s, current)
}

// Add implements Source.
func (f *Fake) Add(ctx context.Context, s story.Story, current []story.Story) ([]story.Story, error) {
	if err := sleep(ctx, f.mutateDelay); err != nil {
		return nil, err
	}
	return appendNew(s, current)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
