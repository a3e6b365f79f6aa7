// Package coord runs the story list's side effects. A Dispatcher owns the
// state and applies actions one at a time; a Coordinator performs source
// I/O in the background and reports progress and results as actions.
package coord

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/abelbrown/hackerstories/internal/logging"
	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/source"
	"github.com/abelbrown/hackerstories/internal/stories"
	"github.com/abelbrown/hackerstories/internal/story"
)

// Status lines shown while an operation is in flight.
const (
	MsgLoading  = "Loading data..."
	MsgDeleting = "Deleting Story and refreshing"
	MsgAdding   = "Adding Story and refreshing"
	MsgUpdating = "Updating Story and refreshing"
)

// User-facing error messages.
const (
	ErrMsgFetch  = "There was an error fetching the stories"
	ErrMsgDelete = "There was an error deleting the story"
	ErrMsgAdd    = "There was an error adding the Story"
	ErrMsgEdit   = "There was an error updating the Story"
)

// DefaultErrorClearDelay is how long an error message stays on screen.
const DefaultErrorClearDelay = 2 * time.Second

// dispatcher is the part of *Dispatcher the coordinator needs.
type dispatcher interface {
	Dispatch(ctx context.Context, a stories.Action) (stories.State, error)
	State() stories.State
}

// toggler is implemented by sources that can switch backend at runtime.
type toggler interface {
	Toggle() string
}

// Options tunes a Coordinator.
type Options struct {
	ErrorClearDelay time.Duration
}

// Coordinator issues source requests in the background and dispatches the
// resulting actions. Operations are not cancelled by newer ones: a slow
// fetch that finishes last wins, and a scheduled error clear fires even if
// a newer message is showing.
type Coordinator struct {
	d     dispatcher
	src   source.Source
	delay time.Duration
	log   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
	timers map[*time.Timer]struct{}
}

// NewCoordinator creates a Coordinator. Background work stops when ctx is
// cancelled or Close is called.
func NewCoordinator(ctx context.Context, d dispatcher, src source.Source, opts Options) *Coordinator {
	delay := opts.ErrorClearDelay
	if delay <= 0 {
		delay = DefaultErrorClearDelay
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Coordinator{
		d:      d,
		src:    src,
		delay:  delay,
		log:    logging.WithPrefix("coord"),
		ctx:    ctx,
		cancel: cancel,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Wait blocks until every started operation and every scheduled error
// clear has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight operations, stops pending error clears and waits
// for the background goroutines to exit.
func (c *Coordinator) Close() {
	c.cancel()

	c.mu.Lock()
	c.closed = true
	for t := range c.timers {
		if t.Stop() {
			c.wg.Done()
		}
	}
	clear(c.timers)
	c.mu.Unlock()

	c.wg.Wait()
}

// SourceName reports which backend is active.
func (c *Coordinator) SourceName() string {
	return c.src.Name()
}

// ToggleSource switches between live and fake backends when the source
// supports it and returns the active backend's name.
func (c *Coordinator) ToggleSource() string {
	if t, ok := c.src.(toggler); ok {
		name := t.Toggle()
		c.log.Info("source switched", "source", name)
		return name
	}
	return c.src.Name()
}

// Fetch loads one page of results for query. An empty query is ignored.
func (c *Coordinator) Fetch(query string, page int, mode pager.Mode) {
	if query == "" {
		return
	}
	c.goOp("fetch", func(l *log.Logger) {
		l.Debug("fetch started", "query", query, "page", page, "mode", mode)
		c.dispatch(stories.FetchStart{Message: MsgLoading})

		res, err := c.src.FetchPage(c.ctx, query, page)
		if err != nil {
			c.fail(l, err, ErrMsgFetch)
			return
		}

		l.Debug("fetch complete", "items", len(res.Items), "page", res.Page, "pages", res.TotalPages)
		c.dispatch(stories.FetchComplete{
			Data:       res.Items,
			Page:       res.Page,
			TotalPages: res.TotalPages,
			Mode:       mode,
		})
	})
}

// Delete removes the story with the given id.
func (c *Coordinator) Delete(id int) {
	c.goOp("delete", func(l *log.Logger) {
		l.Debug("delete started", "story", id)
		c.dispatch(stories.DeleteStart{Message: MsgDeleting})

		items, err := c.src.Delete(c.ctx, id, c.d.State().Items)
		if err != nil {
			c.fail(l, err, ErrMsgDelete)
			return
		}
		c.dispatch(stories.DeleteComplete{Items: items})
	})
}

// Edit submits the edit form. The form is closed whatever the outcome.
func (c *Coordinator) Edit(s story.Story) {
	c.goOp("edit", func(l *log.Logger) {
		defer c.dispatch(stories.CloseForm{})

		l.Debug("edit started", "story", s.ObjectID)
		c.dispatch(stories.EditProcessing{Message: MsgUpdating})

		items, err := c.src.Edit(c.ctx, s, c.d.State().Items)
		if err != nil {
			c.fail(l, err, ErrMsgEdit)
			return
		}
		c.dispatch(stories.EditComplete{Items: items})
	})
}

// Add submits the add form. The form is closed whatever the outcome.
func (c *Coordinator) Add(s story.Story) {
	c.goOp("add", func(l *log.Logger) {
		defer c.dispatch(stories.CloseForm{})

		l.Debug("add started", "story", s.ObjectID)
		c.dispatch(stories.AddProcessing{Message: MsgAdding})

		items, err := c.src.Add(c.ctx, s, c.d.State().Items)
		if err != nil {
			c.fail(l, err, ErrMsgAdd)
			return
		}
		c.dispatch(stories.AddComplete{Items: items})
	})
}

// StartEdit opens the edit form for the story with the given id. Unknown
// ids are ignored.
func (c *Coordinator) StartEdit(id int) error {
	s, ok := c.d.State().Find(id)
	if !ok {
		return nil
	}
	_, err := c.d.Dispatch(c.ctx, stories.EditStart{Story: &s})
	return err
}

// StartAdd opens the empty add form.
func (c *Coordinator) StartAdd() error {
	_, err := c.d.Dispatch(c.ctx, stories.AddStart{})
	return err
}

// CloseForm cancels the open form.
func (c *Coordinator) CloseForm() error {
	_, err := c.d.Dispatch(c.ctx, stories.CloseForm{})
	return err
}

// Sort advances the sort direction of field.
func (c *Coordinator) Sort(field story.Field) error {
	_, err := c.d.Dispatch(c.ctx, stories.Sort{Field: field})
	return err
}

// goOp runs fn in a tracked goroutine with an operation-scoped logger.
func (c *Coordinator) goOp(name string, fn func(l *log.Logger)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	l := c.log.With("op", name, "id", uuid.NewString(), "source", c.src.Name())
	go func() {
		defer c.wg.Done()
		fn(l)
	}()
}

// fail reports err to the user and schedules the message to be cleared.
func (c *Coordinator) fail(l *log.Logger, err error, msg string) {
	if errors.Is(err, context.Canceled) {
		l.Debug("operation cancelled")
		return
	}
	l.Error("operation failed", "err", err)
	c.dispatch(stories.SetError{Message: msg})
	c.scheduleClear()
}

func (c *Coordinator) scheduleClear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(c.delay, func() {
		defer c.wg.Done()
		c.mu.Lock()
		delete(c.timers, t)
		c.mu.Unlock()
		c.dispatch(stories.ClearError{})
	})
	c.timers[t] = struct{}{}
}

// dispatch applies a. Rejections are already logged by the dispatcher.
func (c *Coordinator) dispatch(a stories.Action) {
	if _, err := c.d.Dispatch(c.ctx, a); err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, context.Canceled) {
		c.log.Debug("dispatch failed", "action", stories.TypeOf(a), "err", err)
	}
}
