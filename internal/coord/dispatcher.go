package coord

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/abelbrown/hackerstories/internal/logging"
	"github.com/abelbrown/hackerstories/internal/stories"
)

// ErrClosed is returned by Dispatch once the dispatcher loop has stopped.
var ErrClosed = errors.New("dispatcher closed")

// requestBuffer bounds how many dispatches can queue ahead of the loop.
const requestBuffer = 32

type request struct {
	action stories.Action
	reply  chan result
}

// Recorder receives every committed action, on the dispatcher goroutine.
// It must not block.
type Recorder interface {
	Record(a stories.Action)
}

type result struct {
	state stories.State
	err   error
}

// Dispatcher owns the stories.State. Actions are applied one at a time, in
// arrival order, by the goroutine running Run. A state is committed only
// when the reducer accepts the action.
type Dispatcher struct {
	reqs chan request
	done chan struct{}
	log  *log.Logger

	mu     sync.RWMutex
	state    stories.State
	notify   func(stories.State)
	recorder Recorder
}

// NewDispatcher creates a dispatcher holding initial.
func NewDispatcher(initial stories.State) *Dispatcher {
	return &Dispatcher{
		reqs:  make(chan request, requestBuffer),
		done:  make(chan struct{}),
		log:   logging.WithPrefix("dispatch"),
		state: initial,
	}
}

// Subscribe sets the function called with every committed state. It runs on
// the dispatcher goroutine after the caller of Dispatch has been answered,
// so it must not call Dispatch itself.
func (d *Dispatcher) Subscribe(fn func(stories.State)) {
	d.mu.Lock()
	d.notify = fn
	d.mu.Unlock()
}

// Record sets the Recorder that is handed every committed action.
func (d *Dispatcher) Record(r Recorder) {
	d.mu.Lock()
	d.recorder = r
	d.mu.Unlock()
}

// State returns the last committed state. Treat it as read-only.
func (d *Dispatcher) State() stories.State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Run processes actions until ctx is cancelled. It returns nil on
// cancellation so it can sit in an errgroup next to the UI.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-d.reqs:
			d.apply(req)
		}
	}
}

func (d *Dispatcher) apply(req request) {
	d.mu.RLock()
	cur := d.state
	d.mu.RUnlock()

	next, err := stories.Reduce(cur, req.action)
	if err != nil {
		d.log.Error("action rejected", "action", stories.TypeOf(req.action), "err", err)
		req.reply <- result{state: cur, err: err}
		return
	}

	d.mu.Lock()
	d.state = next
	notify, recorder := d.notify, d.recorder
	d.mu.Unlock()

	if recorder != nil {
		recorder.Record(req.action)
	}
	req.reply <- result{state: next}
	if notify != nil {
		notify(next)
	}
}

// Dispatch submits a and waits for the reducer's verdict. It returns the
// committed state, or the unchanged state and the reducer error.
func (d *Dispatcher) Dispatch(ctx context.Context, a stories.Action) (stories.State, error) {
	reply := make(chan result, 1)

	select {
	case <-d.done:
		return stories.State{}, ErrClosed
	default:
	}

	select {
	case d.reqs <- request{action: a, reply: reply}:
	case <-d.done:
		return stories.State{}, ErrClosed
	case <-ctx.Done():
		return stories.State{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.state, r.err
	case <-d.done:
		// The loop may have answered just before stopping.
		select {
		case r := <-reply:
			return r.state, r.err
		default:
			return stories.State{}, ErrClosed
		}
	case <-ctx.Done():
		return stories.State{}, ctx.Err()
	}
}
