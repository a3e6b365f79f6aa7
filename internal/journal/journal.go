// Package journal records committed reducer actions as JSON lines.
//
// Each line is an Entry whose type and payload fields are exactly what
// stories.ParseAction reads, so a journal can be fed back through
// `hackerstories replay`. Writes are asynchronous: Record encodes the
// action and hands it to a buffered channel drained by one goroutine.
package journal

// Goroutine safety:
// The drain goroutine is the sole reader of j.ch and the sole writer to j.w.
// Record may be called from any goroutine, including concurrently with Close.

import (
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/abelbrown/hackerstories/internal/logging"
	"github.com/abelbrown/hackerstories/internal/stories"
)

// chanSize is the capacity of the async write channel. FETCH_COMPLETE
// lines carry a page of stories, a few KB each.
const chanSize = 1024

// Entry is one journal line.
type Entry struct {
	Time    time.Time          `json:"t"`
	Session string             `json:"session"`
	Seq     uint64             `json:"seq"`
	Type    stories.ActionType `json:"type"`
	Payload json.RawMessage    `json:"payload,omitempty"`
}

// Journal writes Entries to an io.Writer in the background.
type Journal struct {
	session   string
	ch        chan []byte
	w         io.Writer
	seq       atomic.Uint64
	dropped   atomic.Uint64 // full channel, encode failure or write error
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Journal writing to w and starts its drain goroutine. Call
// Close to flush and stop it.
func New(w io.Writer) *Journal {
	j := &Journal{
		session: uuid.NewString(),
		ch:      make(chan []byte, chanSize),
		w:       w,
		done:    make(chan struct{}),
	}
	go j.drain()
	return j
}

func (j *Journal) drain() {
	defer close(j.done)
	for line := range j.ch {
		if _, err := j.w.Write(line); err != nil {
			j.dropped.Add(1)
		}
	}
}

// Session returns the id stamped on every entry of this journal.
func (j *Journal) Session() string {
	return j.session
}

// Record appends a. It never blocks: when the channel is full or the
// journal is closed the entry is dropped and counted.
func (j *Journal) Record(a stories.Action) {
	// Close may win the race between the flag check and the send.
	defer func() {
		if recover() != nil {
			j.dropped.Add(1)
		}
	}()

	if j.closed.Load() {
		j.dropped.Add(1)
		return
	}

	payload, err := stories.EncodePayload(a)
	if err != nil {
		j.dropped.Add(1)
		return
	}
	line, err := json.Marshal(Entry{
		Time:    time.Now(),
		Session: j.session,
		Seq:     j.seq.Add(1),
		Type:    stories.TypeOf(a),
		Payload: payload,
	})
	if err != nil {
		j.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	select {
	case j.ch <- line:
	default:
		j.dropped.Add(1)
	}
}

// Dropped returns the number of entries lost since creation.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

// Close flushes pending entries and stops the drain goroutine. It does not
// close the underlying writer.
func (j *Journal) Close() {
	j.closeOnce.Do(func() {
		j.closed.Store(true)
		close(j.ch)
		<-j.done

		if d := j.dropped.Load(); d > 0 {
			logging.Warn("journal entries dropped", "count", d, "session", j.session)
		}
	})
}
