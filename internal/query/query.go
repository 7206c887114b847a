// Package query implements the async request state machines behind the
// dashboard panels. A Query issues calls when its key or enabled flag says
// so (optionally on an interval); a Mutation fires once per explicit user
// trigger. Both hold a tagged lifecycle state and apply settled results via
// messages on the Bubble Tea update loop, so no field is ever touched from
// more than one goroutine.
package query

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Status is the lifecycle tag of a request.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

// State is the tagged request state. Exactly one tag holds at a time: Data
// is meaningful only for StatusSuccess, Reason only for StatusFailure.
type State[T any] struct {
	Status Status
	Data   T
	Reason string
}

// ResultMsg carries a settled call's outcome back into the update loop.
// Seq and ID identify the issuing call so stale or misrouted results are
// discarded by Apply.
type ResultMsg[T any] struct {
	ID   int64
	Seq  uint64
	Key  string
	Data T
	Err  error
}

// TickMsg drives interval refresh for one query instance.
type TickMsg struct {
	ID int64
}

var nextID atomic.Int64

// ---------------------------------------------------------------------------
// Query
// ---------------------------------------------------------------------------

// FetchFunc loads the payload for a request key.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Query is an auto-running request state machine: it issues a call when its
// enabled flag turns on or its key changes, optionally re-issues on an
// interval, and suppresses results that settle after the key moved on. At
// most one call is in flight per instance.
type Query[T any] struct {
	id       int64
	fetch    FetchFunc[T]
	interval time.Duration

	key     string
	enabled bool
	seq     uint64
	state   State[T]
}

// New creates a query. A zero interval disables periodic refresh.
func New[T any](interval time.Duration, fetch FetchFunc[T]) *Query[T] {
	return &Query[T]{
		id:       nextID.Add(1),
		fetch:    fetch,
		interval: interval,
	}
}

// State returns the current lifecycle state.
func (q *Query[T]) State() State[T] { return q.state }

// Key returns the currently configured request key.
func (q *Query[T]) Key() string { return q.key }

// Pending reports whether a call is in flight.
func (q *Query[T]) Pending() bool { return q.state.Status == StatusPending }

// Configure declares what to fetch and whether to fetch it now. A call is
// issued when enabled transitions false to true, or when the key changes
// while enabled. Re-declaring an unchanged key never starts a second call.
// The returned command is nil when nothing was issued.
func (q *Query[T]) Configure(key string, enabled bool) tea.Cmd {
	wasEnabled := q.enabled
	keyChanged := key != q.key
	q.key = key
	q.enabled = enabled

	if !enabled {
		return nil
	}
	if !wasEnabled || keyChanged {
		return q.issue()
	}
	return nil
}

// Refetch forces a new call outside the interval schedule. While a call is
// in flight the request coalesces into that call's completion and no new
// call is started.
func (q *Query[T]) Refetch() tea.Cmd {
	if !q.enabled || q.Pending() {
		return nil
	}
	return q.issue()
}

// StartTicker returns the command scheduling the first interval tick, or
// nil when the query has no interval. Call once after the first Configure.
func (q *Query[T]) StartTicker() tea.Cmd {
	if q.interval <= 0 {
		return nil
	}
	return q.tick()
}

// OnTick handles an interval tick: it re-issues the call when the query is
// enabled and idle, and schedules the next tick. Ticks for other query
// instances return nil. An in-flight call is never duplicated by the timer.
func (q *Query[T]) OnTick(msg TickMsg) tea.Cmd {
	if q.interval <= 0 || msg.ID != q.id {
		return nil
	}
	cmds := []tea.Cmd{q.tick()}
	if q.enabled && !q.Pending() {
		cmds = append(cmds, q.issue())
	}
	return tea.Batch(cmds...)
}

// Apply stores a settled result. The result is discarded, and false
// returned, when it does not belong to this instance or when a newer call
// has been issued since (stale-response suppression).
func (q *Query[T]) Apply(msg ResultMsg[T]) bool {
	if msg.ID != q.id || msg.Seq != q.seq {
		return false
	}
	if msg.Err != nil {
		q.state = State[T]{Status: StatusFailure, Reason: msg.Err.Error()}
	} else {
		q.state = State[T]{Status: StatusSuccess, Data: msg.Data}
	}
	return true
}

// issue starts one call. Bumping the sequence number first invalidates any
// call still in flight for a previous key.
func (q *Query[T]) issue() tea.Cmd {
	q.seq++
	var zero T
	q.state = State[T]{Status: StatusPending, Data: zero}

	id, seq, key, fetch := q.id, q.seq, q.key, q.fetch
	return func() tea.Msg {
		data, err := fetch(context.Background(), key)
		return ResultMsg[T]{ID: id, Seq: seq, Key: key, Data: data, Err: err}
	}
}

func (q *Query[T]) tick() tea.Cmd {
	id := q.id
	return tea.Tick(q.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id}
	})
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// RunFunc executes the side-effecting call for a mutation input.
type RunFunc[In, T any] func(ctx context.Context, input In) (T, error)

// Mutation is a user-triggered request state machine. A trigger while a
// call is in flight is ignored; a settled result is stored unconditionally
// since the triggering input cannot change mid-flight.
type Mutation[In, T any] struct {
	id    int64
	run   RunFunc[In, T]
	seq   uint64
	state State[T]
}

// NewMutation creates a mutation around the given call.
func NewMutation[In, T any](run RunFunc[In, T]) *Mutation[In, T] {
	return &Mutation[In, T]{
		id:  nextID.Add(1),
		run: run,
	}
}

// State returns the current lifecycle state.
func (m *Mutation[In, T]) State() State[T] { return m.state }

// Pending reports whether a call is in flight.
func (m *Mutation[In, T]) Pending() bool { return m.state.Status == StatusPending }

// Trigger issues exactly one call for the input. Returns nil while a
// previous call is still in flight.
func (m *Mutation[In, T]) Trigger(input In) tea.Cmd {
	if m.Pending() {
		return nil
	}
	m.seq++
	m.state = State[T]{Status: StatusPending}

	id, seq, run := m.id, m.seq, m.run
	return func() tea.Msg {
		data, err := run(context.Background(), input)
		return ResultMsg[T]{ID: id, Seq: seq, Data: data, Err: err}
	}
}

// Apply stores a settled result. Results from other instances are ignored.
func (m *Mutation[In, T]) Apply(msg ResultMsg[T]) bool {
	if msg.ID != m.id || msg.Seq != m.seq {
		return false
	}
	if msg.Err != nil {
		m.state = State[T]{Status: StatusFailure, Reason: msg.Err.Error()}
	} else {
		m.state = State[T]{Status: StatusSuccess, Data: msg.Data}
	}
	return true
}
