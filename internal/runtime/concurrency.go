package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ThreadHandle is the join handle behind a `go` expression's Thread
// value (spec §4.F.4 "Go/Thread"). It mirrors the original's
// std::thread::JoinHandle<Result<Variable, String>> with an errgroup
// driving the single spawned goroutine, since errgroup already gives
// us the "first error wins, Wait blocks until done" semantics the
// original gets from JoinHandle::join.
type ThreadHandle struct {
	group  *errgroup.Group
	result Value
}

// Spawn starts fn on its own goroutine and returns a handle whose Join
// blocks for the result, same as the grounding source's thread::spawn
// + JoinHandle::join pairing in go_expr.
func Spawn(fn func() (Value, error)) *ThreadHandle {
	var g errgroup.Group
	h := &ThreadHandle{group: &g}
	g.Go(func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		h.result = v
		return nil
	})
	return h
}

// Join waits for the task to finish and returns its value, or the error
// it failed with.
func (h *ThreadHandle) Join() (Value, error) {
	if err := h.group.Wait(); err != nil {
		return nil, err
	}
	return h.result, nil
}

// NewThread wraps a handle in a Thread value with a fresh id (spec's
// DOMAIN STACK binds google/uuid here, the way funxy's own request/
// trace ids are minted).
func NewThread(h *ThreadHandle) Thread {
	return Thread{ID: uuid.NewString(), Handle: h}
}

// FnChannel is the per-function fan-in channel set an `in fn_name`
// expression allocates a receiver from, and every call of fn_name
// broadcasts its arguments into (broadcastToChannel). HasSenders is the atomic hint a sending expression checks
// before paying the mutex; it can be stale by the time the mutex is
// taken, which is the exact race the grounding source leaves
// unaddressed (spec §9 "Broadcast race on sender-flag" — see
// DESIGN.md's Open Questions, decision 1: implemented as-is, not
// "fixed").
type FnChannel struct {
	HasSenders atomic.Bool
	mu         sync.Mutex
	senders    []chan Value
}

// NewReceiver registers a fresh receiver channel and flips the sender
// hint, used by the `in` expression attached to a function body.
func (f *FnChannel) NewReceiver() *InChannel {
	ch := make(chan Value, 1)
	f.mu.Lock()
	f.senders = append(f.senders, ch)
	f.mu.Unlock()
	f.HasSenders.Store(true)
	return &InChannel{ch: ch}
}

// Broadcast sends v to every registered receiver, used by
// broadcastToChannel on each call of the function (spec §4.F.4: "broadcast to all senders, swap-remove any that fail,
// clear the flag if the list empties"). A receiver whose buffer is
// still full from a prior unread send is the Go analogue of a
// disconnected receiver in the grounding source, and is swap-removed
// from f.senders rather than stalling the broadcaster; HasSenders is
// cleared once the last one drops.
func (f *FnChannel) Broadcast(v Value) {
	if !f.HasSenders.Load() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := 0
	for i < len(f.senders) {
		select {
		case f.senders[i] <- v:
			i++
		default:
			last := len(f.senders) - 1
			f.senders[i] = f.senders[last]
			f.senders = f.senders[:last]
		}
	}
	if len(f.senders) == 0 {
		f.HasSenders.Store(false)
	}
}

// InChannel is the receiving end an In value wraps.
type InChannel struct {
	ch chan Value
}

// Recv blocks for the next broadcast value.
func (c *InChannel) Recv() Value { return <-c.ch }

// NewIn wraps a freshly allocated receiver in an In value with a uuid,
// the same id scheme Thread uses.
func NewIn(c *InChannel) In {
	return In{ID: uuid.NewString(), Channel: c}
}
