// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    RejectEvery:   10, // sample logs: ~every 10th rejected input
//	    SelfHealEvery: 1,  // log every self-heal
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := revtext.New(revtext.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/revtext"
)

// Hooks forwards events to inner on worker goroutines. When the queue is
// full, events are dropped and counted rather than blocking the caller.
type Hooks struct {
	inner   revtext.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ revtext.Hooks = (*Hooks)(nil)

func New(inner revtext.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events fired after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped is the number of events lost to a full queue or a closed hook.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) InputRejected(op string, n int, r string) {
	h.try(func() { h.inner.InputRejected(op, n, r) })
}
func (h *Hooks) AllocationFailed(op string, n int) { h.try(func() { h.inner.AllocationFailed(op, n) }) }
func (h *Hooks) OwnershipViolation(op, r string)   { h.try(func() { h.inner.OwnershipViolation(op, r) }) }
func (h *Hooks) SelfHeal(k, r string)              { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) ProviderSetRejected(k string)      { h.try(func() { h.inner.ProviderSetRejected(k) }) }
