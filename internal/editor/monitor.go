package editor

import (
	"sync"
	"time"
)

// DefaultDebounce is the change-notification debounce window. Bursts of
// mutations inside one window (e.g. programmatic default population)
// collapse into a single listener pass.
const DefaultDebounce = 500 * time.Millisecond

// Monitor coalesces rapid document mutations into debounced change
// notifications.
//
// Every MarkChanged call increments an in-flight counter and schedules a
// check after the debounce window. When a check fires it notifies
// listeners only if it was the sole check scheduled during its window
// (counter == 1 at fire time), and always decrements the counter. A burst
// of N mutations therefore produces exactly one notification, emitted one
// window after the last mutation.
type Monitor struct {
	delay time.Duration

	mu        sync.Mutex
	pending   int
	listeners []func()
}

// NewMonitor creates a monitor with the given debounce window. A zero or
// negative delay falls back to DefaultDebounce.
func NewMonitor(delay time.Duration) *Monitor {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Monitor{delay: delay}
}

// Subscribe registers a listener invoked after each coalesced change
// burst. Listeners run on the timer goroutine and must not block.
func (m *Monitor) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// MarkChanged records a possibly-dirtying mutation and schedules a
// debounced notification check.
func (m *Monitor) MarkChanged() {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()

	time.AfterFunc(m.delay, m.fire)
}

// fire runs one scheduled check: notify if this was the only check in its
// window, then decrement the counter regardless.
func (m *Monitor) fire() {
	m.mu.Lock()
	notify := m.pending == 1
	m.pending--
	var listeners []func()
	if notify {
		listeners = make([]func(), len(m.listeners))
		copy(listeners, m.listeners)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Pending returns the number of in-flight checks. Intended for tests and
// diagnostics.
func (m *Monitor) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}
