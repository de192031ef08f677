package editor

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestMonitorSingleChange(t *testing.T) {
	m := NewMonitor(20 * time.Millisecond)

	var fired atomic.Int32
	m.Subscribe(func() { fired.Add(1) })

	m.MarkChanged()
	time.Sleep(80 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d after window, want 0", m.Pending())
	}
}

func TestMonitorCoalescesBurst(t *testing.T) {
	m := NewMonitor(30 * time.Millisecond)

	var fired atomic.Int32
	m.Subscribe(func() { fired.Add(1) })

	for i := 0; i < 5; i++ {
		m.MarkChanged()
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("burst of 5 fired %d times, want 1", got)
	}
}

func TestMonitorSeparateBursts(t *testing.T) {
	m := NewMonitor(15 * time.Millisecond)

	var fired atomic.Int32
	m.Subscribe(func() { fired.Add(1) })

	m.MarkChanged()
	time.Sleep(60 * time.Millisecond)
	m.MarkChanged()
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("two separated changes fired %d times, want 2", got)
	}
}

func TestMonitorDefaultDelay(t *testing.T) {
	if m := NewMonitor(0); m.delay != DefaultDebounce {
		t.Errorf("zero delay = %v, want %v", m.delay, DefaultDebounce)
	}
	if m := NewMonitor(-time.Second); m.delay != DefaultDebounce {
		t.Error("negative delay should fall back to the default")
	}
}
