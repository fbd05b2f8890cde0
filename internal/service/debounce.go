package service

import (
	"sync"
	"time"
)

// Debouncer coalesces repeated triggers per key into one callback invocation
// after a quiet delay. Re-triggering a key cancels and reschedules its timer,
// so a burst of triggers fires the callback once.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	fn     func(key string)
}

func NewDebouncer(delay time.Duration, fn func(key string)) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		fn:     fn,
	}
}

func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		d.fn(key)
	})
}

// Flush runs the callback for a pending key immediately. No-op if nothing is
// scheduled for the key.
func (d *Debouncer) Flush(key string) {
	d.mu.Lock()
	t, ok := d.timers[key]
	if ok {
		t.Stop()
		delete(d.timers, key)
	}
	d.mu.Unlock()

	if ok {
		d.fn(key)
	}
}
