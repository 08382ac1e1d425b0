package session

import "time"

// Debouncer delays a call until input has been quiet for delay. It is owned by one goroutine:
// Schedule and Current must not be called concurrently. The fired callback runs on the timer's
// goroutine and receives a token; only the token of the latest Schedule is Current.
type Debouncer struct {
	delay      time.Duration
	timer      *time.Timer
	generation uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule cancels any pending call and arranges for fire after the delay
func (d *Debouncer) Schedule(fire func(token uint64)) {
	d.Stop()
	token := d.generation
	d.timer = time.AfterFunc(d.delay, func() { fire(token) })
}

// Current reports whether token belongs to the latest Schedule
func (d *Debouncer) Current(token uint64) bool {
	return token == d.generation
}

// Stop cancels the pending call. A callback already running sees a stale token.
func (d *Debouncer) Stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
}
