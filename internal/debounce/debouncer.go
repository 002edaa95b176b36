// Package debounce collapses rapid edits of a text field into settled search terms.
//
// A value settles once the quiet period has elapsed with no newer input. A settled
// value equal to the previously emitted one is suppressed. Blank values are emitted
// like any other value; deciding what a blank term means is left to the consumer.
package debounce

import (
	"context"
	"time"

	"photogrid/internal/domain"
)

// DefaultQuiet is the quiet period used when none is configured
const DefaultQuiet = time.Second

// Ticket identifies one input. Only the newest ticket can settle.
type Ticket uint64

// Debouncer is the debounce state for a single subscription.
// It is not safe for concurrent use; the consumer loop owns it.
type Debouncer struct {
	quiet   time.Duration
	ticket  Ticket
	pending string
	last    string
	emitted bool
}

// New creates a debouncer with the given quiet period
func New(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet}
}

// Quiet returns the quiet period
func (d *Debouncer) Quiet() time.Duration {
	return d.quiet
}

// Push records a raw field value and returns the ticket the caller must
// present to Settle once the quiet period has elapsed.
func (d *Debouncer) Push(raw string) Ticket {
	d.ticket++
	d.pending = domain.NormalizeTerm(raw)
	return d.ticket
}

// Settle reports the settled term for t. It returns false when newer input
// arrived after t or when the term equals the last emitted one.
func (d *Debouncer) Settle(t Ticket) (string, bool) {
	if t != d.ticket {
		return "", false
	}
	if d.emitted && d.pending == d.last {
		return "", false
	}
	d.last = d.pending
	d.emitted = true
	return d.last, true
}

// Pending reports whether the newest input has not been settled yet
func (d *Debouncer) Pending() bool {
	return d.ticket != 0 && (!d.emitted || d.pending != d.last)
}

// Reset forgets the last emission so the next settled value is always emitted
func (d *Debouncer) Reset() {
	d.emitted = false
	d.last = ""
}

// Stream debounces values received on in. Each call starts a fresh subscription.
// The returned channel closes when ctx is done or in is closed; a value still
// waiting for its quiet period when in closes is flushed first.
func Stream(ctx context.Context, quiet time.Duration, in <-chan string) <-chan string {
	out := make(chan string)
	d := New(quiet)

	go func() {
		defer close(out)

		timer := time.NewTimer(d.Quiet())
		timer.Stop()
		defer timer.Stop()

		var (
			ticket Ticket
			armed  bool
		)

		emit := func(t Ticket) bool {
			term, ok := d.Settle(t)
			if !ok {
				return true
			}
			select {
			case out <- term:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			var fire <-chan time.Time
			if armed {
				fire = timer.C
			}

			select {
			case <-ctx.Done():
				return

			case raw, ok := <-in:
				if !ok {
					if armed {
						emit(ticket)
					}
					return
				}
				ticket = d.Push(raw)
				timer.Reset(d.Quiet())
				armed = true

			case <-fire:
				armed = false
				if !emit(ticket) {
					return
				}
			}
		}
	}()

	return out
}
