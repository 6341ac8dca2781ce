package button

// Ticks is the shared millisecond time base every window is measured
// against. It is unsigned on purpose: elapsed times are computed with
// wrapping subtraction, so a single wraparound of the counter does not
// disturb a running comparison.
type Ticks uint32

// TickSource supplies the current tick count. It must be monotonically
// increasing except for the defined wraparound at the top of the type's
// range. A source is registered once per button at construction and read
// on every Process call.
type TickSource interface {
	Now() Ticks
}

// TickFunc adapts a zero-argument function to a TickSource.
type TickFunc func() Ticks

// Now returns f().
func (f TickFunc) Now() Ticks { return f() }

// Counter is a tick variable incremented externally (typically from a
// periodic timer). Its address satisfies TickSource.
type Counter Ticks

// Now returns the current value of the counter.
func (c *Counter) Now() Ticks { return Ticks(*c) }

// Add advances the counter by d milliseconds, wrapping at the top of
// the range.
func (c *Counter) Add(d Ticks) { *c += Counter(d) }

// Set overwrites the counter value.
func (c *Counter) Set(v Ticks) { *c = Counter(v) }

// elapsed returns the milliseconds from since to now. The subtraction
// wraps, so the result is valid for any span up to one full range of
// the tick type.
func elapsed(now, since Ticks) Ticks { return now - since }
