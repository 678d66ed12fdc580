// Package counter implements a circular counter and its fixed-width text
// encoding for storage in a single database column.
package counter

import (
	"fmt"
	"math"
)

// Default range used when a counter is built from a single integer.
const (
	DefaultStart    int64 = 0
	DefaultCycleLen int64 = 100
)

// Counter is a value that always stays inside the window [start, start+cycleLen)
// and wraps around on both ends.
//
// Counter is immutable: Increment and Decrement return a new Counter, so a
// Counter can be copied and compared with == freely.
type Counter struct {
	start    int64
	cycleLen int64
	value    int64
}

// New builds a counter, reducing value into [start, start+cycleLen).
// It fails with ErrInvalidRange when cycleLen is not positive or when the
// window does not fit in an int64.
func New(start, cycleLen, value int64) (Counter, error) {
	if cycleLen <= 0 {
		return Counter{}, fmt.Errorf("%w: cycle length must be positive, got %d", ErrInvalidRange, cycleLen)
	}
	if start > math.MaxInt64-cycleLen {
		return Counter{}, fmt.Errorf("%w: window [%d, %d+%d) overflows int64", ErrInvalidRange, start, start, cycleLen)
	}
	return Counter{
		start:    start,
		cycleLen: cycleLen,
		value:    start + offsetOf(value, start, cycleLen),
	}, nil
}

// MustNew is like New but panics on error. Intended for constants and tests.
func MustNew(start, cycleLen, value int64) Counter {
	c, err := New(start, cycleLen, value)
	if err != nil {
		panic(err)
	}
	return c
}

// FromInt builds a counter from a single integer using DefaultRange.
func FromInt(value int64) (Counter, error) {
	return DefaultRange.FromInt(value)
}

// Start returns the lower (inclusive) bound of the window.
func (c Counter) Start() int64 { return c.start }

// CycleLen returns the window length.
func (c Counter) CycleLen() int64 { return c.cycleLen }

// Value returns the current value.
func (c Counter) Value() int64 { return c.value }

// End returns the upper (exclusive) bound of the window.
func (c Counter) End() int64 { return c.start + c.cycleLen }

// Offset returns value - start, always in [0, cycleLen).
func (c Counter) Offset() int64 { return c.value - c.start }

// IsZero reports whether c is the zero Counter, which is not a usable counter.
func (c Counter) IsZero() bool { return c == Counter{} }

// Validate checks the window invariant. Counters built through New always
// pass; the zero value does not.
func (c Counter) Validate() error {
	if c.cycleLen <= 0 {
		return fmt.Errorf("%w: cycle length must be positive, got %d", ErrInvalidRange, c.cycleLen)
	}
	if c.start > math.MaxInt64-c.cycleLen {
		return fmt.Errorf("%w: window overflows int64", ErrInvalidRange)
	}
	if c.value < c.start || c.value >= c.End() {
		return fmt.Errorf("%w: value %d outside [%d, %d)", ErrInvalidRange, c.value, c.start, c.End())
	}
	return nil
}

// Increment moves the counter forward by n steps, wrapping at the end of the
// window. A negative n moves it backwards.
func (c Counter) Increment(n int64) Counter {
	if c.cycleLen <= 0 {
		return c
	}
	step := floorMod(n, c.cycleLen)
	off := c.Offset()
	// off + step may overflow for very large windows; subtract instead.
	if off >= c.cycleLen-step {
		off -= c.cycleLen - step
	} else {
		off += step
	}
	c.value = c.start + off
	return c
}

// Decrement moves the counter backwards by n steps, wrapping at the start of
// the window. A negative n moves it forward.
func (c Counter) Decrement(n int64) Counter {
	if c.cycleLen <= 0 {
		return c
	}
	step := floorMod(n, c.cycleLen)
	off := c.Offset()
	if off >= step {
		off -= step
	} else {
		off += c.cycleLen - step
	}
	c.value = c.start + off
	return c
}

// Next is Increment(1).
func (c Counter) Next() Counter { return c.Increment(1) }

// Prev is Decrement(1).
func (c Counter) Prev() Counter { return c.Decrement(1) }

// Reset returns the counter moved back to the start of its window.
func (c Counter) Reset() Counter {
	c.value = c.start
	return c
}

// Equal reports whether both counters share start, cycle length and value.
func (c Counter) Equal(other Counter) bool {
	return c == other
}

// String renders the canonical "start:cycle_len:value" form.
func (c Counter) String() string {
	return format(c)
}

// Range is the window applied when a bare integer has to become a counter.
type Range struct {
	Start    int64 `json:"start" yaml:"start"`
	CycleLen int64 `json:"cycle_len" yaml:"cycle_len"`
}

// DefaultRange is the range used by FromInt.
var DefaultRange = Range{Start: DefaultStart, CycleLen: DefaultCycleLen}

// Validate checks that the range can hold a counter.
func (r Range) Validate() error {
	_, err := New(r.Start, r.CycleLen, r.Start)
	return err
}

// FromInt builds a counter in r holding value, normalized into the window.
func (r Range) FromInt(value int64) (Counter, error) {
	return New(r.Start, r.CycleLen, value)
}

// floorMod returns a mod m in [0, m) for m > 0, whatever the sign of a.
func floorMod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// offsetOf returns floorMod(value-start, m) without computing value-start,
// which can overflow when the two have opposite signs.
func offsetOf(value, start, m int64) int64 {
	d := floorMod(value, m) - floorMod(start, m)
	if d < 0 {
		d += m
	}
	return d
}
