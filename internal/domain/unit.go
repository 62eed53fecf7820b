package domain

import "fmt"

// Unit is a transmitter identity known to one or more receivers.
// The rolling counter only moves forward; use Advance to consume values.
type Unit struct {
	id      int
	counter uint64
	paired  bool
}

// NewUnit creates a unit with the given persisted values.
func NewUnit(id int, counter uint64, paired bool) Unit {
	return Unit{id: id, counter: counter, paired: paired}
}

// ID returns the unit identifier.
func (u Unit) ID() int { return u.id }

// Counter returns the value the next frame must carry.
func (u Unit) Counter() uint64 { return u.counter }

// Paired reports whether the unit completed the pairing handshake.
func (u Unit) Paired() bool { return u.paired }

// Advance consumes one counter value after a frame was transmitted.
func (u *Unit) Advance() {
	u.counter++
}

// SetPaired records the outcome of a pairing or unpairing sequence.
// The counter is kept so a later re-pair never reuses transmitted values.
func (u *Unit) SetPaired(paired bool) {
	u.paired = paired
}

// SyncCounter moves the counter forward to at least n.
// Returns ErrCounterRegression if n is lower than the current value.
func (u *Unit) SyncCounter(n uint64) error {
	if n < u.counter {
		return fmt.Errorf("%w: unit %d at %d, got %d", ErrCounterRegression, u.id, u.counter, n)
	}
	u.counter = n
	return nil
}

// String renders the unit for logs.
func (u Unit) String() string {
	return fmt.Sprintf("unit(id=%d counter=%d paired=%t)", u.id, u.counter, u.paired)
}
