package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AllChannels addresses every channel of a unit.
const AllChannels = 15

// DefaultUnit is used when an address carries no unit part.
const DefaultUnit = 1

// Address identifies a receiver channel on a transmitter unit.
// A Unit value of zero or less addresses every known unit.
type Address struct {
	Unit    int
	Channel int
}

// ParseAddress parses "<unit>:<channel>" or "<channel>".
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	unitPart, chPart, hasUnit := strings.Cut(s, ":")
	if !hasUnit {
		chPart = unitPart
	}

	ch, err := strconv.Atoi(strings.TrimSpace(chPart))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidChannel, s)
	}

	addr := Address{Unit: DefaultUnit, Channel: ch}
	if hasUnit {
		un, err := strconv.Atoi(strings.TrimSpace(unitPart))
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidChannel, s)
		}
		addr.Unit = un
	}

	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Validate checks that the channel is 1-7 or 15.
func (a Address) Validate() error {
	if (a.Channel >= 1 && a.Channel <= 7) || a.Channel == AllChannels {
		return nil
	}
	return fmt.Errorf("%w: got %d", ErrInvalidChannel, a.Channel)
}

// Broadcast reports whether the address targets every known unit.
func (a Address) Broadcast() bool {
	return a.Unit <= 0
}

// String returns the canonical "<unit>:<channel>" form.
func (a Address) String() string {
	return fmt.Sprintf("%d:%d", a.Unit, a.Channel)
}
