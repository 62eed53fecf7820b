package socket

import "time"

// backoff doubles the wait between reconnect rounds up to max.
// A zero initial duration never sleeps.
type backoff struct {
	max     time.Duration
	current time.Duration
	sleep   func(time.Duration)
}

func newBackoff(initial, max time.Duration, sleep func(time.Duration)) *backoff {
	if max < initial {
		max = initial
	}
	return &backoff{
		max:     max,
		current: initial,
		sleep:   sleep,
	}
}

// Sleep waits for the current duration and doubles it for the next round.
func (b *backoff) Sleep() {
	if b.current <= 0 {
		return
	}
	b.sleep(b.current)

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
}
