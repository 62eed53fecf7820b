package ports

import "time"

// Sleeper blocks the calling sequence for d.
// The wait is not cancellable.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(d time.Duration)

// Sleep calls f(d).
func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// RealSleeper sleeps on the wall clock.
var RealSleeper Sleeper = SleeperFunc(time.Sleep)
