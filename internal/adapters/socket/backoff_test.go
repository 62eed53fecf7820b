package socket

import (
	"testing"
	"time"
)

func TestBackoff_DoublesUpToMax(t *testing.T) {
	var slept []time.Duration
	b := newBackoff(100*time.Millisecond, 350*time.Millisecond, func(d time.Duration) {
		slept = append(slept, d)
	})

	for i := 0; i < 4; i++ {
		b.Sleep()
	}

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 350 * time.Millisecond, 350 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept = %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestBackoff_ZeroNeverSleeps(t *testing.T) {
	calls := 0
	b := newBackoff(0, 0, func(time.Duration) { calls++ })
	b.Sleep()
	b.Sleep()
	if calls != 0 {
		t.Errorf("sleep called %d times, want 0", calls)
	}
}

func TestBackoff_MaxBelowInitial(t *testing.T) {
	var slept []time.Duration
	b := newBackoff(time.Second, 0, func(d time.Duration) { slept = append(slept, d) })
	b.Sleep()
	b.Sleep()
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != time.Second {
		t.Errorf("slept = %v, want [1s 1s]", slept)
	}
}
