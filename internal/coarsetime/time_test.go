package coarsetime

import (
	"testing"
	"time"
)

func TestNowTracksRealTime(t *testing.T) {
	got := Now()
	real := time.Now()
	if d := real.Sub(got); d < 0 || d > 2*resolution {
		t.Errorf("coarse time drifted by %v", d)
	}
}

func BenchmarkNow(b *testing.B) {
	var ts time.Time

	b.Run("time", func(b *testing.B) {
		for b.Loop() {
			ts = time.Now()
		}
	})

	b.Run("coarsetime", func(b *testing.B) {
		for b.Loop() {
			ts = Now()
		}
	})

	_ = ts
}
