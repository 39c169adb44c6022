package countdown

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDeadlineRemaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := NewDeadline(uuid.New(), start, 30*time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"at start", start, 1800},
		{"halfway", start.Add(15 * time.Minute), 900},
		{"one second left", start.Add(30*time.Minute - time.Second), 1},
		{"exactly expired", start.Add(30 * time.Minute), 0},
		{"past expiry", start.Add(45 * time.Minute), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Remaining(tt.now); got != tt.want {
				t.Errorf("Remaining(%v) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestDeadlineExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := NewDeadline(uuid.New(), start, time.Minute)

	if d.Expired(start.Add(59 * time.Second)) {
		t.Error("deadline expired one second early")
	}
	if !d.Expired(start.Add(time.Minute)) {
		t.Error("deadline not expired at its exact instant")
	}
	if !d.Expired(start.Add(2 * time.Minute)) {
		t.Error("deadline not expired after its instant")
	}
}

func TestControllerExpiresExactlyOnce(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := NewDeadline(uuid.New(), start, 3*time.Second)

	var ticks []int
	expires := 0

	c := &Controller{
		deadline: d,
		onTick:   func(remaining int) { ticks = append(ticks, remaining) },
		onExpire: func() { expires++ },
	}

	// Drive the loop manually with a stepped clock.
	now := start
	c.now = func() time.Time { return now }
	for i := 0; i < 6; i++ {
		if c.step() {
			break
		}
		now = now.Add(time.Second)
	}

	wantTicks := []int{3, 2, 1, 0}
	if len(ticks) != len(wantTicks) {
		t.Fatalf("got ticks %v, want %v", ticks, wantTicks)
	}
	for i, want := range wantTicks {
		if ticks[i] != want {
			t.Errorf("tick %d = %d, want %d", i, ticks[i], want)
		}
	}
	if expires != 1 {
		t.Errorf("onExpire called %d times, want 1", expires)
	}
}

func TestControllerCollapsesMissedTicks(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := NewDeadline(uuid.New(), start, 10*time.Second)

	var ticks []int
	expires := 0

	now := start
	c := &Controller{
		deadline: d,
		now:      func() time.Time { return now },
		onTick:   func(remaining int) { ticks = append(ticks, remaining) },
		onExpire: func() { expires++ },
	}

	c.step() // 10
	now = now.Add(7 * time.Second)
	c.step() // 3, not 9: remaining comes from the clock
	now = now.Add(7 * time.Second)
	c.step() // 0

	want := []int{10, 3, 0}
	if len(ticks) != len(want) {
		t.Fatalf("got ticks %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d = %d, want %d", i, ticks[i], want[i])
		}
	}
	if expires != 1 {
		t.Errorf("onExpire called %d times, want 1", expires)
	}
}
