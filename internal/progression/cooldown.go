package progression

import (
	"fmt"
	"time"
)

const DefaultCooldown = 24 * time.Hour

type Remaining struct {
	Total   time.Duration `json:"-"`
	Hours   int           `json:"hours"`
	Minutes int           `json:"minutes"`
	Seconds int           `json:"seconds"`
}

func (r Remaining) String() string {
	return fmt.Sprintf("%dh %dm %ds", r.Hours, r.Minutes, r.Seconds)
}

// RemainingUntil reports how long a gate stays locked. ok is false when the
// deadline is absent or already reached.
func RemainingUntil(deadline *time.Time, now time.Time) (Remaining, bool) {
	if deadline == nil || !now.Before(*deadline) {
		return Remaining{}, false
	}
	diff := deadline.Sub(now)
	return Remaining{
		Total:   diff,
		Hours:   int(diff / time.Hour),
		Minutes: int(diff % time.Hour / time.Minute),
		Seconds: int(diff % time.Minute / time.Second),
	}, true
}

// IsOpen reports whether an action gated by deadline is permitted at now.
func IsOpen(deadline *time.Time, now time.Time) bool {
	_, locked := RemainingUntil(deadline, now)
	return !locked
}

// Lock stamps the next deadline for a gate.
func Lock(now time.Time, cooldown time.Duration) *time.Time {
	deadline := now.Add(cooldown)
	return &deadline
}
