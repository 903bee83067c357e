package input

import (
	"time"

	"github.com/tomz197/sshnake/internal/object"
)

// IntentFilter rate-limits heading intents before they reach the engine.
// An intent passes when it turns onto the other axis and the cooldown since
// the last forwarded intent has elapsed.
type IntentFilter struct {
	cooldown time.Duration
	last     time.Time
	sent     bool
}

// NewIntentFilter creates a filter with the given minimum spacing between intents.
func NewIntentFilter(cooldown time.Duration) *IntentFilter {
	return &IntentFilter{cooldown: cooldown}
}

// Allow reports whether h should be forwarded given the snake's current heading.
// Records the forward time when it returns true.
func (f *IntentFilter) Allow(h, current object.Heading, now time.Time) bool {
	if !h.Valid() {
		return false
	}
	if h == current || h.IsReverseOf(current) {
		return false
	}
	if f.sent && now.Sub(f.last) < f.cooldown {
		return false
	}
	f.last = now
	f.sent = true
	return true
}

// Reset forgets the last forwarded intent.
func (f *IntentFilter) Reset() {
	f.sent = false
	f.last = time.Time{}
}
