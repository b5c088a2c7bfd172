package pipeline

import "time"

// Gate restricts full pipeline execution to a weekly cadence.
// The original deployment ran Sundays only; the anchor day is configuration.
type Gate struct {
	anchor time.Weekday
}

// NewGate creates a Gate anchored to the given weekday.
func NewGate(anchor time.Weekday) *Gate {
	return &Gate{anchor: anchor}
}

// ShouldRun reports whether now falls on the anchor day. A false result means
// the run is skipped cleanly, not an error.
func (g *Gate) ShouldRun(now time.Time) bool {
	return now.Weekday() == g.anchor
}
