package pipeline

import "time"

// Release date formats the provider emits, by precision. Day precision is the
// common case; month and year precision appear on older catalog entries.
var releaseDateFormats = []string{"2006-01-02", "2006-01", "2006"}

// ParseReleaseDate parses a provider release date string. ok is false for
// missing or unparsable dates.
func ParseReleaseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range releaseDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WithinWindow reports whether a release date falls inside the trailing
// window ending at ref. The lower bound is inclusive: a release exactly
// window old still qualifies. Unparsable or missing dates never qualify.
//
// ref is captured once per artist pass so a batch sees a consistent window.
func WithinWindow(releaseDate string, ref time.Time, window time.Duration) bool {
	date, ok := ParseReleaseDate(releaseDate)
	if !ok {
		return false
	}
	return !date.Before(ref.Add(-window))
}
