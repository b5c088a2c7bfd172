package pipeline

import "github.com/desertthunder/curator/internal/roster"

// Route maps a genre label to its target playlist id using the run's roster
// snapshot. Pure function of the label and the snapshot: normalization (trim,
// lowercase) happens inside the snapshot lookup. ok is false when the genre
// has no direct route, in which case the caller applies the fallback policy.
func Route(label string, snap *roster.Snapshot) (string, bool) {
	if snap == nil {
		return "", false
	}
	return snap.Route(label)
}
