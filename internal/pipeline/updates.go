package pipeline

import "fmt"

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Run phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Run phase enumeration
type Phase int

const (
	GateCheck Phase = iota
	FetchArtist
	ClassifyTracks
	AppendTracks
	RunComplete
)

func (p Phase) String() string {
	switch p {
	case GateCheck:
		return "gate_check"
	case FetchArtist:
		return "fetch_artist"
	case ClassifyTracks:
		return "classify_tracks"
	case AppendTracks:
		return "append_tracks"
	case RunComplete:
		return "run_complete"
	default:
		return ""
	}
}

func gateSkippedUpdate(day string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GateCheck,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Not the anchor day (today is %s), skipping run", day),
	}
}

func artistUpdate(step, total int, artistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching releases for artist %s...", step, total, artistID),
	}
}

func classifyUpdate(step, total int, artistName, trackName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Classifying: %s - %s", step, total, artistName, trackName),
	}
}

func appendUpdate(playlistID string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d tracks to playlist %s", count, playlistID),
	}
}

func completeUpdate(summary *RunSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunComplete,
		Step:    1,
		Total:   1,
		Message: summary.String(),
		Data:    summary,
	}
}
