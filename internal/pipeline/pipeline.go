package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/roster"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
)

// RunSummary holds the aggregate counters produced by one pipeline execution.
type RunSummary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Skipped    bool // true when the weekly gate declined the run

	TracksFetched   int            // tracks inside the window, before classification
	TracksProcessed int            // tracks classified and routed
	TracksAdded     int            // tracks appended via direct genre routes
	TracksFallback  int            // fallback playlist appends for unrouted genres
	Failures        int            // absorbed per-artist and per-chunk failures
	PerGenre        map[string]int // direct-route add counts by genre label
}

func (s *RunSummary) String() string {
	if s.Skipped {
		return "Run skipped: outside the weekly anchor day"
	}
	return fmt.Sprintf(
		"Tracks fetched: %d, Tracks processed: %d, Tracks added: %d, Tracks added to fallback playlists: %d, Failures: %d",
		s.TracksFetched, s.TracksProcessed, s.TracksAdded, s.TracksFallback, s.Failures,
	)
}

// candidate is a window-qualified track awaiting classification and routing.
type candidate struct {
	trackID    string
	name       string
	artistID   string
	artistName string
}

// genreGroup accumulates routed track ids per genre, preserving fetch order
// so capacity truncation stays deterministic.
type genreGroup struct {
	label      string
	playlistID string
	trackIDs   []string
}

// Engine drives the full ingestion-classification-routing pass.
type Engine struct {
	catalog services.Catalog
	writer  *Writer
	gate    *Gate
	cfg     shared.PipelineConfig
	logger  *log.Logger
	now     func() time.Time

	runMu sync.Mutex // run-in-progress guard
}

// NewEngine creates an Engine with the provided catalog client and pipeline config.
func NewEngine(catalog services.Catalog, cfg shared.PipelineConfig, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		catalog: catalog,
		writer:  NewWriter(catalog, cfg.BatchSize, cfg.CapacityCeiling, logger),
		gate:    NewGate(cfg.Anchor()),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes one pipeline pass over the roster snapshot.
//
// When force is false and the gate declines, the returned summary has Skipped
// set and no catalog calls are made. Credential failures abort the run and
// return the partial summary alongside the error; all other failures are
// absorbed into the summary's counters.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate, snap *roster.Snapshot, force bool) (*RunSummary, error) {
	summary := &RunSummary{
		StartedAt: e.now(),
		PerGenre:  make(map[string]int),
	}

	if !force && !e.gate.ShouldRun(summary.StartedAt) {
		summary.Skipped = true
		summary.FinishedAt = e.now()
		e.logger.Info("weekly gate declined run", "today", summary.StartedAt.Weekday().String())
		e.sendProgress(progress, gateSkippedUpdate(summary.StartedAt.Weekday().String()))
		return summary, nil
	}

	if !e.runMu.TryLock() {
		return nil, shared.ErrRunInProgress
	}
	defer e.runMu.Unlock()

	if timeout := e.cfg.RunTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	classifier := NewClassifier(e.catalog, e.logger)
	seen := make(map[string]bool)

	for i, artistID := range snap.ArtistIDs {
		e.sendProgress(progress, artistUpdate(i+1, len(snap.ArtistIDs), artistID))

		if err := e.processArtist(ctx, progress, artistID, snap, classifier, seen, summary); err != nil {
			summary.FinishedAt = e.now()
			return summary, err
		}
	}

	summary.FinishedAt = e.now()
	e.logger.Info("run complete",
		"fetched", summary.TracksFetched,
		"processed", summary.TracksProcessed,
		"added", summary.TracksAdded,
		"fallback", summary.TracksFallback,
		"failures", summary.Failures,
	)
	e.sendProgress(progress, completeUpdate(summary))
	return summary, nil
}

// processArtist runs the fetch-filter-classify-route-write pass for one
// artist. Catalog failures are absorbed here so one artist cannot abort the
// run; the artist simply contributes zero tracks. Only fatal errors
// (credential failure, context cancellation) propagate.
func (e *Engine) processArtist(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	artistID string,
	snap *roster.Snapshot,
	classifier *Classifier,
	seen map[string]bool,
	summary *RunSummary,
) error {
	ref := e.now()

	candidates, err := e.fetchCandidates(ctx, artistID, ref, seen)
	if err != nil {
		if isFatal(err) {
			return err
		}
		e.logger.Error("artist fetch failed, contributing zero tracks", "artist_id", artistID, "err", err)
		summary.Failures++
		return nil
	}

	summary.TracksFetched += len(candidates)
	if len(candidates) == 0 {
		return nil
	}

	var groups []*genreGroup
	grouped := make(map[string]*genreGroup)
	var unrouted []string

	for i, cand := range candidates {
		e.sendProgress(progress, classifyUpdate(i+1, len(candidates), cand.artistName, cand.name))

		classification, err := classifier.Classify(ctx, cand.artistID)
		if err != nil {
			return err
		}

		summary.TracksProcessed++
		label := classification.Render()

		playlistID, ok := Route(label, snap)
		if !ok {
			unrouted = append(unrouted, cand.trackID)
			continue
		}

		group := grouped[label]
		if group == nil {
			group = &genreGroup{label: label, playlistID: playlistID}
			grouped[label] = group
			groups = append(groups, group)
		}
		group.trackIDs = append(group.trackIDs, cand.trackID)
	}

	for _, group := range groups {
		added, err := e.writer.Append(ctx, group.playlistID, group.trackIDs)
		summary.TracksAdded += added
		summary.PerGenre[group.label] += added
		if err != nil {
			if isFatal(err) {
				return err
			}
			e.logger.Error("playlist append failed", "playlist_id", group.playlistID, "genre", group.label, "err", err)
			summary.Failures++
			continue
		}
		if added > 0 {
			e.sendProgress(progress, appendUpdate(group.playlistID, added))
		}
	}

	for _, fallbackID := range snap.Fallbacks {
		added, err := e.writer.Append(ctx, fallbackID, unrouted)
		summary.TracksFallback += added
		if err != nil {
			if isFatal(err) {
				return err
			}
			e.logger.Error("fallback append failed", "playlist_id", fallbackID, "err", err)
			summary.Failures++
			continue
		}
		if added > 0 {
			e.sendProgress(progress, appendUpdate(fallbackID, added))
		}
	}

	return nil
}

// fetchCandidates pages through an artist's releases, keeps those inside the
// trailing window, and collects their tracks up to the per-artist limit.
// The reference instant is captured once per artist pass.
func (e *Engine) fetchCandidates(ctx context.Context, artistID string, ref time.Time, seen map[string]bool) ([]candidate, error) {
	releases, err := e.catalog.ArtistAlbums(ctx, artistID)
	if err != nil {
		return nil, err
	}

	limit := e.cfg.PerArtistLimit
	if limit <= 0 {
		limit = 15
	}

	var candidates []candidate
	for _, release := range releases {
		if !WithinWindow(release.ReleaseDate, ref, e.cfg.Window()) {
			continue
		}

		tracks, err := e.catalog.AlbumTracks(ctx, release.ID)
		if err != nil {
			return nil, err
		}

		for _, track := range tracks {
			if track.ID == "" || seen[track.ID] {
				continue
			}
			seen[track.ID] = true

			primary := track.PrimaryArtist()
			candidates = append(candidates, candidate{
				trackID:    track.ID,
				name:       track.Name,
				artistID:   primary.ID,
				artistName: primary.Name,
			})

			if len(candidates) >= limit {
				return candidates, nil
			}
		}
	}

	return candidates, nil
}

// isFatal reports whether an error must abort the whole run: credential
// failures and context cancellation. Everything else is absorbed at the
// artist or chunk boundary.
func isFatal(err error) bool {
	var authErr *shared.AuthError
	if errors.As(err, &authErr) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
