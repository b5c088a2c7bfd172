package main

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/desertthunder/curator/internal/pipeline"
	"github.com/desertthunder/curator/internal/roster"
	"github.com/desertthunder/curator/internal/shared"
	"github.com/urfave/cli/v3"
)

// Run executes the ingestion pipeline once: snapshot the roster, walk the
// tracked artists, and print the run summary. Skipped runs (weekly gate) exit
// cleanly; only credential failures are fatal.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	force := cmd.Bool("force")
	asJSON := cmd.Bool("json")
	quiet := cmd.Bool("quiet")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := roster.LoadSnapshot(db)
	if err != nil {
		return err
	}

	if len(snap.ArtistIDs) == 0 {
		r.logger.Info("no tracked artists in roster, nothing to do")
		r.writePlain("Roster has no tracked artists. Add some with 'curator roster artist add'.\n")
		return nil
	}

	catalog, err := r.buildCatalog()
	if err != nil {
		return err
	}

	engine := pipeline.NewEngine(catalog, r.config.Pipeline, r.logger)

	progressCh := make(chan pipeline.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if quiet {
				continue
			}
			switch update.Phase {
			case pipeline.GateCheck:
				r.writePlain("⏭  %s\n", update.Message)
			case pipeline.FetchArtist:
				r.writePlain("📥 %s\n", update.Message)
			case pipeline.ClassifyTracks:
				r.writePlain("   %s\n", update.Message)
			case pipeline.AppendTracks:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	summary, runErr := engine.Run(ctx, progressCh, snap, force)
	close(progressCh)
	<-done

	if summary != nil {
		r.recordRun(db, summary, runErr)
	}

	if runErr != nil {
		if errors.Is(runErr, shared.ErrAuthFailed) {
			r.writePlain("Run aborted: credential refresh failed.\n")
		}
		if summary != nil {
			r.printSummary(summary, asJSON)
		}
		return runErr
	}

	r.printSummary(summary, asJSON)
	return nil
}

// printSummary renders the run summary for the invoking user.
func (r *Runner) printSummary(summary *pipeline.RunSummary, asJSON bool) {
	if asJSON {
		r.writeJSON(summary, true)
		return
	}

	if summary.Skipped {
		r.writePlain("%s\n", summary.String())
		return
	}

	r.writePlain("\n")
	r.writePlainHeader("Run Complete")
	r.writePlain("%s\n", summary.String())

	if len(summary.PerGenre) > 0 {
		r.writePlain("\nAdds by genre:\n")
		genres := make([]string, 0, len(summary.PerGenre))
		for genre := range summary.PerGenre {
			genres = append(genres, genre)
		}
		sort.Strings(genres)
		for _, genre := range genres {
			r.writePlain("  %s: %d\n", genre, summary.PerGenre[genre])
		}
	}
}

// recordRun persists the run summary for the history command. Failure to
// record is logged but never fails the run itself.
func (r *Runner) recordRun(db *sql.DB, summary *pipeline.RunSummary, runErr error) {
	record := roster.RunRecord{
		StartedAt:       summary.StartedAt,
		Skipped:         summary.Skipped,
		TracksFetched:   summary.TracksFetched,
		TracksProcessed: summary.TracksProcessed,
		TracksAdded:     summary.TracksAdded,
		TracksFallback:  summary.TracksFallback,
		Failures:        summary.Failures,
	}
	if !summary.FinishedAt.IsZero() {
		record.FinishedAt = sql.NullTime{Time: summary.FinishedAt, Valid: true}
	}
	if runErr != nil {
		record.Fatal = sql.NullString{String: runErr.Error(), Valid: true}
	}

	if _, err := roster.NewRunRepository(db).Create(record); err != nil {
		r.logger.Warn("failed to record run history", "error", err)
	}
}

// RunHistory prints recent run summaries, newest first.
func (r *Runner) RunHistory(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := roster.NewRunRepository(db).Recent(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		r.writePlain("No runs recorded yet.\n")
		return nil
	}

	r.writePlainHeader("Run History")
	for _, rec := range records {
		status := "ok"
		if rec.Skipped {
			status = "skipped"
		} else if rec.Fatal.Valid {
			status = "fatal: " + rec.Fatal.String
		}
		r.writePlain("%s  [%s]  fetched=%d processed=%d added=%d fallback=%d failures=%d\n",
			rec.StartedAt.Format(time.RFC3339), status,
			rec.TracksFetched, rec.TracksProcessed, rec.TracksAdded, rec.TracksFallback, rec.Failures)
	}
	return nil
}
