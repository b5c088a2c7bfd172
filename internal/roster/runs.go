package roster

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/curator/internal/shared"
)

// RunRecord is the persisted form of a pipeline run summary, kept for the
// admin surface to display run history.
type RunRecord struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      sql.NullTime
	Skipped         bool
	TracksFetched   int
	TracksProcessed int
	TracksAdded     int
	TracksFallback  int
	Failures        int
	Fatal           sql.NullString
}

// RunRepository handles persistence for run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run record and returns it with a generated id.
func (r *RunRepository) Create(record RunRecord) (*RunRecord, error) {
	record.ID = shared.GenerateID()

	_, err := r.db.Exec(`
		INSERT INTO runs (id, started_at, finished_at, skipped, tracks_fetched, tracks_processed, tracks_added, tracks_fallback, failures, fatal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.StartedAt,
		record.FinishedAt,
		record.Skipped,
		record.TracksFetched,
		record.TracksProcessed,
		record.TracksAdded,
		record.TracksFallback,
		record.Failures,
		record.Fatal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run record: %w", err)
	}

	return &record, nil
}

// Recent retrieves the most recent run records, newest first.
func (r *RunRepository) Recent(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, skipped, tracks_fetched, tracks_processed, tracks_added, tracks_fallback, failures, fatal
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		err := rows.Scan(
			&rec.ID,
			&rec.StartedAt,
			&rec.FinishedAt,
			&rec.Skipped,
			&rec.TracksFetched,
			&rec.TracksProcessed,
			&rec.TracksAdded,
			&rec.TracksFallback,
			&rec.Failures,
			&rec.Fatal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
