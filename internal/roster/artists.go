package roster

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/curator/internal/shared"
)

// Artist is a tracked artist identified by its external catalog id.
type Artist struct {
	ID        string
	ArtistID  string
	CreatedAt time.Time
}

// ArtistRepository handles persistence for tracked artists.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a tracked artist. Duplicate catalog ids are rejected.
func (r *ArtistRepository) Create(artistID string) (*Artist, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is empty", shared.ErrInvalidInput)
	}

	artist := &Artist{
		ID:        shared.GenerateID(),
		ArtistID:  artistID,
		CreatedAt: time.Now(),
	}

	_, err := r.db.Exec(
		"INSERT INTO artists (id, artist_id, created_at) VALUES (?, ?, ?)",
		artist.ID, artist.ArtistID, artist.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: artist %s", shared.ErrDuplicateEntry, artistID)
		}
		return nil, fmt.Errorf("failed to insert artist: %w", err)
	}

	return artist, nil
}

// Delete removes a tracked artist by its catalog id.
func (r *ArtistRepository) Delete(artistID string) error {
	result, err := r.db.Exec("DELETE FROM artists WHERE artist_id = ?", strings.TrimSpace(artistID))
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: artist %s", shared.ErrNotFound, artistID)
	}

	return nil
}

// List retrieves all tracked artists ordered by creation time.
func (r *ArtistRepository) List() ([]Artist, error) {
	rows, err := r.db.Query("SELECT id, artist_id, created_at FROM artists ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.ArtistID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

// isUniqueViolation reports whether err is a sqlite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
