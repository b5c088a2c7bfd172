package roster

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/curator/internal/shared"
)

// FallbackPlaylist receives tracks whose classified genre has no route.
// Position orders the fallback list; every fallback receives each routed-nowhere track.
type FallbackPlaylist struct {
	ID         string
	PlaylistID string
	Position   int
	CreatedAt  time.Time
}

// FallbackRepository handles persistence for fallback playlists.
type FallbackRepository struct {
	db *sql.DB
}

// NewFallbackRepository creates a new FallbackRepository with the given database connection
func NewFallbackRepository(db *sql.DB) *FallbackRepository {
	return &FallbackRepository{db: db}
}

// Create appends a playlist to the fallback list.
func (r *FallbackRepository) Create(playlistID string) (*FallbackPlaylist, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is empty", shared.ErrInvalidInput)
	}

	var position int
	if err := r.db.QueryRow("SELECT COALESCE(MAX(position), -1) + 1 FROM fallback_playlists").Scan(&position); err != nil {
		return nil, fmt.Errorf("failed to compute fallback position: %w", err)
	}

	fallback := &FallbackPlaylist{
		ID:         shared.GenerateID(),
		PlaylistID: playlistID,
		Position:   position,
		CreatedAt:  time.Now(),
	}

	_, err := r.db.Exec(
		"INSERT INTO fallback_playlists (id, playlist_id, position, created_at) VALUES (?, ?, ?, ?)",
		fallback.ID, fallback.PlaylistID, fallback.Position, fallback.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: fallback playlist %s", shared.ErrDuplicateEntry, playlistID)
		}
		return nil, fmt.Errorf("failed to insert fallback playlist: %w", err)
	}

	return fallback, nil
}

// Delete removes a playlist from the fallback list.
func (r *FallbackRepository) Delete(playlistID string) error {
	result, err := r.db.Exec("DELETE FROM fallback_playlists WHERE playlist_id = ?", strings.TrimSpace(playlistID))
	if err != nil {
		return fmt.Errorf("failed to delete fallback playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: fallback playlist %s", shared.ErrNotFound, playlistID)
	}

	return nil
}

// List retrieves all fallback playlists in position order.
func (r *FallbackRepository) List() ([]FallbackPlaylist, error) {
	rows, err := r.db.Query("SELECT id, playlist_id, position, created_at FROM fallback_playlists ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query fallback playlists: %w", err)
	}
	defer rows.Close()

	var fallbacks []FallbackPlaylist
	for rows.Next() {
		var fp FallbackPlaylist
		if err := rows.Scan(&fp.ID, &fp.PlaylistID, &fp.Position, &fp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fallback playlist: %w", err)
		}
		fallbacks = append(fallbacks, fp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return fallbacks, nil
}
