package roster

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/curator/internal/shared"
)

// GenreRoute pairs a normalized genre label with a target playlist id.
type GenreRoute struct {
	ID         string
	Genre      string
	PlaylistID string
	CreatedAt  time.Time
}

// NormalizeGenre canonicalizes a genre label for storage and lookup: trimmed
// and lowercased, so "Indie Pop " and "indie pop" are the same route.
func NormalizeGenre(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// RouteRepository handles persistence for genre-to-playlist routes.
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new RouteRepository with the given database connection
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create registers a route for a genre label. The label is normalized before
// storage; registering a second route for the same label is rejected
// (first-registered wins).
func (r *RouteRepository) Create(genre, playlistID string) (*GenreRoute, error) {
	genre = NormalizeGenre(genre)
	playlistID = strings.TrimSpace(playlistID)
	if genre == "" || playlistID == "" {
		return nil, fmt.Errorf("%w: genre and playlist id are required", shared.ErrInvalidInput)
	}

	route := &GenreRoute{
		ID:         shared.GenerateID(),
		Genre:      genre,
		PlaylistID: playlistID,
		CreatedAt:  time.Now(),
	}

	_, err := r.db.Exec(
		"INSERT INTO genre_routes (id, genre, playlist_id, created_at) VALUES (?, ?, ?, ?)",
		route.ID, route.Genre, route.PlaylistID, route.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: genre %q", shared.ErrDuplicateEntry, genre)
		}
		return nil, fmt.Errorf("failed to insert genre route: %w", err)
	}

	return route, nil
}

// Delete removes the route for a genre label.
func (r *RouteRepository) Delete(genre string) error {
	result, err := r.db.Exec("DELETE FROM genre_routes WHERE genre = ?", NormalizeGenre(genre))
	if err != nil {
		return fmt.Errorf("failed to delete genre route: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: genre %q", shared.ErrNotFound, genre)
	}

	return nil
}

// List retrieves all genre routes ordered by genre label.
func (r *RouteRepository) List() ([]GenreRoute, error) {
	rows, err := r.db.Query("SELECT id, genre, playlist_id, created_at FROM genre_routes ORDER BY genre ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query genre routes: %w", err)
	}
	defer rows.Close()

	var routes []GenreRoute
	for rows.Next() {
		var gr GenreRoute
		if err := rows.Scan(&gr.ID, &gr.Genre, &gr.PlaylistID, &gr.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan genre route: %w", err)
		}
		routes = append(routes, gr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return routes, nil
}
