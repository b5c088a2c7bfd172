package roster

import (
	"database/sql"
	"fmt"
)

// Snapshot is the immutable per-run view of the roster. The pipeline routes
// against this snapshot for the whole run; admin mutations made mid-run are
// not observed until the next snapshot is taken.
type Snapshot struct {
	ArtistIDs []string          // tracked artist catalog ids, creation order
	Routes    map[string]string // normalized genre label -> playlist id
	Fallbacks []string          // fallback playlist ids, position order
}

// Route looks up the playlist id for a genre label. The label is normalized
// before lookup. ok is false when the genre has no route.
func (s *Snapshot) Route(label string) (string, bool) {
	id, ok := s.Routes[NormalizeGenre(label)]
	return id, ok
}

// LoadSnapshot reads the full roster into an immutable snapshot.
func LoadSnapshot(db *sql.DB) (*Snapshot, error) {
	artists, err := NewArtistRepository(db).List()
	if err != nil {
		return nil, fmt.Errorf("failed to load artists: %w", err)
	}

	routes, err := NewRouteRepository(db).List()
	if err != nil {
		return nil, fmt.Errorf("failed to load genre routes: %w", err)
	}

	fallbacks, err := NewFallbackRepository(db).List()
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback playlists: %w", err)
	}

	snap := &Snapshot{
		ArtistIDs: make([]string, 0, len(artists)),
		Routes:    make(map[string]string, len(routes)),
		Fallbacks: make([]string, 0, len(fallbacks)),
	}

	for _, a := range artists {
		snap.ArtistIDs = append(snap.ArtistIDs, a.ArtistID)
	}
	for _, r := range routes {
		// Labels are normalized on write; normalize again so hand-edited rows
		// still resolve.
		if _, ok := snap.Routes[NormalizeGenre(r.Genre)]; !ok {
			snap.Routes[NormalizeGenre(r.Genre)] = r.PlaylistID
		}
	}
	for _, f := range fallbacks {
		snap.Fallbacks = append(snap.Fallbacks, f.PlaylistID)
	}

	return snap, nil
}
