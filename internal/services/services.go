// package services defines the catalog client used by the curation pipeline
package services

import "context"

// Catalog defines the read/write surface of the streaming catalog consumed by the pipeline.
// The concrete implementation is [CatalogService]; tests substitute doubles.
type Catalog interface {
	// ArtistAlbums lists an artist's albums and singles, following pagination to the end.
	ArtistAlbums(ctx context.Context, artistID string) ([]Release, error)

	// AlbumTracks lists the tracks on a release, following pagination to the end.
	AlbumTracks(ctx context.Context, albumID string) ([]CatalogTrack, error)

	// Artist retrieves artist metadata, including genre tags.
	Artist(ctx context.Context, artistID string) (*CatalogArtist, error)

	// Playlist retrieves playlist metadata, including the current track total.
	Playlist(ctx context.Context, playlistID string) (*CatalogPlaylist, error)

	// AddToPlaylist appends track ids to a playlist. Callers are responsible for batching.
	AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
}

// Release represents an album or single returned by the artist-albums endpoint.
type Release struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AlbumType   string `json:"album_type"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
}

// CatalogTrack represents a track on a release.
type CatalogTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []CatalogArtist `json:"artists"`
}

// PrimaryArtist returns the track's first-listed artist, or a zero value when absent.
func (t CatalogTrack) PrimaryArtist() CatalogArtist {
	if len(t.Artists) == 0 {
		return CatalogArtist{}
	}
	return t.Artists[0]
}

// CatalogArtist represents artist metadata. Genres is ordered by the provider.
type CatalogArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// CatalogPlaylist represents playlist metadata.
type CatalogPlaylist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// paginated is the provider's offset-paginated envelope. Next is nil on the final page.
type paginated[T any] struct {
	Items  []T     `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}
