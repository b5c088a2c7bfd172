// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/curator/internal/services"
)

// MockCatalog is a configurable test double for [services.Catalog].
//
// Each operation returns the canned data keyed by id, or the injected error.
// Call counters let tests assert how many catalog calls a code path makes.
type MockCatalog struct {
	Albums    map[string][]services.Release      // artist id -> releases
	Tracks    map[string][]services.CatalogTrack // album id -> tracks
	Artists   map[string]*services.CatalogArtist // artist id -> metadata
	Playlists map[string]*services.CatalogPlaylist

	AlbumsErr   error
	TracksErr   error
	ArtistErr   error
	PlaylistErr error
	AddErr      error

	Calls int                 // total catalog calls across all operations
	Added map[string][]string // playlist id -> appended track ids, in order
}

// NewMockCatalog creates an empty MockCatalog with initialized maps.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Albums:    make(map[string][]services.Release),
		Tracks:    make(map[string][]services.CatalogTrack),
		Artists:   make(map[string]*services.CatalogArtist),
		Playlists: make(map[string]*services.CatalogPlaylist),
		Added:     make(map[string][]string),
	}
}

func (m *MockCatalog) ArtistAlbums(ctx context.Context, artistID string) ([]services.Release, error) {
	m.Calls++
	if m.AlbumsErr != nil {
		return nil, m.AlbumsErr
	}
	return m.Albums[artistID], nil
}

func (m *MockCatalog) AlbumTracks(ctx context.Context, albumID string) ([]services.CatalogTrack, error) {
	m.Calls++
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return m.Tracks[albumID], nil
}

func (m *MockCatalog) Artist(ctx context.Context, artistID string) (*services.CatalogArtist, error) {
	m.Calls++
	if m.ArtistErr != nil {
		return nil, m.ArtistErr
	}
	if artist, ok := m.Artists[artistID]; ok {
		return artist, nil
	}
	return nil, errors.New("artist not found")
}

func (m *MockCatalog) Playlist(ctx context.Context, playlistID string) (*services.CatalogPlaylist, error) {
	m.Calls++
	if m.PlaylistErr != nil {
		return nil, m.PlaylistErr
	}
	if playlist, ok := m.Playlists[playlistID]; ok {
		return playlist, nil
	}
	pl := &services.CatalogPlaylist{ID: playlistID}
	return pl, nil
}

func (m *MockCatalog) AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	m.Calls++
	if m.AddErr != nil {
		return m.AddErr
	}
	m.Added[playlistID] = append(m.Added[playlistID], trackIDs...)
	if playlist, ok := m.Playlists[playlistID]; ok {
		playlist.Tracks.Total += len(trackIDs)
	}
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
