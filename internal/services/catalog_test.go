package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/curator/internal/shared"
	"golang.org/x/oauth2"
)

// staticTokens is a TokenSource returning a fixed token or error.
type staticTokens struct {
	err error
}

func (s staticTokens) Acquire(ctx context.Context) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "test-token", Expiry: time.Now().Add(time.Hour)}, nil
}

func testCatalog(serverURL string) *CatalogService {
	return NewCatalogService(staticTokens{}, CatalogOpts{
		BaseURL:      serverURL,
		MaxRetries:   3,
		RateLimitRPS: 1000,
	})
}

func TestNewCatalogService(t *testing.T) {
	s := NewCatalogService(staticTokens{}, CatalogOpts{})

	if s.baseURL != spotifyBaseURL {
		t.Errorf("expected default base URL, got %s", s.baseURL)
	}
	if s.maxRetries != 3 {
		t.Errorf("expected default retry budget 3, got %d", s.maxRetries)
	}
	if s.httpClient != http.DefaultClient {
		t.Error("expected default HTTP client")
	}
}

func TestCatalogService_ArtistAlbums(t *testing.T) {
	ctx := context.Background()

	t.Run("follows pagination to the end", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization = %q", got)
			}

			offset := r.URL.Query().Get("offset")
			switch offset {
			case "0":
				next := "next-page"
				json.NewEncoder(w).Encode(paginated[Release]{
					Items: []Release{{ID: "album-1"}, {ID: "album-2"}},
					Next:  &next,
				})
			case "50":
				json.NewEncoder(w).Encode(paginated[Release]{
					Items: []Release{{ID: "album-3"}},
				})
			default:
				t.Errorf("unexpected offset %q", offset)
			}
		}))
		defer server.Close()

		releases, err := testCatalog(server.URL).ArtistAlbums(ctx, "artist-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(releases) != 3 {
			t.Errorf("expected 3 releases across pages, got %d", len(releases))
		}
		if requests != 2 {
			t.Errorf("expected 2 requests, got %d", requests)
		}
	})

	t.Run("requests albums and singles", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("include_groups"); got != "album,single" {
				t.Errorf("include_groups = %q", got)
			}
			json.NewEncoder(w).Encode(paginated[Release]{})
		}))
		defer server.Close()

		if _, err := testCatalog(server.URL).ArtistAlbums(ctx, "artist-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("token failure propagates", func(t *testing.T) {
		authErr := &shared.AuthError{Status: 400, Body: "invalid_grant"}
		s := NewCatalogService(staticTokens{err: authErr}, CatalogOpts{BaseURL: "http://127.0.0.1:0", RateLimitRPS: 1000})

		if _, err := s.ArtistAlbums(ctx, "artist-1"); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected auth error, got %v", err)
		}
	})
}

func TestCatalogService_RateLimiting(t *testing.T) {
	ctx := context.Background()

	t.Run("retries once after a 429", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests == 1 {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			json.NewEncoder(w).Encode(CatalogArtist{ID: "artist-1", Genres: []string{"techno"}})
		}))
		defer server.Close()

		start := time.Now()
		artist, err := testCatalog(server.URL).Artist(ctx, "artist-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if artist.ID != "artist-1" || len(artist.Genres) != 1 {
			t.Errorf("expected the retried response decoded, got %+v", artist)
		}
		if requests != 2 {
			t.Errorf("expected exactly 2 requests, got %d", requests)
		}
		if elapsed := time.Since(start); elapsed < time.Second {
			t.Errorf("expected the client to wait out Retry-After, finished in %v", elapsed)
		}
	})

	t.Run("persistent 429 exhausts the retry budget", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		s := NewCatalogService(staticTokens{}, CatalogOpts{
			BaseURL:      server.URL,
			MaxRetries:   1,
			RateLimitRPS: 1000,
		})

		_, err := s.Artist(ctx, "artist-1")
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
		// initial attempt plus one retry
		if requests != 2 {
			t.Errorf("expected 2 requests, got %d", requests)
		}
	})

	t.Run("other failures do not retry", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": {"status": 404}}`)
		}))
		defer server.Close()

		_, err := testCatalog(server.URL).Artist(ctx, "missing")
		var catErr *shared.CatalogError
		if !errors.As(err, &catErr) || catErr.Status != http.StatusNotFound {
			t.Fatalf("expected CatalogError with status 404, got %v", err)
		}
		if errors.Is(err, shared.ErrRateLimited) {
			t.Error("non-429 failure should not look rate limited")
		}
		if requests != 1 {
			t.Errorf("expected 1 request, got %d", requests)
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"seconds", "3", 3 * time.Second},
		{"missing", "", time.Second},
		{"zero", "0", time.Second},
		{"negative", "-5", time.Second},
		{"garbage", "soon", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.value); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCatalogService_AddToPlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("converts bare ids to track URIs", func(t *testing.T) {
		var body struct {
			URIs []string `json:"uris"`
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		err := testCatalog(server.URL).AddToPlaylist(ctx, "pl-1", []string{"track-1", "spotify:track:track-2"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"spotify:track:track-1", "spotify:track:track-2"}
		if len(body.URIs) != len(want) {
			t.Fatalf("uris = %v, want %v", body.URIs, want)
		}
		for i := range want {
			if body.URIs[i] != want[i] {
				t.Errorf("uris[%d] = %q, want %q", i, body.URIs[i], want[i])
			}
		}
	})

	t.Run("empty input makes no request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))
		defer server.Close()

		if err := testCatalog(server.URL).AddToPlaylist(ctx, "pl-1", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCatalogService_Playlist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "pl-1", "name": "Weekly Finds", "tracks": {"total": 42}}`)
	}))
	defer server.Close()

	playlist, err := testCatalog(server.URL).Playlist(context.Background(), "pl-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if playlist.Tracks.Total != 42 {
		t.Errorf("track total = %d, want 42", playlist.Tracks.Total)
	}
}
