// Spotify Web API implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"
	pageLimit      = 50
)

// TokenSource supplies a valid bearer token for each catalog request.
// [TokenManager] is the production implementation.
type TokenSource interface {
	Acquire(ctx context.Context) (*oauth2.Token, error)
}

// CatalogOpts contains tuning options for a [CatalogService].
type CatalogOpts struct {
	BaseURL      string       // API base URL, defaults to the Spotify Web API
	HTTPClient   *http.Client // defaults to http.DefaultClient
	MaxRetries   int          // 429 retry budget per request, defaults to 3
	RateLimitRPS float64      // client-side request budget, defaults to 5 rps
	Logger       *log.Logger
}

// CatalogService implements [Catalog] against the Spotify Web API.
//
// All requests pass through a shared client-side [rate.Limiter] (the provider
// limit is account-wide, not per-endpoint) and a 429 guard that honors
// Retry-After with a bounded retry budget.
type CatalogService struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *log.Logger
}

// NewCatalogService creates a CatalogService with the given token source and options.
func NewCatalogService(tokens TokenSource, opts CatalogOpts) *CatalogService {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &CatalogService{
		baseURL:    opts.BaseURL,
		tokens:     tokens,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1),
		maxRetries: opts.MaxRetries,
		logger:     opts.Logger,
	}
}

// errThrottled signals a 429 response the request loop must wait out and retry.
var errThrottled = errors.New("throttled by provider")

// doRequest performs an authenticated request, waiting on the shared limiter
// and retrying on 429 up to the configured budget. Any other non-2xx response
// fails immediately with a [shared.CatalogError].
func (s *CatalogService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		retryAfter, err := s.attempt(ctx, method, endpoint, payload, result)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errThrottled) {
			return err
		}
		if attempt >= s.maxRetries {
			return &shared.CatalogError{Status: http.StatusTooManyRequests, Body: "retry budget exhausted", Limited: true}
		}

		s.logger.Warn("rate limited by catalog API", "endpoint", endpoint, "retry_after", retryAfter, "attempt", attempt+1)
		if err := sleepCtx(ctx, retryAfter); err != nil {
			return err
		}
	}
}

// attempt performs a single request. A 429 response yields errThrottled with
// the wait the provider asked for; any other failure is returned as-is.
func (s *CatalogService) attempt(ctx context.Context, method, endpoint string, payload []byte, result any) (time.Duration, error) {
	token, err := s.tokens.Acquire(ctx)
	if err != nil {
		return 0, err
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return parseRetryAfter(resp.Header.Get("Retry-After")), errThrottled
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, &shared.CatalogError{Status: resp.StatusCode, Body: string(body)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return 0, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return 0, nil
}

// parseRetryAfter reads a Retry-After header value in seconds, defaulting to 1s.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return time.Second
	}
	return time.Duration(seconds) * time.Second
}

// sleepCtx sleeps for d or until the context is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ArtistAlbums lists an artist's albums and singles, following offset pagination until the provider reports no further page.
func (s *CatalogService) ArtistAlbums(ctx context.Context, artistID string) ([]Release, error) {
	var releases []Release
	offset := 0

	for {
		endpoint := fmt.Sprintf("/artists/%s/albums?include_groups=album,single&limit=%d&offset=%d", url.PathEscape(artistID), pageLimit, offset)

		var page paginated[Release]
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		releases = append(releases, page.Items...)
		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += pageLimit
	}

	return releases, nil
}

// AlbumTracks lists the tracks on a release, following offset pagination until the provider reports no further page.
func (s *CatalogService) AlbumTracks(ctx context.Context, albumID string) ([]CatalogTrack, error) {
	var tracks []CatalogTrack
	offset := 0

	for {
		endpoint := fmt.Sprintf("/albums/%s/tracks?limit=%d&offset=%d", url.PathEscape(albumID), pageLimit, offset)

		var page paginated[CatalogTrack]
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		tracks = append(tracks, page.Items...)
		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += pageLimit
	}

	return tracks, nil
}

// Artist retrieves artist metadata, including the provider-ordered genre tags.
func (s *CatalogService) Artist(ctx context.Context, artistID string) (*CatalogArtist, error) {
	var artist CatalogArtist
	endpoint := fmt.Sprintf("/artists/%s", url.PathEscape(artistID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Playlist retrieves playlist metadata, including the current track total.
func (s *CatalogService) Playlist(ctx context.Context, playlistID string) (*CatalogPlaylist, error) {
	var playlist CatalogPlaylist
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddToPlaylist appends track ids to a playlist. Bare ids are converted to
// track URIs; batching against the per-request ceiling is the caller's job.
func (s *CatalogService) AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		if strings.HasPrefix(id, "spotify:") {
			uris[i] = id
		} else {
			uris[i] = "spotify:track:" + id
		}
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	body := map[string]any{"uris": uris}
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}
