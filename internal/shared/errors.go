package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTokenExpired   = fmt.Errorf("access token expired")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")

	// API and pipeline errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrRateLimited      = fmt.Errorf("rate limit retries exhausted")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrArtistNotFound   = fmt.Errorf("artist not found")
	ErrRunInProgress    = fmt.Errorf("a run is already in progress")

	// Roster errors
	ErrDuplicateEntry = fmt.Errorf("entry already exists")
	ErrNotFound       = fmt.Errorf("entry not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// AuthError reports a failed credential exchange against the token endpoint.
// It carries the provider's status and error payload and is fatal to a run.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token endpoint returned %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return ErrAuthFailed }

// CatalogError reports a non-success response from the catalog API.
// Rate-limit exhaustion is represented as a CatalogError wrapping [ErrRateLimited].
type CatalogError struct {
	Status int
	Body   string
	// Limited is set when the error is the result of exhausted 429 retries.
	Limited bool
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog API returned %d: %s", e.Status, e.Body)
}

func (e *CatalogError) Unwrap() error {
	if e.Limited {
		return ErrRateLimited
	}
	return ErrAPIRequest
}
