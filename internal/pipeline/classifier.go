package pipeline

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
)

// UnknownGenre is the sentinel label rendered for unresolved classifications.
// It is applied only at the routing boundary; internally classification is a
// tagged outcome so tests can distinguish "resolved to unknown-named genre"
// from "could not resolve".
const UnknownGenre = "unknown"

// Classification is the tagged outcome of classifying a track's primary artist.
type Classification struct {
	Resolved bool
	Label    string
}

// Render returns the genre label for routing, mapping unresolved
// classifications to [UnknownGenre]. Never empty.
func (c Classification) Render() string {
	if !c.Resolved || c.Label == "" {
		return UnknownGenre
	}
	return c.Label
}

// Classifier resolves genres from artist metadata, caching lookups for the
// duration of a run so each artist is fetched at most once.
type Classifier struct {
	catalog services.Catalog
	logger  *log.Logger
	cache   map[string]Classification
}

// NewClassifier creates a Classifier bound to a catalog client.
// Create one per run; the cache is not bounded or invalidated.
func NewClassifier(catalog services.Catalog, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Classifier{
		catalog: catalog,
		logger:  logger,
		cache:   make(map[string]Classification),
	}
}

// Classify resolves the genre for a primary artist id: the first genre tag in
// the provider's ordering. Empty ids, failed lookups, and artists with no
// genre tags all classify as unresolved rather than failing the run.
//
// Credential failures are the one exception: they are fatal to the whole run
// and propagate instead of degrading to unresolved.
func (c *Classifier) Classify(ctx context.Context, artistID string) (Classification, error) {
	if artistID == "" {
		return Classification{}, nil
	}

	if cached, ok := c.cache[artistID]; ok {
		return cached, nil
	}

	artist, err := c.catalog.Artist(ctx, artistID)
	if err != nil {
		var authErr *shared.AuthError
		if errors.As(err, &authErr) {
			return Classification{}, err
		}
		c.logger.Error("artist metadata fetch failed, classifying as unknown", "artist_id", artistID, "err", err)
		c.cache[artistID] = Classification{}
		return Classification{}, nil
	}

	result := Classification{}
	if len(artist.Genres) > 0 {
		result = Classification{Resolved: true, Label: artist.Genres[0]}
	}

	c.cache[artistID] = result
	return result, nil
}
