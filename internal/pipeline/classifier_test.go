package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	tu "github.com/desertthunder/curator/internal/testing"
)

func TestClassification_Render(t *testing.T) {
	tests := []struct {
		name string
		c    Classification
		want string
	}{
		{"resolved", Classification{Resolved: true, Label: "indie pop"}, "indie pop"},
		{"unresolved", Classification{}, UnknownGenre},
		{"resolved with empty label", Classification{Resolved: true}, UnknownGenre},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first genre tag in provider order", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.Artists["a1"] = &services.CatalogArtist{ID: "a1", Genres: []string{"indie pop", "shoegaze"}}

		c := NewClassifier(catalog, nil)
		got, err := c.Classify(ctx, "a1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Resolved || got.Label != "indie pop" {
			t.Errorf("expected resolved 'indie pop', got %+v", got)
		}
	})

	t.Run("empty artist id is unresolved without a fetch", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		c := NewClassifier(catalog, nil)

		got, err := c.Classify(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Resolved {
			t.Error("expected unresolved classification")
		}
		if catalog.Calls != 0 {
			t.Errorf("expected no catalog calls, got %d", catalog.Calls)
		}
	})

	t.Run("zero genre tags is unresolved", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.Artists["a1"] = &services.CatalogArtist{ID: "a1"}

		c := NewClassifier(catalog, nil)
		got, err := c.Classify(ctx, "a1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Resolved {
			t.Error("expected unresolved classification")
		}
	})

	t.Run("metadata fetch failure is absorbed", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.ArtistErr = &shared.CatalogError{Status: 500, Body: "boom"}

		c := NewClassifier(catalog, nil)
		got, err := c.Classify(ctx, "a1")
		if err != nil {
			t.Fatalf("expected failure to be absorbed, got %v", err)
		}
		if got.Resolved {
			t.Error("expected unresolved classification")
		}
	})

	t.Run("credential failure propagates", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.ArtistErr = &shared.AuthError{Status: 400, Body: "invalid_grant"}

		c := NewClassifier(catalog, nil)
		_, err := c.Classify(ctx, "a1")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected auth error to propagate, got %v", err)
		}
	})

	t.Run("caches lookups for the run", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.Artists["a1"] = &services.CatalogArtist{ID: "a1", Genres: []string{"techno"}}

		c := NewClassifier(catalog, nil)
		for range 3 {
			if _, err := c.Classify(ctx, "a1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if catalog.Calls != 1 {
			t.Errorf("expected 1 catalog call, got %d", catalog.Calls)
		}
	})
}
