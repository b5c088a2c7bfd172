package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/curator/internal/pipeline"
	"github.com/desertthunder/curator/internal/roster"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	tu "github.com/desertthunder/curator/internal/testing"
)

func TestNewRunner(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})

		if r.config == nil {
			t.Error("expected a default config")
		}
		if r.logger == nil {
			t.Error("expected a default logger")
		}
		if r.output != os.Stdout {
			t.Error("expected stdout as the default output")
		}
		if r.httpClient != http.DefaultClient {
			t.Error("expected the default HTTP client")
		}
	})

	t.Run("keeps provided dependencies", func(t *testing.T) {
		var buf bytes.Buffer
		config := shared.DefaultConfig()
		r := NewRunner(RunnerOpts{Config: config, Output: &buf})

		if r.config != config {
			t.Error("expected the provided config")
		}
		if r.output != &buf {
			t.Error("expected the provided output writer")
		}
	})

	t.Run("registers the command tree", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})
		commands := r.register()

		names := make(map[string]bool)
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"setup", "run", "roster"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestBuildCatalog(t *testing.T) {
	t.Run("returns the injected catalog", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		r := NewRunner(RunnerOpts{Catalog: mock})

		catalog, err := r.buildCatalog()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if catalog != services.Catalog(mock) {
			t.Error("expected the injected catalog")
		}
	})

	t.Run("fails without credentials", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify = shared.SpotifyConfig{}
		r := NewRunner(RunnerOpts{Config: config})

		if _, err := r.buildCatalog(); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestPrintSummary(t *testing.T) {
	t.Run("plain output with per-genre counts", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		summary := &pipeline.RunSummary{
			TracksFetched:   3,
			TracksProcessed: 3,
			TracksAdded:     2,
			PerGenre:        map[string]int{"techno": 1, "indie pop": 1},
		}
		r.printSummary(summary, false)

		out := buf.String()
		if !strings.Contains(out, "Tracks added: 2") {
			t.Errorf("expected counters in output, got %q", out)
		}
		// genres render sorted
		if strings.Index(out, "indie pop") > strings.Index(out, "techno") {
			t.Errorf("expected sorted genre output, got %q", out)
		}
	})

	t.Run("skipped output", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		r.printSummary(&pipeline.RunSummary{Skipped: true}, false)
		if !strings.Contains(buf.String(), "skipped") {
			t.Errorf("expected skip notice, got %q", buf.String())
		}
	})

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		r.printSummary(&pipeline.RunSummary{TracksAdded: 5}, true)
		if !strings.Contains(buf.String(), `"TracksAdded": 5`) {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})
}

// recentReleaseDate returns yesterday's date, always inside the trailing window.
func recentReleaseDate() string {
	return time.Now().AddDate(0, 0, -1).Format("2006-01-02")
}

// testRunnerWithDB creates a Runner backed by a migrated temp database and a
// mock catalog, returning both for assertions.
func testRunnerWithDB(t *testing.T) (*Runner, *tu.MockCatalog, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "curator.db")

	catalog := tu.NewMockCatalog()
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	r := NewRunner(RunnerOpts{Config: config, Catalog: catalog, Logger: logger, Output: &buf})

	db, err := r.openDatabase()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return r, catalog, &buf
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("empty roster exits cleanly", func(t *testing.T) {
		r, catalog, buf := testRunnerWithDB(t)

		if err := runCommand(r).Run(ctx, []string{"run", "--force", "--quiet"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if catalog.Calls != 0 {
			t.Errorf("expected no catalog calls, got %d", catalog.Calls)
		}
		if !strings.Contains(buf.String(), "no tracked artists") {
			t.Errorf("expected empty-roster notice, got %q", buf.String())
		}
	})

	t.Run("forced run routes and records history", func(t *testing.T) {
		r, catalog, _ := testRunnerWithDB(t)

		db, err := r.openDatabase()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := roster.NewArtistRepository(db).Create("artist-1"); err != nil {
			t.Fatalf("failed to seed artist: %v", err)
		}
		if _, err := roster.NewRouteRepository(db).Create("indie pop", "pl-indie"); err != nil {
			t.Fatalf("failed to seed route: %v", err)
		}
		db.Close()

		catalog.Albums["artist-1"] = []services.Release{
			{ID: "album-1", ReleaseDate: recentReleaseDate()},
		}
		catalog.Tracks["album-1"] = []services.CatalogTrack{
			{ID: "track-1", Name: "New Track", Artists: []services.CatalogArtist{{ID: "artist-1", Name: "The Band"}}},
		}
		catalog.Artists["artist-1"] = &services.CatalogArtist{ID: "artist-1", Genres: []string{"indie pop"}}

		if err := runCommand(r).Run(ctx, []string{"run", "--force", "--quiet"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := catalog.Added["pl-indie"]; len(got) != 1 || got[0] != "track-1" {
			t.Errorf("expected track-1 routed to pl-indie, got %v", got)
		}

		db, err = r.openDatabase()
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		records, err := roster.NewRunRepository(db).Recent(1)
		if err != nil {
			t.Fatalf("failed to read history: %v", err)
		}
		if len(records) != 1 || records[0].TracksAdded != 1 {
			t.Errorf("expected a recorded run with 1 add, got %+v", records)
		}
	})

	t.Run("rejected credentials abort and record a fatal run", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "curator.db")
		config.Credentials.Spotify = shared.SpotifyConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RefreshToken: "refresh-token",
		}

		// Every outbound request answers with a rejected grant.
		rejected := &http.Response{
			StatusCode: http.StatusBadRequest,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(`{"error": "invalid_grant"}`)),
		}
		client := &http.Client{Transport: tu.NewMockRoundTripper(rejected, nil)}

		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Config: config, HTTPClient: client, Logger: shared.NewLogger(&buf), Output: &buf})

		db, err := r.openDatabase()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if _, err := roster.NewArtistRepository(db).Create("artist-1"); err != nil {
			t.Fatalf("failed to seed artist: %v", err)
		}
		db.Close()

		err = runCommand(r).Run(ctx, []string{"run", "--force", "--quiet"})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}

		db, err = r.openDatabase()
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		records, err := roster.NewRunRepository(db).Recent(1)
		if err != nil {
			t.Fatalf("failed to read history: %v", err)
		}
		if len(records) != 1 || !records[0].Fatal.Valid {
			t.Errorf("expected a fatal run recorded, got %+v", records)
		}
	})
}
