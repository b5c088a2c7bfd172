package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/curator/internal/roster"
	"github.com/desertthunder/curator/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtistAdd tracks a new artist by its catalog id.
func (r *Runner) ArtistAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	artistID := cmd.StringArg("id")
	if artistID == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	artist, err := roster.NewArtistRepository(db).Create(artistID)
	if err != nil {
		return err
	}

	r.logger.Info("artist added", "artist_id", artist.ArtistID)
	r.writePlain("✓ Tracking artist %s\n", artist.ArtistID)
	return nil
}

// ArtistRemove stops tracking an artist.
func (r *Runner) ArtistRemove(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	artistID := cmd.StringArg("id")
	if artistID == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := roster.NewArtistRepository(db).Delete(artistID); err != nil {
		return err
	}

	r.writePlain("✓ Stopped tracking artist %s\n", artistID)
	return nil
}

// ArtistList lists tracked artists.
func (r *Runner) ArtistList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	artists, err := roster.NewArtistRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}

	if len(artists) == 0 {
		r.writePlain("No tracked artists.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Tracked Artists (%d)", len(artists)))
	for _, a := range artists {
		r.writePlain("%s\n", a.ArtistID)
	}
	return nil
}

// RouteAdd registers a genre-to-playlist route.
func (r *Runner) RouteAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	genre := cmd.StringArg("genre")
	playlistID := cmd.StringArg("playlist")
	if genre == "" || playlistID == "" {
		return fmt.Errorf("%w: genre and playlist id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	route, err := roster.NewRouteRepository(db).Create(genre, playlistID)
	if err != nil {
		return err
	}

	r.logger.Info("genre route added", "genre", route.Genre, "playlist_id", route.PlaylistID)
	r.writePlain("✓ Routing %q → %s\n", route.Genre, route.PlaylistID)
	return nil
}

// RouteRemove removes the route for a genre label.
func (r *Runner) RouteRemove(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	genre := cmd.StringArg("genre")
	if genre == "" {
		return fmt.Errorf("%w: genre", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := roster.NewRouteRepository(db).Delete(genre); err != nil {
		return err
	}

	r.writePlain("✓ Removed route for %q\n", roster.NormalizeGenre(genre))
	return nil
}

// RouteList lists genre routes.
func (r *Runner) RouteList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	routes, err := roster.NewRouteRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(routes, true)
	}

	if len(routes) == 0 {
		r.writePlain("No genre routes.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Genre Routes (%d)", len(routes)))
	for _, route := range routes {
		r.writePlain("%s → %s\n", route.Genre, route.PlaylistID)
	}
	return nil
}

// FallbackAdd adds a fallback playlist for unrouted genres.
func (r *Runner) FallbackAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	playlistID := cmd.StringArg("playlist")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	fallback, err := roster.NewFallbackRepository(db).Create(playlistID)
	if err != nil {
		return err
	}

	r.logger.Info("fallback playlist added", "playlist_id", fallback.PlaylistID)
	r.writePlain("✓ Added fallback playlist %s\n", fallback.PlaylistID)
	return nil
}

// FallbackRemove removes a fallback playlist.
func (r *Runner) FallbackRemove(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)
	playlistID := cmd.StringArg("playlist")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := roster.NewFallbackRepository(db).Delete(playlistID); err != nil {
		return err
	}

	r.writePlain("✓ Removed fallback playlist %s\n", playlistID)
	return nil
}

// FallbackList lists fallback playlists in position order.
func (r *Runner) FallbackList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	fallbacks, err := roster.NewFallbackRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(fallbacks, true)
	}

	if len(fallbacks) == 0 {
		r.writePlain("No fallback playlists.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Fallback Playlists (%d)", len(fallbacks)))
	for _, fallback := range fallbacks {
		r.writePlain("%d. %s\n", fallback.Position+1, fallback.PlaylistID)
	}
	return nil
}
