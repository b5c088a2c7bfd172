// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for the roster database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// runCommand triggers the ingestion pipeline.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the release ingestion pipeline now",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Bypass the weekly anchor-day gate",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the run summary as JSON",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress per-track progress output",
			},
		},
		Action: r.Run,
	}
}

// rosterCommand manages the tracked artists, genre routes, and fallback playlists.
func rosterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "Manage tracked artists, genre routes, and fallback playlists",
		Commands: []*cli.Command{
			{
				Name:  "artist",
				Usage: "Tracked artist operations",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Track a new artist by catalog id",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
						Flags:     []cli.Flag{configFlag()},
						Action:    r.ArtistAdd,
					},
					{
						Name:      "rm",
						Usage:     "Stop tracking an artist",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
						Flags:     []cli.Flag{configFlag()},
						Action:    r.ArtistRemove,
					},
					{
						Name:   "list",
						Usage:  "List tracked artists",
						Flags:  []cli.Flag{configFlag(), &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
						Action: r.ArtistList,
					},
				},
			},
			{
				Name:  "route",
				Usage: "Genre route operations",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Route a genre label to a playlist id",
						Arguments: []cli.Argument{&cli.StringArg{Name: "genre"}, &cli.StringArg{Name: "playlist"}},
						Flags:     []cli.Flag{configFlag()},
						Action:    r.RouteAdd,
					},
					{
						Name:      "rm",
						Usage:     "Remove the route for a genre label",
						Arguments: []cli.Argument{&cli.StringArg{Name: "genre"}},
						Flags:     []cli.Flag{configFlag()},
						Action:    r.RouteRemove,
					},
					{
						Name:   "list",
						Usage:  "List genre routes",
						Flags:  []cli.Flag{configFlag(), &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
						Action: r.RouteList,
					},
				},
			},
			{
				Name:  "fallback",
				Usage: "Fallback playlist operations",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Add a fallback playlist for unrouted genres",
						Arguments: []cli.Argument{&cli.StringArg{Name: "playlist"}},
						Flags:     []cli.Flag{configFlag()},
						Action:    r.FallbackAdd,
					},
					{
						Name:      "rm",
						Usage:     "Remove a fallback playlist",
						Arguments: []cli.Argument{&cli.StringArg{Name: "playlist"}},
						Flags:     []cli.Flag{configFlag()},
						Action:    r.FallbackRemove,
					},
					{
						Name:   "list",
						Usage:  "List fallback playlists",
						Flags:  []cli.Flag{configFlag(), &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
						Action: r.FallbackList,
					},
				},
			},
			{
				Name:   "history",
				Usage:  "Show recent run summaries",
				Flags:  []cli.Flag{configFlag(), &cli.IntFlag{Name: "limit", Usage: "Number of runs to show", Value: 10}},
				Action: r.RunHistory,
			},
		},
	}
}
