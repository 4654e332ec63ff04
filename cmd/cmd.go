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

// setupCommand initializes config and the server database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize configuration, database and migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the backend HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the backend API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind, overrides config",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind, overrides config",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles account operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Account and session operations",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and persist the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
					&cli.StringFlag{Name: "display-name", Aliases: []string{"d"}, Usage: "Display name"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in account",
				Action: r.AuthWhoami,
			},
			{
				Name:  "profile",
				Usage: "Update the account display name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "display-name", Aliases: []string{"d"}, Usage: "New display name", Required: true},
				},
				Action: r.AuthProfile,
			},
			{
				Name:   "logout",
				Usage:  "Discard the persisted session token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check backend availability",
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalog browsing
func moviesCommand(r *Runner) *cli.Command {
	jsonFlags := []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
	}
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"catalog"},
		Usage:   "Browse and search the catalog",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search movies and TV shows",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     jsonFlags,
				Action:    r.MoviesSearch,
			},
			{
				Name:   "popular",
				Usage:  "Show trending titles",
				Flags:  jsonFlags,
				Action: r.MoviesPopular,
			},
			{
				Name:   "top-rated",
				Usage:  "Show top rated titles",
				Flags:  jsonFlags,
				Action: r.MoviesTopRated,
			},
			{
				Name:      "detail",
				Usage:     "Show full detail for one title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "Media type (movie or tv)", Value: "movie"},
				}, jsonFlags...),
				Action: r.MoviesDetail,
			},
		},
	}
}

// ratingsCommand handles the rating library
func ratingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ratings",
		Usage: "Manage your rating library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved ratings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Filter key (all, movies, tv, 10, 8-9, low)", Value: "all"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.RatingsList,
			},
			{
				Name:      "rate",
				Usage:     "Rate a title by catalog id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "score", Aliases: []string{"s"}, Usage: "Score from 1 to 10", Required: true},
					&cli.StringFlag{Name: "comment", Usage: "Optional comment"},
					&cli.StringFlag{Name: "type", Usage: "Media type (movie or tv)", Value: "movie"},
				},
				Action: r.RatingsRate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a rating by catalog id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.RatingsDelete,
			},
			{
				Name:   "stats",
				Usage:  "Show aggregate statistics",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.RatingsStats,
			},
			{
				Name:  "export",
				Usage: "Export the full library as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
				},
				Action: r.RatingsExport,
			},
		},
	}
}

// watchlistCommand handles the watchlist
func watchlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watchlist",
		Usage: "Manage your watchlist",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List watchlist entries",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.WatchlistList,
			},
			{
				Name:      "add",
				Usage:     "Add a title by catalog id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "Media type (movie or tv)", Value: "movie"},
				},
				Action: r.WatchlistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a title by catalog id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.WatchlistRemove,
			},
			{
				Name:      "check",
				Usage:     "Check whether a title is on the watchlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.WatchlistCheck,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
