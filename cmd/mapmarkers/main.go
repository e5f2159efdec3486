// Package main provides the entry point for the mapmarkers CLI tool.
package main

import (
	"context"
	"os"

	"github.com/NerdNu/mapmarkers/cmd/mapmarkers/app"
)

// Version information populated by the build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancel the run on SIGINT/SIGTERM so a half-applied plan stops cleanly
	// between commands rather than mid-command.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
