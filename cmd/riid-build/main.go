// Package main provides the entry point for the riid-build CLI.
package main

import (
	"context"
	"os"

	"github.com/UsatovPavel/RIID/internal/cli"
)

// Set at build time via ldflags.
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(ctx, info, os.Args[1:]); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
