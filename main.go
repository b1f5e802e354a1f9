// Command wxcore runs the weather inference core station: a CLI for
// one-shot observations and backup/restore maintenance, and a long-running
// HTTP service exposing the observe/forecast REST API.
package main

import (
	"log"
	"os"

	"github.com/clearsky/wxcore/cmd"
	"github.com/clearsky/wxcore/internal/buildinfo"
	"github.com/clearsky/wxcore/internal/conf"
)

// version and buildDate are set via -ldflags "-X main.version=... -X main.buildDate=..."
// at release build time; left at their defaults for local/dev builds.
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	build := &buildinfo.Context{
		Version:   version,
		BuildDate: buildDate,
		SystemID:  settings.Station.NodeID,
	}

	rootCmd := cmd.RootCommand(settings, build)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
