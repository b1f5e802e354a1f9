// Package serve provides the serve command, which runs the station as a
// long-running daemon exposing the observe/forecast HTTP API.
package serve

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/clearsky/wxcore/internal/api"
	"github.com/clearsky/wxcore/internal/buildinfo"
	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/datastore"
	"github.com/clearsky/wxcore/internal/httpserver"
)

// Command creates a new command that runs the station's HTTP API until
// interrupted.
func Command(settings *conf.Settings, build buildinfo.BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the station as a long-running HTTP service",
		Long:  "Starts the observe/forecast REST API and serves requests until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings, build)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		log.Printf("error setting up flags: %v\n", err)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().BoolVar(&settings.HTTP.Enabled, "http", viper.GetBool("http.enabled"), "Enable the HTTP API")
	cmd.Flags().StringVar(&settings.HTTP.Port, "port", viper.GetString("http.port"), "Port for the HTTP API")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

// run wires up the datastore and HTTP server and blocks until a shutdown
// signal is received.
func run(settings *conf.Settings, build buildinfo.BuildInfo) error {
	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			log.Printf("error closing datastore: %v", err)
		}
	}()

	server, err := api.New(settings, api.WithDataStore(ds), api.WithBuildInfo(build))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return serveUntilInterrupted(server)
}

// serveUntilInterrupted starts srv, blocks until SIGINT/SIGTERM, and shuts
// it down gracefully. It is expressed against the httpserver.Server
// interface rather than *api.Server so the command layer doesn't need to
// know about Echo, TLS, or any other transport detail.
func serveUntilInterrupted(srv httpserver.Server) error {
	srv.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutdown signal received, stopping HTTP server")

	return srv.Shutdown()
}
