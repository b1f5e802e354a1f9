// root.go viper root command code
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/clearsky/wxcore/cmd/authors"
	"github.com/clearsky/wxcore/cmd/backup"
	"github.com/clearsky/wxcore/cmd/license"
	"github.com/clearsky/wxcore/cmd/observe"
	"github.com/clearsky/wxcore/cmd/restore"
	"github.com/clearsky/wxcore/cmd/serve"
	"github.com/clearsky/wxcore/cmd/version"
	"github.com/clearsky/wxcore/internal/buildinfo"
	"github.com/clearsky/wxcore/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, build buildinfo.BuildInfo) *cobra.Command {
	// Create the root command
	rootCmd := &cobra.Command{
		Use:   "wxcore",
		Short: "Weather inference core station CLI",
	}

	// Set up the global flags for the root command.
	err := setupFlags(rootCmd, settings)
	if err != nil {
		log.Printf("error setting up flags: %v\n", err)
	}

	// Add sub-commands to the root command.
	serveCmd := serve.Command(settings, build)
	observeCmd := observe.Command(settings)
	authorsCmd := authors.Command(settings)
	licenseCmd := license.Command()
	backupCmd := backup.Command(settings)
	restoreCmd := restore.Command(settings)
	versionCmd := version.Command(build)

	subcommands := []*cobra.Command{
		serveCmd,
		observeCmd,
		authorsCmd,
		licenseCmd,
		backupCmd,
		restoreCmd,
		versionCmd,
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Skip setup for authors, license, and version commands
		if cmd.Name() != authorsCmd.Name() && cmd.Name() != licenseCmd.Name() && cmd.Name() != versionCmd.Name() {
			if err := initialize(); err != nil {
				return fmt.Errorf("error initializing: %w", err)
			}
		}

		return nil
	}

	return rootCmd
}

// initialize is called before any subcommands are run, but after the context is ready
// This function is responsible for setting up configurations, ensuring the environment is ready, etc.
func initialize() error {
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Station.NodeID, "node-id", viper.GetString("station.nodeid"), "Station node identifier")
	rootCmd.PersistentFlags().StringVar(&settings.Station.Name, "name", viper.GetString("station.name"), "Human-friendly station name")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.Latitude, "latitude", viper.GetFloat64("station.latitude"), "Station latitude, degrees")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.Longitude, "longitude", viper.GetFloat64("station.longitude"), "Station longitude, degrees")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.AltitudeM, "altitude", viper.GetFloat64("station.altitudem"), "Station altitude above sea level, meters")
	rootCmd.PersistentFlags().StringVar(&settings.Station.UnitsOut, "units", viper.GetString("station.unitsout"), "Output units, \"metric\" or \"imperial\"")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
