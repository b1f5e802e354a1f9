// Package version provides the version command, printing the build-time
// metadata injected into the binary at release build time.
package version

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/clearsky/wxcore/internal/buildinfo"
)

// Command creates a new cobra.Command that prints the binary's build
// metadata: version, build date, and the station's configured node ID.
func Command(build buildinfo.BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Long:  "Prints the version, build date, and station node ID this binary was built and configured with.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("wxcore %s (built %s), node %s\n",
				build.GetVersion(), build.GetBuildDate(), build.GetSystemID())
			return nil
		},
	}

	return cmd
}
