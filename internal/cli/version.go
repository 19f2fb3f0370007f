package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

// printVersionInfo prints a single machine-parseable line to stdout.
// It backs the root --version flag.
func printVersionInfo() {
	fmt.Println(versionString())
}

func versionString() string {
	return fmt.Sprintf("teachload %s (%s, %s) %s/%s", version, commit, date, runtime.GOOS, runtime.GOARCH)
}
