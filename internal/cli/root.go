package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teachload",
		Short: "Load ICAR/17 teaching assignments into PostgreSQL",
		Long: `teachload reads teaching-assignment exports (CSV or Excel), keeps the rows
of the ICAR/17 sector, and writes the derived reference tables and the
assignment table to PostgreSQL. Existing rows are never modified, so a run
can be repeated safely.

Exit Codes:
  0  - Success (or no file selected)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or input columns missing
  11 - Database connection failed
  12 - Run finished but some records were not persisted
  13 - A source value could not be converted`,
		SilenceUsage: true,
	}

	// -h is taken by --host, as in psql
	cmd.PersistentFlags().Bool("help", false, "Help for teachload")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")

	cmd.AddCommand(newRunCmd(), newSchemaCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// commandContext returns the command's context, which is nil when a
// command function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
