package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/icar17/teachload/internal/db"
	"github.com/icar17/teachload/internal/logging"
	"github.com/icar17/teachload/internal/store"
)

type schemaFlagValues struct {
	conn      connectionFlags
	configDir string
	timeout   time.Duration
}

func newSchemaCmd() *cobra.Command {
	var flags schemaFlagValues

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the teaching tables without loading data",
		Long: `Schema creates the eight target tables and their foreign keys if they do not
exist yet. Running it again is harmless. The run command does the same before
its first insert, so calling schema first is optional.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, &flags)
		},
	}

	registerConnectionFlags(cmd, &flags.conn)
	cmd.Flags().StringVar(&flags.configDir, "config-dir", ".",
		"Directory containing teachload.yaml and .env")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", time.Minute,
		"Upper bound for connecting and applying the schema")

	_ = cmd.RegisterFlagCompletionFunc("config-dir", completeDirectories)

	return cmd
}

func runSchema(cmd *cobra.Command, flags *schemaFlagValues) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(flags.configDir)
	if err != nil {
		return err
	}
	connCfg, err := resolveConnection(flags.conn, projectCfg)
	if err != nil {
		return err
	}
	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, flags.timeout)
	if err != nil {
		return err
	}
	logConnectionVerbose(logger, connCfg)

	ctx, cancel := newRunContext(commandContext(cmd), timeout)
	defer cancel()

	pool, err := db.NewStandardConnector(connCfg, logger).Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := store.ApplySchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date in %s.\n", connCfg.Database)
	return nil
}
