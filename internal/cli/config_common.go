package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/icar17/teachload/internal/config"
	"github.com/icar17/teachload/pkg/teachload"
)

// loadProjectConfig loads .env into the environment and reads teachload.yaml
// from dir. Returns nil config if teachload.yaml does not exist (not an error).
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if dir == "" {
		dir = "."
	}
	projectCfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", config.ConfigFileName, err, teachload.ErrInvalidConfig)
	}
	return projectCfg, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring
// teachload.yaml if the flag wasn't set.
func resolveEffectiveTimeout(
	cmd *cobra.Command,
	projectCfg *config.ProjectConfig,
	flagTimeout time.Duration,
) (time.Duration, error) {
	if projectCfg != nil && !cmd.Flags().Changed("timeout") {
		parsed, err := projectCfg.TimeoutDuration()
		if err != nil {
			return 0, fmt.Errorf("%s: %w: %w", config.ConfigFileName, err, teachload.ErrInvalidConfig)
		}
		if parsed > 0 {
			return parsed, nil
		}
	}
	return flagTimeout, nil
}

// resolveDelimiter returns the CSV delimiter: --delimiter, then
// teachload.yaml, then the default comma.
func resolveDelimiter(
	cmd *cobra.Command,
	projectCfg *config.ProjectConfig,
	flagDelimiter string,
) (rune, error) {
	if cmd.Flags().Changed("delimiter") {
		r, err := config.ParseDelimiter(flagDelimiter)
		if err != nil {
			return 0, fmt.Errorf("--delimiter: %w: %w", err, teachload.ErrInvalidConfig)
		}
		if r != 0 {
			return r, nil
		}
	}
	if projectCfg != nil {
		r, err := projectCfg.DelimiterRune()
		if err != nil {
			return 0, fmt.Errorf("%s: %w: %w", config.ConfigFileName, err, teachload.ErrInvalidConfig)
		}
		if r != 0 {
			return r, nil
		}
	}
	return teachload.DefaultDelimiter, nil
}

// newRunContext bounds parent by timeout and cancels it on SIGINT or SIGTERM.
func newRunContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, stopping after the current record...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
