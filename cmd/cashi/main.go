package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Xausdorf/cashi/internal/app"
	"github.com/Xausdorf/cashi/internal/infrastructure/config"
)

var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

// newRootCmd logs to logOut at warning level, or debug level with --verbose.
func newRootCmd(logOut io.Writer) *cobra.Command {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))

	var verbose bool
	rootCmd := &cobra.Command{
		Use:           "cashi",
		Short:         "Cashi - send payments and follow transaction history",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log every submission step to stderr")

	rootCmd.AddCommand(payCmd(logger))
	rootCmd.AddCommand(historyCmd(logger))

	return rootCmd
}

func openApp(cmd *cobra.Command, logger *slog.Logger) (*app.App, error) {
	a, err := app.New(cmd.Context(), config.Load(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return a, nil
}
