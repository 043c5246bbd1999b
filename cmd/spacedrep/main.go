package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/conorfennell/spacedrep/internal/config"
	"github.com/conorfennell/spacedrep/internal/storage"
	"github.com/spf13/cobra"
)

// app carries what the subcommands share. cfg is set by the root command
// before any subcommand runs.
type app struct {
	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "spacedrep",
		Short:         "Spaced-repetition study tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			setupLogging(cfg.LogLevel)
			return nil
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(a.labelCmd())
	rootCmd.AddCommand(a.contentCmd())
	rootCmd.AddCommand(a.dueCmd())
	rootCmd.AddCommand(a.doneCmd())
	rootCmd.AddCommand(a.statsCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(a.remindCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.importCmd())
	return rootCmd
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}

func (a *app) store() (*storage.DB, error) {
	path := a.cfg.DBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return storage.Open(path, storage.WithLogger(slog.Default()))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
