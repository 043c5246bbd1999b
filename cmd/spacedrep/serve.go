package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/conorfennell/spacedrep/internal/export"
	"github.com/conorfennell/spacedrep/internal/importer"
	"github.com/conorfennell/spacedrep/internal/reminder"
	"github.com/conorfennell/spacedrep/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	var remind bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			if remind {
				r := reminder.New(s, reminder.LogNotifier{Log: slog.Default()}, a.cfg.RemindAt, slog.Default())
				if err := r.Start(ctx); err != nil {
					return err
				}
				defer r.Stop()
			}

			if a.cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           web.NewServer(s, slog.Default()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", "addr", a.cfg.Addr, "db", a.cfg.DBPath())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&remind, "remind", false, "also run the daily review digest")
	return cmd
}

func (a *app) remindCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Log a digest of due reviews every day at --remind-at",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			r := reminder.New(s, reminder.LogNotifier{Log: slog.Default()}, a.cfg.RemindAt, slog.Default())
			if once {
				n, err := r.Check(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%d review(s) due today\n", n)
				return nil
			}

			if err := r.Start(ctx); err != nil {
				return err
			}
			defer r.Stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single check and exit")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all contents to .xlsx or .csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			views, err := s.ListContents(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := export.Write(f, args[0], views); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Exported %d content(s) to %s\n", len(views), args[0])
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import labels and contents from a markdown outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outline, err := importer.ParseFile(args[0])
			if err != nil {
				return err
			}

			s, err := a.store()
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := importer.Apply(cmd.Context(), s, outline)
			if err != nil {
				return err
			}

			fmt.Printf("Labels: %d created, %d reused. Contents: %d created, %d skipped.\n",
				res.LabelsCreated, res.LabelsReused, res.ContentsCreated, res.Skipped)
			if len(res.Errors) > 0 {
				fmt.Println("\nErrors:")
				for _, e := range res.Errors {
					fmt.Printf("- %s\n", e)
				}
			}
			return nil
		},
	}
}
