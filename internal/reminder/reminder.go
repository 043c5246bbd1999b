// Package reminder sends a daily digest of the reviews that are due.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/go-co-op/gocron"
)

// Store provides the reviews due today.
type Store interface {
	DueToday(ctx context.Context) ([]domain.DueReview, error)
}

// Notifier delivers a digest of due reviews.
type Notifier interface {
	Notify(ctx context.Context, due []domain.DueReview) error
}

// LogNotifier writes the digest to a structured logger.
type LogNotifier struct {
	Log *slog.Logger
}

// Notify logs one summary line and one line per due review.
func (n LogNotifier) Notify(ctx context.Context, due []domain.DueReview) error {
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "reviews due", "count", len(due))
	for _, r := range due {
		log.InfoContext(ctx, "review due",
			"content_id", r.ContentID,
			"title", r.Title,
			"label", r.LabelName,
			"kind", r.Kind.String(),
			"scheduled", r.ScheduledDate.String(),
		)
	}
	return nil
}

// Reminder runs the digest once a day at a fixed local time.
type Reminder struct {
	store     Store
	notifier  Notifier
	at        string
	scheduler *gocron.Scheduler
	log       *slog.Logger
}

// New creates a reminder that fires every day at at (HH:MM, local time).
func New(store Store, notifier Notifier, at string, log *slog.Logger) *Reminder {
	if log == nil {
		log = slog.Default()
	}
	return &Reminder{
		store:     store,
		notifier:  notifier,
		at:        at,
		scheduler: gocron.NewScheduler(time.Local),
		log:       log,
	}
}

// Start schedules the daily job and returns immediately.
func (r *Reminder) Start(ctx context.Context) error {
	_, err := r.scheduler.Every(1).Day().At(r.at).Do(func() {
		if _, err := r.Check(ctx); err != nil {
			r.log.Error("reminder check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder at %s: %w", r.at, err)
	}

	r.scheduler.StartAsync()
	_, next := r.scheduler.NextRun()
	r.log.Info("reminder scheduled", "at", r.at, "next_run", next)
	return nil
}

// Stop terminates the scheduled job.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Check runs one digest pass and returns the number of due reviews.
// The notifier is not called when nothing is due.
func (r *Reminder) Check(ctx context.Context) (int, error) {
	due, err := r.store.DueToday(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list due reviews: %w", err)
	}
	if len(due) == 0 {
		r.log.Debug("no reviews due")
		return 0, nil
	}
	if err := r.notifier.Notify(ctx, due); err != nil {
		return len(due), fmt.Errorf("failed to send reminder: %w", err)
	}
	return len(due), nil
}
