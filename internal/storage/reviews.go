package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
)

// ListDueReviews returns every pending review scheduled on or before on,
// joined with its content and label, ordered by scheduled date then title.
// Reviews that were not completed on their date keep showing up.
func (db *DB) ListDueReviews(ctx context.Context, on domain.Date) ([]domain.DueReview, error) {
	due := []domain.DueReview{}
	err := db.conn.SelectContext(ctx, &due, `
		SELECT
			r.id AS review_id, c.id AS content_id, c.title, c.created_at,
			l.id AS label_id, l.name AS label_name, l.color AS label_color,
			r.review_type, r.scheduled_date, r.completed, r.completed_at
		FROM reviews r
		JOIN contents c ON r.content_id = c.id
		JOIN labels l ON c.label_id = l.id
		WHERE r.scheduled_date <= ? AND r.completed = 0
		ORDER BY r.scheduled_date, c.title, r.id
	`, on.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews due on %s: %w", on, err)
	}
	return due, nil
}

// DueToday lists the reviews due on the current date.
func (db *DB) DueToday(ctx context.Context) ([]domain.DueReview, error) {
	return db.ListDueReviews(ctx, db.today())
}

// CompleteReview marks the pending review of kind for a content as completed
// and returns the completion instant. A review that is already completed is
// no longer pending, so completing it again fails with ErrReviewNotFound and
// keeps the original completion time.
func (db *DB) CompleteReview(ctx context.Context, contentID int64, kind domain.ReviewKind) (time.Time, error) {
	if !kind.Valid() {
		return time.Time{}, fmt.Errorf("%w: review kind %s", ErrInvalidInput, kind)
	}

	completedAt := db.now()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE reviews
		SET completed = 1, completed_at = ?
		WHERE content_id = ? AND review_type = ? AND completed = 0
	`, completedAt, contentID, kind.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to complete %s review for content %d: %w", kind, contentID, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return time.Time{}, err
	}
	if n == 0 {
		return time.Time{}, ErrReviewNotFound
	}

	db.log.Debug("review completed", "content_id", contentID, "kind", kind.String())
	return completedAt, nil
}

// Statistics returns global counts. PendingToday follows the same rule as
// DueToday.
func (db *DB) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var stats domain.Statistics
	err := db.conn.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM contents) AS total_contents,
			(SELECT COUNT(*) FROM labels) AS total_labels,
			(SELECT COUNT(*) FROM reviews WHERE scheduled_date <= ? AND completed = 0) AS pending_today,
			(SELECT COUNT(*) FROM reviews WHERE completed = 1) AS completed_reviews,
			(SELECT COUNT(*) FROM reviews) AS total_reviews
	`, db.today().String())
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return &stats, nil
}
