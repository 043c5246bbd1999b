package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/conorfennell/spacedrep/internal/schedule"
	"github.com/jmoiron/sqlx"
)

type contentInput struct {
	Title   string `validate:"required"`
	LabelID int64  `validate:"required"`
}

const contentViewColumns = `
	c.id, c.title, c.created_at,
	l.id AS label_id, l.name AS label_name, l.color AS label_color
`

// CreateContent inserts a content and its four scheduled reviews in a single
// transaction and returns the content together with its review dates.
func (db *DB) CreateContent(ctx context.Context, title string, labelID int64) (*domain.Content, error) {
	if err := db.check(contentInput{Title: title, LabelID: labelID}); err != nil {
		return nil, err
	}

	content := &domain.Content{Title: title, LabelID: labelID, CreatedAt: db.now()}
	content.ReviewDates = schedule.ReviewDates(content.CreatedAt)

	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := labelExists(ctx, tx, labelID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrLabelNotFound
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO contents (title, label_id, created_at)
			VALUES (?, ?, ?)
		`, content.Title, content.LabelID, content.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert content %q: %w", title, err)
		}
		content.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID for content %q: %w", title, err)
		}

		for _, kind := range domain.ReviewKinds {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO reviews (content_id, review_type, scheduled_date)
				VALUES (?, ?, ?)
			`, content.ID, kind.String(), content.ReviewDates[kind].String())
			if err != nil {
				return fmt.Errorf("failed to schedule %s review for content %d: %w", kind, content.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.log.Debug("content created", "id", content.ID, "title", content.Title, "label_id", content.LabelID)
	return content, nil
}

// ListContents returns every content with its label and review states,
// newest first.
func (db *DB) ListContents(ctx context.Context) ([]domain.ContentView, error) {
	views := []domain.ContentView{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.SelectContext(ctx, &views, `
			SELECT `+contentViewColumns+`
			FROM contents c
			JOIN labels l ON c.label_id = l.id
			ORDER BY julianday(c.created_at) DESC, c.id DESC
		`)
		if err != nil {
			return fmt.Errorf("failed to list contents: %w", err)
		}

		var reviews []domain.Review
		err = tx.SelectContext(ctx, &reviews, `
			SELECT id, content_id, review_type, scheduled_date, completed, completed_at
			FROM reviews
			ORDER BY content_id, scheduled_date
		`)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}

		byContent := make(map[int64]map[domain.ReviewKind]domain.ReviewStatus, len(views))
		for _, r := range reviews {
			if byContent[r.ContentID] == nil {
				byContent[r.ContentID] = make(map[domain.ReviewKind]domain.ReviewStatus, len(domain.ReviewKinds))
			}
			byContent[r.ContentID][r.Kind] = r.Status()
		}
		for i := range views {
			views[i].Reviews = byContent[views[i].ID]
			if views[i].Reviews == nil {
				views[i].Reviews = map[domain.ReviewKind]domain.ReviewStatus{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetContent returns one content with its label and review states.
// It returns (nil, nil) if there is no content with that id.
func (db *DB) GetContent(ctx context.Context, id int64) (*domain.ContentView, error) {
	var view *domain.ContentView
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		var v domain.ContentView
		err := tx.GetContext(ctx, &v, `
			SELECT `+contentViewColumns+`
			FROM contents c
			JOIN labels l ON c.label_id = l.id
			WHERE c.id = ?
		`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to get content %d: %w", id, err)
		}

		reviews, err := reviewsOf(ctx, tx, id)
		if err != nil {
			return err
		}
		v.Reviews = make(map[domain.ReviewKind]domain.ReviewStatus, len(reviews))
		for _, r := range reviews {
			v.Reviews[r.Kind] = r.Status()
		}
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateContent changes the title and label of a content. Its reviews keep
// their original schedule.
func (db *DB) UpdateContent(ctx context.Context, id int64, title string, labelID int64) error {
	if err := db.check(contentInput{Title: title, LabelID: labelID}); err != nil {
		return err
	}

	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM contents WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to look up content %d: %w", id, err)
		}
		if n == 0 {
			return ErrContentNotFound
		}

		exists, err := labelExists(ctx, tx, labelID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrLabelNotFound
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE contents
			SET title = ?, label_id = ?
			WHERE id = ?
		`, title, labelID, id)
		if err != nil {
			return fmt.Errorf("failed to update content %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.log.Debug("content updated", "id", id, "title", title, "label_id", labelID)
	return nil
}

// DeleteContent removes a content; its reviews are removed with it.
func (db *DB) DeleteContent(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM contents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content %d: %w", id, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrContentNotFound
	}

	db.log.Debug("content deleted", "id", id)
	return nil
}

func reviewsOf(ctx context.Context, q sqlx.QueryerContext, contentID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	err := sqlx.SelectContext(ctx, q, &reviews, `
		SELECT id, content_id, review_type, scheduled_date, completed, completed_at
		FROM reviews
		WHERE content_id = ?
		ORDER BY scheduled_date
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for content %d: %w", contentID, err)
	}
	return reviews, nil
}
