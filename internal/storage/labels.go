package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/jmoiron/sqlx"
)

type labelInput struct {
	Name  string `validate:"required"`
	Color string
}

// CreateLabel inserts a new label. It fails with ErrDuplicateName if a label
// with the same (case-sensitive) name already exists.
func (db *DB) CreateLabel(ctx context.Context, name, color string) (*domain.Label, error) {
	if err := db.check(labelInput{Name: name, Color: color}); err != nil {
		return nil, err
	}

	label := &domain.Label{Name: name, Color: color, CreatedAt: db.now()}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureNameFree(ctx, tx, name, 0); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO labels (name, color, created_at)
			VALUES (?, ?, ?)
		`, label.Name, label.Color, label.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", ErrDuplicateName, name)
			}
			return fmt.Errorf("failed to insert label %q: %w", name, err)
		}

		label.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID for label %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.log.Debug("label created", "id", label.ID, "name", label.Name)
	return label, nil
}

// ListLabels returns every label ordered by name.
func (db *DB) ListLabels(ctx context.Context) ([]domain.Label, error) {
	labels := []domain.Label{}
	err := db.conn.SelectContext(ctx, &labels, `
		SELECT id, name, color, created_at
		FROM labels
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// GetLabel retrieves a label by id. It returns (nil, nil) if there is none.
func (db *DB) GetLabel(ctx context.Context, id int64) (*domain.Label, error) {
	var label domain.Label
	err := db.conn.GetContext(ctx, &label, `
		SELECT id, name, color, created_at
		FROM labels WHERE id = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get label %d: %w", id, err)
	}
	return &label, nil
}

// UpdateLabel replaces the name and color of a label. Its creation time and
// contents are untouched.
func (db *DB) UpdateLabel(ctx context.Context, id int64, name, color string) error {
	if err := db.check(labelInput{Name: name, Color: color}); err != nil {
		return err
	}

	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := labelExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrLabelNotFound
		}
		if err := ensureNameFree(ctx, tx, name, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE labels
			SET name = ?, color = ?
			WHERE id = ?
		`, name, color, id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", ErrDuplicateName, name)
			}
			return fmt.Errorf("failed to update label %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.log.Debug("label updated", "id", id, "name", name)
	return nil
}

// DeleteLabel removes a label. It fails with a *LabelInUseError carrying the
// number of dependent contents if any content still uses the label.
func (db *DB) DeleteLabel(ctx context.Context, id int64) error {
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := labelExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrLabelNotFound
		}

		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM contents WHERE label_id = ?`, id); err != nil {
			return fmt.Errorf("failed to count contents for label %d: %w", id, err)
		}
		if count > 0 {
			return &LabelInUseError{LabelID: id, Count: count}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete label %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.log.Debug("label deleted", "id", id)
	return nil
}

func labelExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM labels WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to look up label %d: %w", id, err)
	}
	return n > 0, nil
}

// ensureNameFree fails with ErrDuplicateName if another label (other than
// exceptID) already has name.
func ensureNameFree(ctx context.Context, tx *sqlx.Tx, name string, exceptID int64) error {
	var n int
	err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM labels WHERE name = ? AND id <> ?`, name, exceptID)
	if err != nil {
		return fmt.Errorf("failed to check label name %q: %w", name, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}
