package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conorfennell/spacedrep/internal/domain"
)

// Store is what Apply needs from storage.DB.
type Store interface {
	ListLabels(ctx context.Context) ([]domain.Label, error)
	CreateLabel(ctx context.Context, name, color string) (*domain.Label, error)
	ListContents(ctx context.Context) ([]domain.ContentView, error)
	CreateContent(ctx context.Context, title string, labelID int64) (*domain.Content, error)
}

// Result summarises an import.
type Result struct {
	LabelsCreated   int
	LabelsReused    int
	ContentsCreated int
	Skipped         int
	Errors          []error
}

type contentKey struct {
	labelID int64
	title   string
}

// Apply creates the labels and contents of o. Labels are matched by exact
// name and reused; an item whose title already exists under the same label is
// skipped, so importing a file twice creates nothing new. Failures on single
// items are collected in Result.Errors and do not stop the import.
func Apply(ctx context.Context, store Store, o *Outline) (*Result, error) {
	res := &Result{Errors: append([]error(nil), o.Errors...)}

	labels, err := store.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	labelIDs := make(map[string]int64, len(labels))
	for _, l := range labels {
		labelIDs[l.Name] = l.ID
	}

	views, err := store.ListContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	existing := make(map[contentKey]bool, len(views))
	for _, v := range views {
		existing[contentKey{v.LabelID, v.Title}] = true
	}

	// counted holds the labels already tallied as created or reused, so a
	// heading repeated in the outline is not counted twice.
	counted := make(map[string]bool, len(o.Sections))
	for _, section := range o.Sections {
		labelID, ok := labelIDs[section.Label]
		switch {
		case !ok:
			label, err := store.CreateLabel(ctx, section.Label, section.Color)
			if err != nil {
				res.Errors = append(res.Errors, &LineError{Line: section.Line, Msg: err.Error()})
				continue
			}
			slog.Info("label created", "name", label.Name, "id", label.ID)
			labelID = label.ID
			labelIDs[section.Label] = labelID
			res.LabelsCreated++
		case !counted[section.Label]:
			res.LabelsReused++
		}
		counted[section.Label] = true

		for _, item := range section.Items {
			key := contentKey{labelID, item.Title}
			if existing[key] {
				res.Skipped++
				continue
			}
			if _, err := store.CreateContent(ctx, item.Title, labelID); err != nil {
				res.Errors = append(res.Errors, &LineError{Line: item.Line, Msg: err.Error()})
				continue
			}
			existing[key] = true
			res.ContentsCreated++
		}
	}

	slog.Info("import complete",
		"labels_created", res.LabelsCreated,
		"labels_reused", res.LabelsReused,
		"contents_created", res.ContentsCreated,
		"skipped", res.Skipped,
		"errors", len(res.Errors),
	)
	return res, nil
}
