package domain

import "time"

// Label is a named, colored tag grouping contents by subject.
type Label struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Content is a study topic tracked for spaced review.
// ReviewDates is only populated on creation.
type Content struct {
	ID          int64               `db:"id" json:"id"`
	Title       string              `db:"title" json:"title"`
	LabelID     int64               `db:"label_id" json:"label_id"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	ReviewDates map[ReviewKind]Date `db:"-" json:"review_dates,omitempty"`
}

// ContentView is a content joined with its label and the state of its reviews.
type ContentView struct {
	ID         int64                       `db:"id" json:"id"`
	Title      string                      `db:"title" json:"title"`
	CreatedAt  time.Time                   `db:"created_at" json:"created_at"`
	LabelID    int64                       `db:"label_id" json:"label_id"`
	LabelName  string                      `db:"label_name" json:"label_name"`
	LabelColor string                      `db:"label_color" json:"label_color"`
	Reviews    map[ReviewKind]ReviewStatus `db:"-" json:"reviews"`
}

// Statistics summarises the store.
type Statistics struct {
	TotalContents    int `db:"total_contents" json:"total_contents"`
	TotalLabels      int `db:"total_labels" json:"total_labels"`
	PendingToday     int `db:"pending_today" json:"pending_today"`
	CompletedReviews int `db:"completed_reviews" json:"completed_reviews"`
	TotalReviews     int `db:"total_reviews" json:"total_reviews"`
}
