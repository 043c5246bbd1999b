package domain

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"fmt"
	"time"
)

// ReviewKind identifies one of the four fixed review reminders of a content.
type ReviewKind int

const (
	NextDay     ReviewKind = iota + 1 // creation date + 1 day
	OneWeek                           // creation date + 7 days
	OneMonth                          // creation date + 30 days
	ThreeMonths                       // creation date + 90 days
)

// ReviewKinds lists every kind in schedule order.
var ReviewKinds = [...]ReviewKind{NextDay, OneWeek, OneMonth, ThreeMonths}

var (
	kindTokens = [...]string{
		NextDay:     "next_day",
		OneWeek:     "one_week",
		OneMonth:    "one_month",
		ThreeMonths: "three_months",
	}
	kindByToken = map[string]ReviewKind{
		"next_day":     NextDay,
		"one_week":     OneWeek,
		"one_month":    OneMonth,
		"three_months": ThreeMonths,
	}
)

var (
	_ fmt.Stringer             = ReviewKind(0)
	_ encoding.TextMarshaler   = ReviewKind(0)
	_ encoding.TextUnmarshaler = (*ReviewKind)(nil)
	_ driver.Valuer            = ReviewKind(0)
	_ sql.Scanner              = (*ReviewKind)(nil)
)

// ParseReviewKind converts a wire token such as "one_week" into a ReviewKind.
func ParseReviewKind(s string) (ReviewKind, error) {
	k, ok := kindByToken[s]
	if !ok {
		return 0, fmt.Errorf("invalid review kind: %q", s)
	}
	return k, nil
}

// Valid reports whether k is one of the four defined kinds.
func (k ReviewKind) Valid() bool {
	return k >= NextDay && k <= ThreeMonths
}

// String returns the wire token ("next_day", ...). For invalid values it
// returns "ReviewKind(n)".
func (k ReviewKind) String() string {
	if k.Valid() {
		return kindTokens[k]
	}
	return fmt.Sprintf("ReviewKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ReviewKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid review kind: %d", int(k))
	}
	return []byte(kindTokens[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ReviewKind) UnmarshalText(text []byte) error {
	v, err := ParseReviewKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Value implements driver.Valuer so that only valid tokens reach the database.
func (k ReviewKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid review kind: %d", int(k))
	}
	return kindTokens[k], nil
}

// Scan implements sql.Scanner.
func (k *ReviewKind) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return k.UnmarshalText([]byte(v))
	case []byte:
		return k.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into ReviewKind", src)
	}
}

// ReviewStatus is the state of one review as seen from its content.
type ReviewStatus struct {
	ScheduledDate Date       `json:"scheduled_date"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// Review is a single scheduled reminder row.
type Review struct {
	ID            int64        `db:"id" json:"id"`
	ContentID     int64        `db:"content_id" json:"content_id"`
	Kind          ReviewKind   `db:"review_type" json:"review_type"`
	ScheduledDate Date         `db:"scheduled_date" json:"scheduled_date"`
	Completed     bool         `db:"completed" json:"completed"`
	CompletedAt   sql.NullTime `db:"completed_at" json:"-"`
}

// Status projects the row onto its ReviewStatus.
func (r Review) Status() ReviewStatus {
	st := ReviewStatus{ScheduledDate: r.ScheduledDate, Completed: r.Completed}
	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time
		st.CompletedAt = &t
	}
	return st
}

// DueReview is a pending review joined with its content and label.
type DueReview struct {
	ReviewID      int64        `db:"review_id" json:"review_id"`
	ContentID     int64        `db:"content_id" json:"content_id"`
	Title         string       `db:"title" json:"title"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	LabelID       int64        `db:"label_id" json:"label_id"`
	LabelName     string       `db:"label_name" json:"label_name"`
	LabelColor    string       `db:"label_color" json:"label_color"`
	Kind          ReviewKind   `db:"review_type" json:"review_type"`
	ScheduledDate Date         `db:"scheduled_date" json:"scheduled_date"`
	Completed     bool         `db:"completed" json:"completed"`
	CompletedAt   sql.NullTime `db:"completed_at" json:"-"`
}
