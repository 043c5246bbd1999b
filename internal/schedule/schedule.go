// Package schedule derives the fixed review dates of a content.
package schedule

import (
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
)

// offsets holds the number of calendar days between creation and each review.
// One month and three months are fixed day counts, not calendar months.
var offsets = map[domain.ReviewKind]int{
	domain.NextDay:     1,
	domain.OneWeek:     7,
	domain.OneMonth:    30,
	domain.ThreeMonths: 90,
}

// Offset returns the number of days after creation at which kind falls due.
// It returns 0 for an invalid kind.
func Offset(kind domain.ReviewKind) int {
	return offsets[kind]
}

// ReviewDates computes the scheduled date of every review kind for a content
// created at createdAt. Only the calendar date of createdAt, taken in its own
// location, is used.
func ReviewDates(createdAt time.Time) map[domain.ReviewKind]domain.Date {
	day := domain.DateOf(createdAt)
	dates := make(map[domain.ReviewKind]domain.Date, len(domain.ReviewKinds))
	for _, kind := range domain.ReviewKinds {
		dates[kind] = day.AddDays(offsets[kind])
	}
	return dates
}

// IsDue reports whether a review scheduled on scheduled is due on day on.
// Reviews stay due from their scheduled date until completed.
func IsDue(scheduled, on domain.Date) bool {
	return !scheduled.After(on)
}
