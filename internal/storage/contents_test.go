package storage

import (
	"context"
	"regexp"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLabel(t *testing.T, db *DB, name string) *domain.Label {
	t.Helper()
	label, err := db.CreateLabel(context.Background(), name, "#FFFF00")
	require.NoError(t, err)
	return label
}

func TestCreateContentSchedulesFourReviews(t *testing.T) {
	ctx := context.Background()
	db, clock := openTestDB(t)
	math := createLabel(t, db, "Math")

	content, err := db.CreateContent(ctx, "Quadratic Equations", math.ID)
	require.NoError(t, err)
	assert.NotZero(t, content.ID)
	assert.Equal(t, math.ID, content.LabelID)
	assert.True(t, content.CreatedAt.Equal(clock.Now()))

	expected := map[domain.ReviewKind]string{
		domain.NextDay:     "2024-01-02",
		domain.OneWeek:     "2024-01-08",
		domain.OneMonth:    "2024-01-31",
		domain.ThreeMonths: "2024-03-31",
	}
	require.Len(t, content.ReviewDates, 4)
	for kind, want := range expected {
		assert.Equal(t, want, content.ReviewDates[kind].String(), kind.String())
	}

	reviews, err := reviewsOf(ctx, db.conn, content.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 4)
	for _, r := range reviews {
		assert.Equal(t, expected[r.Kind], r.ScheduledDate.String())
		assert.False(t, r.Completed)
		assert.False(t, r.CompletedAt.Valid)
	}
}

func TestCreateContentWithUnknownLabelWritesNothing(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	_, err := db.CreateContent(ctx, "Orphan", 42)
	assert.ErrorIs(t, err, ErrLabelNotFound)
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM contents`))
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM reviews`))
}

func TestCreateContentRequiresTitle(t *testing.T) {
	db, _ := openTestDB(t)
	math := createLabel(t, db, "Math")

	_, err := db.CreateContent(context.Background(), "", math.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListContents(t *testing.T) {
	ctx := context.Background()
	db, clock := openTestDB(t)
	math := createLabel(t, db, "Math")
	physics := createLabel(t, db, "Physics")

	_, err := db.CreateContent(ctx, "Quadratic Equations", math.ID)
	require.NoError(t, err)
	clock.Set(at(2024, time.January, 5))
	_, err = db.CreateContent(ctx, "Newton's Laws", physics.ID)
	require.NoError(t, err)

	views, err := db.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	newest := views[0]
	assert.Equal(t, "Newton's Laws", newest.Title)
	assert.Equal(t, physics.ID, newest.LabelID)
	assert.Equal(t, "Physics", newest.LabelName)
	assert.Equal(t, "#FFFF00", newest.LabelColor)
	require.Len(t, newest.Reviews, 4)
	assert.Equal(t, "2024-01-06", newest.Reviews[domain.NextDay].ScheduledDate.String())
	for _, st := range newest.Reviews {
		assert.False(t, st.Completed)
		assert.Nil(t, st.CompletedAt)
	}

	assert.Equal(t, "Quadratic Equations", views[1].Title)
	assert.Equal(t, "Math", views[1].LabelName)
	assert.Equal(t, "2024-03-31", views[1].Reviews[domain.ThreeMonths].ScheduledDate.String())
}

func TestListContentsSameInstantNewestIDFirst(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	math := createLabel(t, db, "Math")

	first, err := db.CreateContent(ctx, "First", math.ID)
	require.NoError(t, err)
	second, err := db.CreateContent(ctx, "Second", math.ID)
	require.NoError(t, err)

	views, err := db.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)
}

func TestGetContent(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	math := createLabel(t, db, "Math")

	created, err := db.CreateContent(ctx, "Quadratic Equations", math.ID)
	require.NoError(t, err)

	view, err := db.GetContent(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Quadratic Equations", view.Title)
	assert.Equal(t, "Math", view.LabelName)
	require.Len(t, view.Reviews, 4)
	for kind, date := range created.ReviewDates {
		assert.Equal(t, date, view.Reviews[kind].ScheduledDate)
	}

	missing, err := db.GetContent(ctx, created.ID+1)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateContentLeavesReviewsAlone(t *testing.T) {
	ctx := context.Background()
	db, clock := openTestDB(t)
	math := createLabel(t, db, "Math")
	physics := createLabel(t, db, "Physics")

	created, err := db.CreateContent(ctx, "Quadratic Equations", math.ID)
	require.NoError(t, err)
	_, err = db.CompleteReview(ctx, created.ID, domain.NextDay)
	require.NoError(t, err)

	clock.Set(at(2024, time.June, 1))
	require.NoError(t, db.UpdateContent(ctx, created.ID, "Projectile Motion", physics.ID))

	view, err := db.GetContent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Projectile Motion", view.Title)
	assert.Equal(t, "Physics", view.LabelName)
	assert.True(t, view.CreatedAt.Equal(created.CreatedAt))
	for kind, date := range created.ReviewDates {
		assert.Equal(t, date, view.Reviews[kind].ScheduledDate, kind.String())
	}
	assert.True(t, view.Reviews[domain.NextDay].Completed)
	assert.Equal(t, 4, countRows(t, db, `SELECT COUNT(*) FROM reviews WHERE content_id = ?`, created.ID))
}

func TestUpdateContentErrors(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	math := createLabel(t, db, "Math")
	created, err := db.CreateContent(ctx, "Quadratic Equations", math.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, db.UpdateContent(ctx, created.ID+10, "Nope", math.ID), ErrContentNotFound)
	assert.ErrorIs(t, db.UpdateContent(ctx, created.ID, "Nope", math.ID+10), ErrLabelNotFound)
	assert.ErrorIs(t, db.UpdateContent(ctx, created.ID, "", math.ID), ErrInvalidInput)

	view, err := db.GetContent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quadratic Equations", view.Title)
}

func TestDeleteContentCascadesToReviews(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	math := createLabel(t, db, "Math")

	doomed, err := db.CreateContent(ctx, "Quadratic Equations", math.ID)
	require.NoError(t, err)
	kept, err := db.CreateContent(ctx, "Derivatives", math.ID)
	require.NoError(t, err)

	require.NoError(t, db.DeleteContent(ctx, doomed.ID))

	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM reviews WHERE content_id = ?`, doomed.ID))
	assert.Equal(t, 4, countRows(t, db, `SELECT COUNT(*) FROM reviews WHERE content_id = ?`, kept.ID))

	view, err := db.GetContent(ctx, doomed.ID)
	assert.NoError(t, err)
	assert.Nil(t, view)

	assert.ErrorIs(t, db.DeleteContent(ctx, doomed.ID), ErrContentNotFound)
}

// storedTimestamp matches the text SQLite date functions understand, with a
// numeric UTC offset.
var storedTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?[-+]\d{2}:\d{2}$`)

func rawText(t *testing.T, db *DB, query string, args ...any) string {
	t.Helper()
	var s string
	require.NoError(t, db.conn.GetContext(context.Background(), &s, query, args...))
	return s
}

func TestTimestampsAreStoredWithOffset(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	// The real clock carries a monotonic reading that must not reach the database.
	db.now = time.Now
	math := createLabel(t, db, "Math")

	content, err := db.CreateContent(ctx, "Quadratic Equations", math.ID)
	require.NoError(t, err)
	_, err = db.CompleteReview(ctx, content.ID, domain.NextDay)
	require.NoError(t, err)

	testCases := []struct {
		query string
		id    int64
	}{
		{`SELECT CAST(created_at AS TEXT) FROM labels WHERE id = ?`, math.ID},
		{`SELECT CAST(created_at AS TEXT) FROM contents WHERE id = ?`, content.ID},
		{`SELECT CAST(completed_at AS TEXT) FROM reviews WHERE content_id = ? AND review_type = 'next_day'`, content.ID},
	}
	for _, tc := range testCases {
		text := rawText(t, db, tc.query, tc.id)
		assert.Regexp(t, storedTimestamp, text, tc.query)
		assert.NotContains(t, text, "m=", tc.query)
	}

	view, err := db.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.True(t, view.CreatedAt.Equal(content.CreatedAt))
}

func TestListContentsOrdersByInstantAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ctx := context.Background()
	db, clock := openTestDB(t)
	math := createLabel(t, db, "Math")

	// 01:30 EDT, then 01:10 EST forty minutes later: the wall clock goes back.
	earlier := time.Date(2024, time.November, 3, 1, 30, 0, 0, ny)
	later := earlier.Add(40 * time.Minute)
	require.Equal(t, 1, later.Hour())
	require.Equal(t, 10, later.Minute())

	clock.Set(earlier)
	_, err = db.CreateContent(ctx, "Earlier", math.ID)
	require.NoError(t, err)
	clock.Set(later)
	_, err = db.CreateContent(ctx, "Later", math.ID)
	require.NoError(t, err)

	views, err := db.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Later", views[0].Title)
	assert.Equal(t, "Earlier", views[1].Title)
	assert.True(t, views[0].CreatedAt.Equal(later))
}
