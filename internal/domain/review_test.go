package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReviewKind(t *testing.T) {
	testCases := []struct {
		token   string
		want    ReviewKind
		wantErr bool
	}{
		{token: "next_day", want: NextDay},
		{token: "one_week", want: OneWeek},
		{token: "one_month", want: OneMonth},
		{token: "three_months", want: ThreeMonths},
		{token: "two_weeks", wantErr: true},
		{token: "NEXT_DAY", wantErr: true},
		{token: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			got, err := ParseReviewKind(tc.token)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.token, got.String())
		})
	}
}

func TestReviewKindRejectsInvalidValues(t *testing.T) {
	_, err := ReviewKind(0).Value()
	assert.Error(t, err)

	_, err = ReviewKind(5).MarshalText()
	assert.Error(t, err)

	assert.Equal(t, "ReviewKind(9)", ReviewKind(9).String())

	var k ReviewKind
	assert.Error(t, k.Scan(int64(1)))
	assert.Error(t, k.Scan("weekly"))
}

func TestReviewKindAsMapKey(t *testing.T) {
	in := map[ReviewKind]Date{
		NextDay:     {2024, time.January, 2},
		ThreeMonths: {2024, time.March, 31},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"next_day":"2024-01-02","three_months":"2024-03-31"}`, string(data))

	var out map[ReviewKind]Date
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestReviewStatus(t *testing.T) {
	r := Review{ScheduledDate: Date{2024, time.January, 8}}
	assert.Nil(t, r.Status().CompletedAt)

	done := time.Date(2024, time.January, 9, 8, 30, 0, 0, time.UTC)
	r.Completed = true
	r.CompletedAt.Time, r.CompletedAt.Valid = done, true
	st := r.Status()
	require.NotNil(t, st.CompletedAt)
	assert.True(t, st.CompletedAt.Equal(done))
}
