package domain

import (
	"testing"
	"time"
)

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	for _, hour := range []int{0, 10, 23} {
		got := DateOf(time.Date(2024, time.January, 1, hour, 59, 59, 0, loc))
		if got != (Date{2024, time.January, 1}) {
			t.Errorf("DateOf at hour %d = %s, want 2024-01-01", hour, got)
		}
	}
}

func TestAddDays(t *testing.T) {
	testCases := []struct {
		from string
		days int
		want string
	}{
		{"2024-01-01", 1, "2024-01-02"},
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-01-01", 90, "2024-03-31"},
		{"2024-03-01", -1, "2024-02-29"},
	}

	for _, tc := range testCases {
		t.Run(tc.from, func(t *testing.T) {
			d, err := ParseDate(tc.from)
			if err != nil {
				t.Fatalf("ParseDate(%q) returned an unexpected error: %v", tc.from, err)
			}
			if got := d.AddDays(tc.days).String(); got != tc.want {
				t.Errorf("%s + %d days = %s, want %s", tc.from, tc.days, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a := Date{2024, time.January, 31}
	b := Date{2024, time.February, 1}

	if !a.Before(b) || a.After(b) {
		t.Errorf("Expected %s to be before %s", a, b)
	}
	if a.Compare(a) != 0 {
		t.Errorf("Expected a date to compare equal to itself")
	}
	if !(Date{2025, time.January, 1}).After(b) {
		t.Errorf("Expected a later year to compare after")
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2024-1-1", "01/02/2024", "2024-02-30"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("Expected ParseDate(%q) to fail", s)
		}
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2024-03-31"); err != nil || d != (Date{2024, time.March, 31}) {
		t.Errorf("Scan(string) = %v, %v", d, err)
	}
	if err := d.Scan([]byte("2024-01-08")); err != nil || d != (Date{2024, time.January, 8}) {
		t.Errorf("Scan([]byte) = %v, %v", d, err)
	}
	if err := d.Scan(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)); err != nil || d != (Date{2024, time.January, 2}) {
		t.Errorf("Scan(time.Time) = %v, %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Errorf("Expected Scan(int) to fail")
	}
}
