package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2020-01-20")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if parsed.Year() != 2020 || parsed.Month() != time.January || parsed.Day() != 20 {
		t.Errorf("Expected 2020-01-20, got %s", parsed.Format(DateLayout))
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("20-01-2020"); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		months   int
		expected string
	}{
		{"plain month", "2020-01-20", 1, "2020-02-20"},
		{"several months", "2020-01-20", 3, "2020-04-20"},
		{"year wrap", "2020-11-15", 3, "2021-02-15"},
		{"jan 31 clamps to feb 29 in leap year", "2020-01-31", 1, "2020-02-29"},
		{"jan 31 clamps to feb 28", "2021-01-31", 1, "2021-02-28"},
		{"aug 31 clamps to sep 30", "2021-08-31", 1, "2021-09-30"},
		{"clamped only for short months", "2021-01-31", 2, "2021-03-31"},
		{"many months", "2020-01-20", 25, "2022-02-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := ParseDate(tt.start)
			if err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			got := AddMonths(start, tt.months)
			if got.Format(DateLayout) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got.Format(DateLayout))
			}
		})
	}
}

func TestAddMonths_StrictlyIncreasing(t *testing.T) {
	start, _ := ParseDate("2020-01-31")
	prev := start
	for i := 1; i <= 24; i++ {
		next := AddMonths(start, i)
		if !next.After(prev) {
			t.Fatalf("Expected month %d (%s) to be after %s", i, next.Format(DateLayout), prev.Format(DateLayout))
		}
		prev = next
	}
}
