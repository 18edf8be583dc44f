package format_test

import (
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/system/format"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₦0.00"},
		{50, "₦50.00"},
		{1234.5, "₦1,234.50"},
		{1000000, "₦1,000,000.00"},
	}
	for _, tc := range cases {
		if got := format.Currency(tc.in); got != tc.want {
			t.Errorf("Currency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-01-04", "January 4, 2026"},
		{"2025-12-25T00:00:00Z", "December 25, 2025"},
		{"2026-03-01 09:30:00", "March 1, 2026"},
		{"", ""},
		{"not-a-date", "not-a-date"},
	}
	for _, tc := range cases {
		if got := format.Date(tc.in); got != tc.want {
			t.Errorf("Date(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
