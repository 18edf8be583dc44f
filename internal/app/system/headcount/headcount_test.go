package headcount_test

import (
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/system/headcount"
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{" 7 ", 7},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"12.5", 0},
		{"-3", -3},
	}
	for _, tc := range cases {
		if got := headcount.Coerce(tc.in); got != tc.want {
			t.Errorf("Coerce(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDerive(t *testing.T) {
	totals := headcount.Derive("10", "15", "3", "4", "2", "1")

	if totals.Youth != 7 {
		t.Errorf("Youth = %d, want 7", totals.Youth)
	}
	if totals.Children != 3 {
		t.Errorf("Children = %d, want 3", totals.Children)
	}
	if totals.Total != 35 {
		t.Errorf("Total = %d, want 35", totals.Total)
	}
}

func TestDerive_BlankAndJunkTreatedAsZero(t *testing.T) {
	totals := headcount.Derive("", "junk", "5", "", "", "")

	if totals.Youth != 5 {
		t.Errorf("Youth = %d, want 5", totals.Youth)
	}
	if totals.Children != 0 {
		t.Errorf("Children = %d, want 0", totals.Children)
	}
	if totals.Total != 5 {
		t.Errorf("Total = %d, want 5", totals.Total)
	}
}
