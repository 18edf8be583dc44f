// internal/app/system/headcount/headcount.go
//
// Package headcount derives the attendance totals that are computed
// before submission so the dashboard can show a headcount without
// waiting for a re-fetch.
package headcount

import (
	"strconv"
	"strings"
)

// Totals holds the derived sums sent alongside the raw counts.
type Totals struct {
	Youth    int
	Children int
	Total    int
}

// Coerce converts a raw count field to an integer. Empty or non-numeric
// input counts as 0; this mirrors how blank form fields are treated.
func Coerce(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Derive computes youth_total, children_total, and total_headcount from
// the raw form values:
//
//	youth_total     = youth_boys + youth_girls
//	children_total  = children_boys + children_girls
//	total_headcount = men + women + youth_total + children_total
func Derive(men, women, youthBoys, youthGirls, childrenBoys, childrenGirls string) Totals {
	youth := Coerce(youthBoys) + Coerce(youthGirls)
	children := Coerce(childrenBoys) + Coerce(childrenGirls)
	return Totals{
		Youth:    youth,
		Children: children,
		Total:    Coerce(men) + Coerce(women) + youth + children,
	}
}
