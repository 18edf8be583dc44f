// internal/domain/models/attendance.go
package models

// AttendanceRecord is one service's attendance as listed by
// GET /api/attendance. TotalHeadcount is server-authoritative once
// stored, but is also derived client-side at submission time so the
// dashboard can show a headcount without waiting for a re-fetch.
type AttendanceRecord struct {
	ID             int    `json:"id"`
	ServiceDate    string `json:"service_date"`
	Men            int    `json:"men"`
	Women          int    `json:"women"`
	YouthBoys      int    `json:"youth_boys"`
	YouthGirls     int    `json:"youth_girls"`
	ChildrenBoys   int    `json:"children_boys"`
	ChildrenGirls  int    `json:"children_girls"`
	NewConverts    int    `json:"new_converts"`
	YouTube        int    `json:"youtube"`
	TotalHeadcount int    `json:"total_headcount"`
}

// AttendanceDraft holds the raw form values for a pending attendance
// submission. Counts stay as strings until submission, when they are
// coerced to integers (empty or non-numeric treated as 0).
type AttendanceDraft struct {
	ServiceDate   string `validate:"required"`
	Men           string
	Women         string
	YouthBoys     string
	YouthGirls    string
	ChildrenBoys  string
	ChildrenGirls string
	NewConverts   string
	YouTube       string
}

// DefaultAttendanceDraft returns the documented default shape of the
// attendance form: blank date, all counts zero.
func DefaultAttendanceDraft() AttendanceDraft {
	return AttendanceDraft{
		Men: "0", Women: "0",
		YouthBoys: "0", YouthGirls: "0",
		ChildrenBoys: "0", ChildrenGirls: "0",
		NewConverts: "0", YouTube: "0",
	}
}

// AttendanceSubmission is the JSON payload for POST /api/attendance/submit,
// carrying the raw counts plus the client-derived totals.
type AttendanceSubmission struct {
	ServiceDate    string `json:"service_date"`
	Men            int    `json:"men"`
	Women          int    `json:"women"`
	YouthBoys      int    `json:"youth_boys"`
	YouthGirls     int    `json:"youth_girls"`
	ChildrenBoys   int    `json:"children_boys"`
	ChildrenGirls  int    `json:"children_girls"`
	NewConverts    int    `json:"new_converts"`
	YouTube        int    `json:"youtube"`
	YouthTotal     int    `json:"youth_total"`
	ChildrenTotal  int    `json:"children_total"`
	TotalHeadcount int    `json:"total_headcount"`
}
