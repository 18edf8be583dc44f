// internal/apiclient/attendance.go
package apiclient

import (
	"context"

	"github.com/chapelstack/chapelhub/internal/domain/models"
)

type attendanceEnvelope struct {
	Attendances []models.AttendanceRecord `json:"attendances"`
}

// FetchAttendance lists all attendance records.
func (c *Client) FetchAttendance(ctx context.Context, token string) ([]models.AttendanceRecord, error) {
	var env attendanceEnvelope
	if err := c.getJSON(ctx, token, "/attendance", "attendance", &env); err != nil {
		return nil, err
	}
	return env.Attendances, nil
}

// SubmitAttendance creates an attendance record. The payload carries
// the raw counts plus the client-derived totals.
func (c *Client) SubmitAttendance(ctx context.Context, token string, sub models.AttendanceSubmission) error {
	return c.postJSON(ctx, token, "/attendance/submit", sub)
}

// AttendancePDF fetches the binary PDF export of attendance records.
func (c *Client) AttendancePDF(ctx context.Context, token string) ([]byte, string, error) {
	return c.getBinary(ctx, token, "/attendance/pdf", "attendance export")
}
