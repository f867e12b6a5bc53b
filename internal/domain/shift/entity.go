package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

// GraceMinutes is the tolerance after a shift's start before a no-show is
// considered missed.
const GraceMinutes = 15

// GracePeriod is GraceMinutes as a duration.
const GracePeriod = GraceMinutes * time.Minute

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusMissed    Status = "missed"
)

type Shift struct {
	ID                    string
	EmployeeID            string
	CompanyID             string
	DepartmentID          *string
	StartTime             time.Time
	EndTime               time.Time
	Status                Status
	IsMissed              bool
	MissedAt              *time.Time
	ReplacementEmployeeID *string
	ReplacementApprovedAt *time.Time
	BreakMinutes          *int
	HourlyRate            *decimal.Decimal
	Notes                 *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// GraceDeadline returns the instant after which a shift without a clock-in
// counts as missed.
func (s Shift) GraceDeadline() time.Time {
	return s.StartTime.Add(GracePeriod)
}

// IsPersistedMissed reports the stored missed state.
func (s Shift) IsPersistedMissed() bool {
	return s.IsMissed || s.Status == StatusMissed
}

// IsOverdue reports whether a still-scheduled shift is past its grace
// deadline at now. Whether the employee clocked in is not considered here.
func (s Shift) IsOverdue(now time.Time) bool {
	return s.Status == StatusScheduled && now.After(s.GraceDeadline())
}

// IsCovered reports whether a replacement was approved for the shift.
func (s Shift) IsCovered() bool {
	return s.ReplacementApprovedAt != nil
}

// AssignedTo reports whether employeeID may clock in against the shift,
// either as the original assignee or as the approved replacement.
func (s Shift) AssignedTo(employeeID string) bool {
	if s.IsCovered() && s.ReplacementEmployeeID != nil {
		return *s.ReplacementEmployeeID == employeeID
	}
	return s.EmployeeID == employeeID
}
