package clock

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/location"
)

// OvertimeThresholdHours is the flat daily threshold above which worked
// hours count as overtime. It is not pro-rated per shift length.
const OvertimeThresholdHours = 8

type ClockEntry struct {
	ID               string
	EmployeeID       string
	ShiftID          *string
	ClockIn          *time.Time
	ClockOut         *time.Time
	BreakStart       *time.Time
	BreakEnd         *time.Time
	TotalHours       *decimal.Decimal
	OvertimeHours    *decimal.Decimal
	ClockInLocation  *location.Position
	ClockOutLocation *location.Position
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the entry is clocked in and not yet out.
func (e ClockEntry) IsActive() bool {
	return e.ClockIn != nil && e.ClockOut == nil
}

// OnBreak reports whether a break is open.
func (e ClockEntry) OnBreak() bool {
	return e.BreakStart != nil && e.BreakEnd == nil
}

// Hours holds the worked and overtime hours of a closed session.
type Hours struct {
	Total    decimal.Decimal
	Overtime decimal.Decimal
}

// CalculateHours computes worked hours for a session. A break is deducted
// only when both its start and end are recorded; an unterminated break
// deducts nothing.
func CalculateHours(clockIn, clockOut time.Time, breakStart, breakEnd *time.Time, thresholdHours int) Hours {
	worked := clockOut.Sub(clockIn)
	if breakStart != nil && breakEnd != nil {
		worked -= breakEnd.Sub(*breakStart)
	}

	minutes := decimal.NewFromFloat(worked.Minutes())
	total := minutes.Div(decimal.NewFromInt(60)).Round(2)

	overtime := decimal.Zero
	threshold := decimal.NewFromInt(int64(thresholdHours))
	if total.GreaterThan(threshold) {
		overtime = total.Sub(threshold).Round(2)
	}

	return Hours{Total: total, Overtime: overtime}
}

type Tag string

const (
	TagClockIn  Tag = "Clock In"
	TagClockOut Tag = "Clock Out"
)

// LocationLog is an append-only record of a position sampled around a
// clock action.
type LocationLog struct {
	ID           string
	EmployeeID   string
	ClockEntryID *string
	Position     location.Position
	Tag          Tag
	RecordedAt   time.Time
}
