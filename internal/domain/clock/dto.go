package clock

import (
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/validator"
)

type ClockInRequest struct {
	EmployeeID string   `json:"-"`
	ShiftID    *string  `json:"shift_id,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.ShiftID != nil && validator.IsEmpty(*r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id must not be blank",
		})
	}

	errs = append(errs, validator.ValidateCoordinates(r.Latitude, r.Longitude, r.Accuracy)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	EntryID    string   `json:"-"`
	EmployeeID string   `json:"-"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "clock entry id is required",
		})
	}

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = append(errs, validator.ValidateCoordinates(r.Latitude, r.Longitude, r.Accuracy)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BreakRequest struct {
	EntryID    string `json:"-"`
	EmployeeID string `json:"-"`
}

type ClockEntryResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	ShiftID           *string  `json:"shift_id,omitempty"`
	ClockIn           *string  `json:"clock_in,omitempty"`
	ClockOut          *string  `json:"clock_out,omitempty"`
	BreakStart        *string  `json:"break_start,omitempty"`
	BreakEnd          *string  `json:"break_end,omitempty"`
	TotalHours        *string  `json:"total_hours,omitempty"`
	OvertimeHours     *string  `json:"overtime_hours,omitempty"`
	EstimatedPay      *string  `json:"estimated_pay,omitempty"`
	ClockInLatitude   *float64 `json:"clock_in_latitude,omitempty"`
	ClockInLongitude  *float64 `json:"clock_in_longitude,omitempty"`
	ClockOutLatitude  *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64 `json:"clock_out_longitude,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// TimePtrToString formats an optional instant as RFC3339.
func TimePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

// ToResponse maps an entry to its response shape.
func ToResponse(e ClockEntry) ClockEntryResponse {
	resp := ClockEntryResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		ShiftID:    e.ShiftID,
		ClockIn:    TimePtrToString(e.ClockIn),
		ClockOut:   TimePtrToString(e.ClockOut),
		BreakStart: TimePtrToString(e.BreakStart),
		BreakEnd:   TimePtrToString(e.BreakEnd),
	}
	if e.TotalHours != nil {
		v := e.TotalHours.StringFixed(2)
		resp.TotalHours = &v
	}
	if e.OvertimeHours != nil {
		v := e.OvertimeHours.StringFixed(2)
		resp.OvertimeHours = &v
	}
	if e.ClockInLocation != nil {
		resp.ClockInLatitude = &e.ClockInLocation.Latitude
		resp.ClockInLongitude = &e.ClockInLocation.Longitude
	}
	if e.ClockOutLocation != nil {
		resp.ClockOutLatitude = &e.ClockOutLocation.Latitude
		resp.ClockOutLongitude = &e.ClockOutLocation.Longitude
	}
	return resp
}
