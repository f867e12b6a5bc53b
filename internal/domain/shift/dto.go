package shift

import (
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/validator"
)

// Scope narrows a missed-shift scan. Empty fields mean "any".
type Scope struct {
	CompanyID  string
	EmployeeID string
}

// Outcome tags what the detector did with one candidate shift.
type Outcome string

const (
	OutcomeMarked              Outcome = "marked"
	OutcomeAlreadyTransitioned Outcome = "already_transitioned"
	OutcomeAttended            Outcome = "attended"
	OutcomeSoftFailed          Outcome = "soft_failed"
)

type DetectionResult struct {
	ShiftID string
	Outcome Outcome
	Err     error
}

// DetectionReport is the per-run result of a missed-shift scan.
type DetectionReport struct {
	Scanned int
	Results []DetectionResult
}

// MarkedAny reports whether this run persisted at least one transition.
func (r DetectionReport) MarkedAny() bool {
	return r.Count(OutcomeMarked) > 0
}

func (r DetectionReport) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

type ShiftResponse struct {
	ID                    string   `json:"id"`
	EmployeeID            string   `json:"employee_id"`
	CompanyID             string   `json:"company_id"`
	DepartmentID          *string  `json:"department_id,omitempty"`
	StartTime             string   `json:"start_time"`
	EndTime               string   `json:"end_time"`
	Status                string   `json:"status"`
	DisplayStatus         string   `json:"display_status"`
	IsMissed              bool     `json:"is_missed"`
	MissedAt              *string  `json:"missed_at,omitempty"`
	ReplacementEmployeeID *string  `json:"replacement_employee_id,omitempty"`
	ReplacementApprovedAt *string  `json:"replacement_approved_at,omitempty"`
	BreakMinutes          *int     `json:"break_minutes,omitempty"`
	HourlyRate            *string  `json:"hourly_rate,omitempty"`
	Notes                 *string  `json:"notes,omitempty"`
	ClockEntryID          *string  `json:"clock_entry_id,omitempty"`
	RequestPending        bool     `json:"request_pending,omitempty"`
	Warnings              []string `json:"warnings,omitempty"`
}

type MyShiftsFilter struct {
	From *string `json:"from,omitempty"` // YYYY-MM-DD
	To   *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *MyShiftsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.From != nil && *f.From != "" {
		if _, valid := validator.IsValidDate(*f.From); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}

	if f.To != nil && *f.To != "" {
		if _, valid := validator.IsValidDate(*f.To); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range resolves the filter into [from, to) instants in loc. Defaults to
// one week back and two weeks ahead of now.
func (f MyShiftsFilter) Range(now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	from := day.AddDate(0, 0, -7)
	to := day.AddDate(0, 0, 15)

	if f.From != nil && *f.From != "" {
		if d, err := time.ParseInLocation("2006-01-02", *f.From, loc); err == nil {
			from = d
		}
	}
	if f.To != nil && *f.To != "" {
		if d, err := time.ParseInLocation("2006-01-02", *f.To, loc); err == nil {
			to = d.AddDate(0, 0, 1)
		}
	}
	return from, to
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

// ToResponse maps a shift to its response shape. DisplayStatus and the
// per-viewer fields are filled in by the caller.
func ToResponse(s Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:                    s.ID,
		EmployeeID:            s.EmployeeID,
		CompanyID:             s.CompanyID,
		DepartmentID:          s.DepartmentID,
		StartTime:             s.StartTime.UTC().Format(time.RFC3339),
		EndTime:               s.EndTime.UTC().Format(time.RFC3339),
		Status:                string(s.Status),
		IsMissed:              s.IsMissed,
		MissedAt:              timePtrToString(s.MissedAt),
		ReplacementEmployeeID: s.ReplacementEmployeeID,
		ReplacementApprovedAt: timePtrToString(s.ReplacementApprovedAt),
		BreakMinutes:          s.BreakMinutes,
		Notes:                 s.Notes,
	}
	if s.HourlyRate != nil {
		v := s.HourlyRate.StringFixed(2)
		resp.HourlyRate = &v
	}
	return resp
}
