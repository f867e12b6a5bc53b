package coverage

import (
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/validator"
)

type CreateCoverageRequest struct {
	ShiftID               string `json:"shift_id"`
	ReplacementEmployeeID string `json:"-"`
	CompanyID             string `json:"-"`
}

func (r *CreateCoverageRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if validator.IsEmpty(r.ReplacementEmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "replacement_employee_id",
			Message: "replacement_employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CoverageRequestResponse struct {
	ID                    string  `json:"id"`
	ShiftID               string  `json:"shift_id"`
	OriginalEmployeeID    string  `json:"original_employee_id"`
	ReplacementEmployeeID string  `json:"replacement_employee_id"`
	CompanyID             string  `json:"company_id"`
	Status                string  `json:"status"`
	ResolvedAt            *string `json:"resolved_at,omitempty"`
	ResolvedBy            *string `json:"resolved_by,omitempty"`
	CreatedAt             string  `json:"created_at"`
}

func ToResponse(r CoverageRequest) CoverageRequestResponse {
	var resolvedAt *string
	if r.ResolvedAt != nil {
		v := r.ResolvedAt.UTC().Format(time.RFC3339)
		resolvedAt = &v
	}
	return CoverageRequestResponse{
		ID:                    r.ID,
		ShiftID:               r.ShiftID,
		OriginalEmployeeID:    r.OriginalEmployeeID,
		ReplacementEmployeeID: r.ReplacementEmployeeID,
		CompanyID:             r.CompanyID,
		Status:                string(r.Status),
		ResolvedAt:            resolvedAt,
		ResolvedBy:            r.ResolvedBy,
		CreatedAt:             r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
