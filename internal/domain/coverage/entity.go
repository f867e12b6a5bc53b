package coverage

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

type CoverageRequest struct {
	ID                    string
	ShiftID               string
	OriginalEmployeeID    string
	ReplacementEmployeeID string
	CompanyID             string
	Status                Status
	ResolvedAt            *time.Time
	ResolvedBy            *string
	CreatedAt             time.Time
}

// IsPending reports whether the request can still be approved or denied.
func (r CoverageRequest) IsPending() bool {
	return r.Status == StatusPending
}
