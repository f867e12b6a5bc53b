package coverage

import (
	"context"
	"time"
)

// CoverageRequestRepository defines data access for coverage requests.
type CoverageRequestRepository interface {
	// Create inserts a pending request. Returns ErrDuplicateRequest if the
	// store already holds a pending request for the same pair.
	Create(ctx context.Context, req CoverageRequest) (CoverageRequest, error)

	GetByID(ctx context.Context, id string) (CoverageRequest, error)

	// HasPending reports whether a pending request exists for the pair.
	HasPending(ctx context.Context, shiftID string, replacementEmployeeID string) (bool, error)

	// Resolve moves a pending request to status. Returns false if the
	// request was no longer pending.
	Resolve(ctx context.Context, id string, status Status, resolvedBy string, resolvedAt time.Time) (bool, error)

	// DenyPendingForShift denies every other pending request of the shift.
	DenyPendingForShift(ctx context.Context, shiftID string, exceptID string, resolvedBy string, resolvedAt time.Time) (int64, error)

	// PendingShiftIDs returns the shifts the employee has pending requests for.
	PendingShiftIDs(ctx context.Context, replacementEmployeeID string) (map[string]bool, error)

	// ListPending returns pending requests of a company, oldest first.
	ListPending(ctx context.Context, companyID string) ([]CoverageRequest, error)
}
