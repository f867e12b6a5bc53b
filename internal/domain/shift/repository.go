package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access for shifts. Writes that race with
// other callers are conditional and report whether they applied.
type ShiftRepository interface {
	// Create inserts a shift. Scheduling is owned by the surrounding
	// application; Create is used for seeding.
	Create(ctx context.Context, s Shift) (Shift, error)

	GetByID(ctx context.Context, id string) (Shift, error)

	// ListOverdue returns shifts in scope with status scheduled, not yet
	// flagged missed, and a start time before deadline.
	ListOverdue(ctx context.Context, scope Scope, deadline time.Time) ([]Shift, error)

	// MarkMissed flags the shift missed only if it is still scheduled.
	// Returns false when another caller already transitioned it.
	MarkMissed(ctx context.Context, id string, missedAt time.Time) (bool, error)

	// AssignReplacement sets the approved replacement. Fails with
	// ErrShiftAlreadyCovered when a replacement was already approved.
	AssignReplacement(ctx context.Context, id string, replacementEmployeeID string, approvedAt time.Time) error

	// ListCoveragePool returns effectively missed, unclaimed shifts of the
	// company that do not belong to excludeEmployeeID.
	ListCoveragePool(ctx context.Context, companyID string, excludeEmployeeID string, graceDeadline time.Time) ([]Shift, error)

	// ListByEmployee returns the employee's own shifts starting in [from, to).
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Shift, error)

	// ListApprovedCoverage returns shifts the employee was approved to cover.
	ListApprovedCoverage(ctx context.Context, employeeID string) ([]Shift, error)

	// CompleteAttended moves scheduled shifts that ended before cutoff and
	// have a closed clock entry to completed.
	CompleteAttended(ctx context.Context, cutoff time.Time) (int64, error)
}
