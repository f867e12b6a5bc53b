package shift

import (
	"context"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
)

// Detector transitions overdue, unattended shifts to missed.
type Detector interface {
	// CheckAndMarkMissedShifts scans scope and persists missed transitions
	// the actor is allowed to write. Safe to call concurrently.
	CheckAndMarkMissedShifts(ctx context.Context, actor user.Actor, scope Scope) (bool, error)

	// Detect is CheckAndMarkMissedShifts with the per-shift report.
	Detect(ctx context.Context, actor user.Actor, scope Scope) (DetectionReport, error)

	// Refresh runs a throttled scan before a read. Errors are logged, not
	// returned: the read-time projection covers a failed scan.
	Refresh(ctx context.Context, actor user.Actor, scope Scope)
}

// ScanGate throttles opportunistic scans per key.
type ScanGate interface {
	Allow(ctx context.Context, key string) bool
}

// ShiftService serves the shift read models.
type ShiftService interface {
	// GetMyShifts returns the actor's own shifts with their display status.
	GetMyShifts(ctx context.Context, actor user.Actor, filter MyShiftsFilter) ([]ShiftResponse, error)

	// CompleteAttendedShifts marks ended, attended shifts completed.
	CompleteAttendedShifts(ctx context.Context) (int64, error)
}
