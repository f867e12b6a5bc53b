package clock

import "context"

// ClockService owns per-employee clock-in/out and break bookkeeping.
type ClockService interface {
	// ClockIn opens a session. Location is advisory: a failed capture is
	// reported as a warning on the response.
	ClockIn(ctx context.Context, req ClockInRequest) (ClockEntryResponse, error)

	// ClockOut closes the session and computes worked and overtime hours.
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockEntryResponse, error)

	// StartBreak and EndBreak are no-ops with a logged warning when the
	// entry is not active or the break is already open/closed.
	StartBreak(ctx context.Context, req BreakRequest) (ClockEntryResponse, error)
	EndBreak(ctx context.Context, req BreakRequest) (ClockEntryResponse, error)

	// GetActive returns the employee's active entry or ErrNoActiveEntry.
	GetActive(ctx context.Context, employeeID string) (ClockEntryResponse, error)

	// Flush waits for detached location-log writes to finish.
	Flush()
}
