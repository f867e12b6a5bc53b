package clock

import (
	"context"
	"time"
)

// ClockEntryRepository defines data access for clock entries.
// The store rejects a second active entry for the same employee.
type ClockEntryRepository interface {
	// Create inserts an entry. Returns ErrAlreadyClockedIn when the
	// employee already has an active entry.
	Create(ctx context.Context, entry ClockEntry) (ClockEntry, error)

	GetByID(ctx context.Context, id string) (ClockEntry, error)

	// GetActiveByEmployee returns ErrNoActiveEntry when none exists.
	GetActiveByEmployee(ctx context.Context, employeeID string) (ClockEntry, error)

	// StartBreak opens the break if the entry is active and has none.
	StartBreak(ctx context.Context, id string, at time.Time) (bool, error)

	// EndBreak closes an open break on an active entry.
	EndBreak(ctx context.Context, id string, at time.Time) (bool, error)

	// Close records clock-out fields if the entry is still active.
	Close(ctx context.Context, entry ClockEntry) (bool, error)

	// HasClockIn reports whether any entry with a clock-in exists for the shift.
	HasClockIn(ctx context.Context, shiftID string) (bool, error)

	// LatestByShiftIDs returns the most recent entry per shift.
	LatestByShiftIDs(ctx context.Context, shiftIDs []string) (map[string]ClockEntry, error)
}

// LocationLogRepository appends location samples.
type LocationLogRepository interface {
	Append(ctx context.Context, log LocationLog) error
}
