package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
)

type clockEntryRepository struct {
	store *Store
}

// hasClockIn expects the store lock to be held.
func (s *Store) hasClockIn(shiftID string) bool {
	for _, e := range s.entries {
		if e.ShiftID != nil && *e.ShiftID == shiftID && e.ClockIn != nil {
			return true
		}
	}
	return false
}

// hasClosedEntry expects the store lock to be held.
func (s *Store) hasClosedEntry(shiftID string) bool {
	for _, e := range s.entries {
		if e.ShiftID != nil && *e.ShiftID == shiftID && e.ClockIn != nil && e.ClockOut != nil {
			return true
		}
	}
	return false
}

func (r *clockEntryRepository) Create(ctx context.Context, entry clock.ClockEntry) (clock.ClockEntry, error) {
	defer r.store.lock(ctx)()

	// Mirrors the partial unique index on active entries.
	if entry.IsActive() {
		for _, e := range r.store.entries {
			if e.EmployeeID == entry.EmployeeID && e.IsActive() {
				return clock.ClockEntry{}, clock.ErrAlreadyClockedIn
			}
		}
	}

	if entry.ID == "" {
		id, err := newID()
		if err != nil {
			return clock.ClockEntry{}, fmt.Errorf("failed to generate clock entry id: %w", err)
		}
		entry.ID = id
	}
	now := r.store.now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.store.entries[entry.ID] = entry
	return entry, nil
}

func (r *clockEntryRepository) GetByID(ctx context.Context, id string) (clock.ClockEntry, error) {
	defer r.store.lock(ctx)()

	e, ok := r.store.entries[id]
	if !ok {
		return clock.ClockEntry{}, clock.ErrClockEntryNotFound
	}
	return e, nil
}

func (r *clockEntryRepository) GetActiveByEmployee(ctx context.Context, employeeID string) (clock.ClockEntry, error) {
	defer r.store.lock(ctx)()

	for _, e := range r.store.entries {
		if e.EmployeeID == employeeID && e.IsActive() {
			return e, nil
		}
	}
	return clock.ClockEntry{}, clock.ErrNoActiveEntry
}

func (r *clockEntryRepository) StartBreak(ctx context.Context, id string, at time.Time) (bool, error) {
	defer r.store.lock(ctx)()

	e, ok := r.store.entries[id]
	if !ok || !e.IsActive() || e.BreakStart != nil {
		return false, nil
	}
	e.BreakStart = timePtr(at)
	e.UpdatedAt = r.store.now()
	r.store.entries[id] = e
	return true, nil
}

func (r *clockEntryRepository) EndBreak(ctx context.Context, id string, at time.Time) (bool, error) {
	defer r.store.lock(ctx)()

	e, ok := r.store.entries[id]
	if !ok || e.ClockOut != nil || e.BreakStart == nil || e.BreakEnd != nil {
		return false, nil
	}
	e.BreakEnd = timePtr(at)
	e.UpdatedAt = r.store.now()
	r.store.entries[id] = e
	return true, nil
}

func (r *clockEntryRepository) Close(ctx context.Context, entry clock.ClockEntry) (bool, error) {
	defer r.store.lock(ctx)()

	e, ok := r.store.entries[entry.ID]
	if !ok || !e.IsActive() {
		return false, nil
	}
	e.ClockOut = entry.ClockOut
	e.TotalHours = entry.TotalHours
	e.OvertimeHours = entry.OvertimeHours
	e.ClockOutLocation = entry.ClockOutLocation
	e.UpdatedAt = r.store.now()
	r.store.entries[e.ID] = e
	return true, nil
}

func (r *clockEntryRepository) HasClockIn(ctx context.Context, shiftID string) (bool, error) {
	defer r.store.lock(ctx)()
	return r.store.hasClockIn(shiftID), nil
}

func (r *clockEntryRepository) LatestByShiftIDs(ctx context.Context, shiftIDs []string) (map[string]clock.ClockEntry, error) {
	defer r.store.lock(ctx)()

	wanted := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		wanted[id] = true
	}

	result := make(map[string]clock.ClockEntry)
	for _, e := range r.store.entries {
		if e.ShiftID == nil || !wanted[*e.ShiftID] {
			continue
		}
		current, seen := result[*e.ShiftID]
		if !seen || laterClockIn(e, current) {
			result[*e.ShiftID] = e
		}
	}
	return result, nil
}

func laterClockIn(a, b clock.ClockEntry) bool {
	switch {
	case a.ClockIn == nil:
		return false
	case b.ClockIn == nil:
		return true
	default:
		return a.ClockIn.After(*b.ClockIn)
	}
}

type locationLogRepository struct {
	store *Store
}

func (r *locationLogRepository) Append(ctx context.Context, log clock.LocationLog) error {
	defer r.store.lock(ctx)()

	if log.ID == "" {
		id, err := newID()
		if err != nil {
			return fmt.Errorf("failed to generate location log id: %w", err)
		}
		log.ID = id
	}
	r.store.logs = append(r.store.logs, log)
	return nil
}
