package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
)

type shiftRepository struct {
	store *Store
}

func sortByStart(shifts []shift.Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].StartTime.Equal(shifts[j].StartTime) {
			return shifts[i].ID < shifts[j].ID
		}
		return shifts[i].StartTime.Before(shifts[j].StartTime)
	})
}

func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	defer r.store.lock(ctx)()

	if s.ID == "" {
		id, err := newID()
		if err != nil {
			return shift.Shift{}, fmt.Errorf("failed to generate shift id: %w", err)
		}
		s.ID = id
	}
	if s.Status == "" {
		s.Status = shift.StatusScheduled
	}
	now := r.store.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.store.shifts[s.ID] = s
	return s, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	defer r.store.lock(ctx)()

	s, ok := r.store.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *shiftRepository) ListOverdue(ctx context.Context, scope shift.Scope, deadline time.Time) ([]shift.Shift, error) {
	defer r.store.lock(ctx)()

	var result []shift.Shift
	for _, s := range r.store.shifts {
		if s.Status != shift.StatusScheduled || s.IsMissed || !s.StartTime.Before(deadline) {
			continue
		}
		if scope.CompanyID != "" && s.CompanyID != scope.CompanyID {
			continue
		}
		if scope.EmployeeID != "" && s.EmployeeID != scope.EmployeeID {
			continue
		}
		result = append(result, s)
	}
	sortByStart(result)
	return result, nil
}

func (r *shiftRepository) MarkMissed(ctx context.Context, id string, missedAt time.Time) (bool, error) {
	defer r.store.lock(ctx)()

	s, ok := r.store.shifts[id]
	if !ok || s.Status != shift.StatusScheduled {
		return false, nil
	}
	s.Status = shift.StatusMissed
	s.IsMissed = true
	s.MissedAt = timePtr(missedAt)
	s.UpdatedAt = r.store.now()
	r.store.shifts[id] = s
	return true, nil
}

func (r *shiftRepository) AssignReplacement(ctx context.Context, id string, replacementEmployeeID string, approvedAt time.Time) error {
	defer r.store.lock(ctx)()

	s, ok := r.store.shifts[id]
	if !ok {
		return shift.ErrShiftNotFound
	}
	if s.IsCovered() {
		return shift.ErrShiftAlreadyCovered
	}
	replacement := replacementEmployeeID
	s.ReplacementEmployeeID = &replacement
	s.ReplacementApprovedAt = timePtr(approvedAt)
	s.UpdatedAt = r.store.now()
	r.store.shifts[id] = s
	return nil
}

func (r *shiftRepository) ListCoveragePool(ctx context.Context, companyID string, excludeEmployeeID string, graceDeadline time.Time) ([]shift.Shift, error) {
	defer r.store.lock(ctx)()

	var result []shift.Shift
	for _, s := range r.store.shifts {
		if s.CompanyID != companyID || s.EmployeeID == excludeEmployeeID || s.IsCovered() {
			continue
		}
		overdue := s.Status == shift.StatusScheduled && s.StartTime.Before(graceDeadline) && !r.store.hasClockIn(s.ID)
		if s.IsPersistedMissed() || overdue {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

func (r *shiftRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]shift.Shift, error) {
	defer r.store.lock(ctx)()

	var result []shift.Shift
	for _, s := range r.store.shifts {
		if s.EmployeeID != employeeID || s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		result = append(result, s)
	}
	sortByStart(result)
	return result, nil
}

func (r *shiftRepository) ListApprovedCoverage(ctx context.Context, employeeID string) ([]shift.Shift, error) {
	defer r.store.lock(ctx)()

	var result []shift.Shift
	for _, s := range r.store.shifts {
		if s.IsCovered() && s.ReplacementEmployeeID != nil && *s.ReplacementEmployeeID == employeeID {
			result = append(result, s)
		}
	}
	sortByStart(result)
	return result, nil
}

func (r *shiftRepository) CompleteAttended(ctx context.Context, cutoff time.Time) (int64, error) {
	defer r.store.lock(ctx)()

	var n int64
	for id, s := range r.store.shifts {
		if s.Status != shift.StatusScheduled || !s.EndTime.Before(cutoff) {
			continue
		}
		if !r.store.hasClosedEntry(id) {
			continue
		}
		s.Status = shift.StatusCompleted
		s.UpdatedAt = r.store.now()
		r.store.shifts[id] = s
		n++
	}
	return n, nil
}
