package shift

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	clock.ClockEntryRepository
	detector shift.Detector
	config   Config
}

// GetMyShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) GetMyShifts(ctx context.Context, actor user.Actor, filter shift.MyShiftsFilter) ([]shift.ShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if actor.EmployeeID == "" {
		return nil, user.ErrEmployeeIDRequired
	}
	if !actor.Can(user.PermissionShiftViewOwn) {
		return nil, user.ErrPermissionDenied
	}

	s.detector.Refresh(ctx, actor, shift.Scope{CompanyID: actor.CompanyID, EmployeeID: actor.EmployeeID})

	now := s.config.Now()
	from, to := filter.Range(now)

	shifts, err := s.ShiftRepository.ListByEmployee(ctx, actor.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	entries, err := s.ClockEntryRepository.LatestByShiftIDs(ctx, attendance.ShiftIDs(shifts))
	if err != nil {
		return nil, fmt.Errorf("failed to load clock entries: %w", err)
	}

	return attendance.DescribeAll(shifts, entries, now), nil
}

// CompleteAttendedShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) CompleteAttendedShifts(ctx context.Context) (int64, error) {
	n, err := s.ShiftRepository.CompleteAttended(ctx, s.config.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to complete attended shifts: %w", err)
	}
	if n > 0 {
		slog.Info("Shift: completed attended shifts", "count", n)
	}
	return n, nil
}

func NewShiftService(
	shiftRepo shift.ShiftRepository,
	clockEntryRepo clock.ClockEntryRepository,
	detector shift.Detector,
	cfg Config,
) shift.ShiftService {
	return &ShiftServiceImpl{
		ShiftRepository:      shiftRepo,
		ClockEntryRepository: clockEntryRepo,
		detector:             detector,
		config:               cfg.withDefaults(),
	}
}
