package shift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
)

// Config holds missed-shift detection settings
type Config struct {
	GracePeriod  time.Duration // default: shift.GracePeriod
	ScanThrottle time.Duration // default: 15 seconds
	Now          func() time.Time
}

func (c Config) withDefaults() Config {
	if c.GracePeriod <= 0 {
		c.GracePeriod = shift.GracePeriod
	}
	if c.ScanThrottle <= 0 {
		c.ScanThrottle = 15 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type detector struct {
	shifts  shift.ShiftRepository
	entries clock.ClockEntryRepository
	gate    shift.ScanGate
	config  Config
}

// NewDetector creates the missed-shift detector. A nil gate falls back to
// an in-process throttle.
func NewDetector(shifts shift.ShiftRepository, entries clock.ClockEntryRepository, gate shift.ScanGate, cfg Config) shift.Detector {
	cfg = cfg.withDefaults()
	if gate == nil {
		gate = NewLocalGate(cfg.ScanThrottle)
	}
	return &detector{
		shifts:  shifts,
		entries: entries,
		gate:    gate,
		config:  cfg,
	}
}

// clampScope keeps callers inside what their role may see.
func clampScope(actor user.Actor, scope shift.Scope) shift.Scope {
	if actor.Role == user.RoleSystem {
		return scope
	}
	scope.CompanyID = actor.CompanyID
	if !actor.Can(user.PermissionShiftViewAll) {
		scope.EmployeeID = actor.EmployeeID
	}
	return scope
}

// CheckAndMarkMissedShifts implements shift.Detector.
func (d *detector) CheckAndMarkMissedShifts(ctx context.Context, actor user.Actor, scope shift.Scope) (bool, error) {
	report, err := d.Detect(ctx, actor, scope)
	if err != nil {
		return report.MarkedAny(), err
	}
	return report.MarkedAny(), nil
}

// Detect implements shift.Detector.
func (d *detector) Detect(ctx context.Context, actor user.Actor, scope shift.Scope) (shift.DetectionReport, error) {
	scope = clampScope(actor, scope)
	now := d.config.Now()
	deadline := now.Add(-d.config.GracePeriod)

	candidates, err := d.shifts.ListOverdue(ctx, scope, deadline)
	if err != nil {
		return shift.DetectionReport{}, fmt.Errorf("failed to list overdue shifts: %w", err)
	}

	report := shift.DetectionReport{Scanned: len(candidates)}
	for _, s := range candidates {
		result, err := d.process(ctx, actor, s, now)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, result)
	}

	if report.MarkedAny() {
		slog.Info("Detector: marked missed shifts",
			"count", report.Count(shift.OutcomeMarked),
			"scanned", report.Scanned,
			"company_id", scope.CompanyID,
			"employee_id", scope.EmployeeID,
		)
	}

	return report, nil
}

func (d *detector) process(ctx context.Context, actor user.Actor, s shift.Shift, now time.Time) (shift.DetectionResult, error) {
	attended, err := d.entries.HasClockIn(ctx, s.ID)
	if err != nil {
		return shift.DetectionResult{}, fmt.Errorf("failed to check clock-in for shift %s: %w", s.ID, err)
	}
	if attended {
		return shift.DetectionResult{ShiftID: s.ID, Outcome: shift.OutcomeAttended}, nil
	}

	marked, err := d.markMissed(ctx, actor, s.ID, now)
	if err != nil {
		if shift.IsRecoverable(err) {
			slog.Warn("Detector: missed transition not persisted",
				"shift_id", s.ID,
				"actor_role", actor.Role,
				"error", err,
			)
			return shift.DetectionResult{ShiftID: s.ID, Outcome: shift.OutcomeSoftFailed, Err: err}, nil
		}
		return shift.DetectionResult{}, fmt.Errorf("failed to mark shift %s missed: %w", s.ID, err)
	}

	if !marked {
		return shift.DetectionResult{ShiftID: s.ID, Outcome: shift.OutcomeAlreadyTransitioned}, nil
	}
	return shift.DetectionResult{ShiftID: s.ID, Outcome: shift.OutcomeMarked}, nil
}

func (d *detector) markMissed(ctx context.Context, actor user.Actor, shiftID string, now time.Time) (bool, error) {
	if !actor.Can(user.PermissionShiftMarkMissed) {
		return false, user.ErrPermissionDenied
	}
	return d.shifts.MarkMissed(ctx, shiftID, now)
}

// Refresh implements shift.Detector.
func (d *detector) Refresh(ctx context.Context, actor user.Actor, scope shift.Scope) {
	scope = clampScope(actor, scope)
	key := fmt.Sprintf("company:%s:employee:%s", scope.CompanyID, scope.EmployeeID)
	if !d.gate.Allow(ctx, key) {
		return
	}

	if _, err := d.Detect(ctx, actor, scope); err != nil {
		slog.Warn("Detector: opportunistic scan failed",
			"company_id", scope.CompanyID,
			"employee_id", scope.EmployeeID,
			"error", err,
		)
	}
}
