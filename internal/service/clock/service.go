package clock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/geolocation"
)

const (
	warningBreakAlreadyStarted = "A break has already been taken for this session."
	warningNoOpenBreak         = "There is no open break to end."
	warningSessionClosed       = "This clock session is no longer active."
)

// Config holds clock session settings
type Config struct {
	OvertimeThresholdHours int           // default: clock.OvertimeThresholdHours
	LocationLogTimeout     time.Duration // default: 5 seconds
	Now                    func() time.Time
}

type ClockServiceImpl struct {
	clock.ClockEntryRepository
	shift.ShiftRepository
	locationLogs clock.LocationLogRepository
	capturer     location.Capturer
	config       Config

	wg sync.WaitGroup
}

// ClockIn implements clock.ClockService.
func (c *ClockServiceImpl) ClockIn(ctx context.Context, req clock.ClockInRequest) (clock.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.ClockEntryResponse{}, err
	}

	if req.ShiftID != nil {
		s, err := c.ShiftRepository.GetByID(ctx, *req.ShiftID)
		if err != nil {
			return clock.ClockEntryResponse{}, err
		}
		if !s.AssignedTo(req.EmployeeID) {
			return clock.ClockEntryResponse{}, shift.ErrShiftNotAssigned
		}
	}

	_, err := c.ClockEntryRepository.GetActiveByEmployee(ctx, req.EmployeeID)
	if err == nil {
		return clock.ClockEntryResponse{}, clock.ErrAlreadyClockedIn
	}
	if !errors.Is(err, clock.ErrNoActiveEntry) {
		return clock.ClockEntryResponse{}, fmt.Errorf("failed to check active entry: %w", err)
	}

	sample := c.capturer.Capture(ctx, geolocation.Reported(req.Latitude, req.Longitude, req.Accuracy))
	now := c.config.Now().UTC()

	// The store rejects a concurrent second active entry with
	// ErrAlreadyClockedIn.
	entry, err := c.ClockEntryRepository.Create(ctx, clock.ClockEntry{
		EmployeeID:      req.EmployeeID,
		ShiftID:         req.ShiftID,
		ClockIn:         &now,
		ClockInLocation: sample.Position,
	})
	if err != nil {
		if errors.Is(err, clock.ErrAlreadyClockedIn) {
			return clock.ClockEntryResponse{}, clock.ErrAlreadyClockedIn
		}
		return clock.ClockEntryResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	c.appendLocationLog(ctx, entry, clock.TagClockIn, sample.Position, now)

	resp := clock.ToResponse(entry)
	if sample.Warning != "" {
		resp.Warnings = append(resp.Warnings, sample.Warning)
	}
	return resp, nil
}

// ClockOut implements clock.ClockService.
func (c *ClockServiceImpl) ClockOut(ctx context.Context, req clock.ClockOutRequest) (clock.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.ClockEntryResponse{}, err
	}

	entry, err := c.ownedEntry(ctx, req.EntryID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, clock.ErrClockEntryNotFound) {
			return clock.ClockEntryResponse{}, clock.ErrNoActiveEntry
		}
		return clock.ClockEntryResponse{}, err
	}
	if !entry.IsActive() {
		return clock.ClockEntryResponse{}, clock.ErrNoActiveEntry
	}

	sample := c.capturer.Capture(ctx, geolocation.Reported(req.Latitude, req.Longitude, req.Accuracy))
	now := c.config.Now().UTC()
	if now.Before(*entry.ClockIn) {
		return clock.ClockEntryResponse{}, clock.ErrClockOutBeforeStart
	}

	hours := clock.CalculateHours(*entry.ClockIn, now, entry.BreakStart, entry.BreakEnd, c.config.OvertimeThresholdHours)
	entry.ClockOut = &now
	entry.TotalHours = &hours.Total
	entry.OvertimeHours = &hours.Overtime
	entry.ClockOutLocation = sample.Position

	closed, err := c.ClockEntryRepository.Close(ctx, entry)
	if err != nil {
		return clock.ClockEntryResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}
	if !closed {
		return clock.ClockEntryResponse{}, clock.ErrNoActiveEntry
	}

	c.appendLocationLog(ctx, entry, clock.TagClockOut, sample.Position, now)

	resp := clock.ToResponse(entry)
	if pay := c.estimatePay(ctx, entry); pay != nil {
		resp.EstimatedPay = pay
	}
	if sample.Warning != "" {
		resp.Warnings = append(resp.Warnings, sample.Warning)
	}
	return resp, nil
}

// StartBreak implements clock.ClockService.
func (c *ClockServiceImpl) StartBreak(ctx context.Context, req clock.BreakRequest) (clock.ClockEntryResponse, error) {
	entry, err := c.ownedEntry(ctx, req.EntryID, req.EmployeeID)
	if err != nil {
		return clock.ClockEntryResponse{}, err
	}

	if !entry.IsActive() {
		return c.breakNoOp(entry, "start", warningSessionClosed), nil
	}
	if entry.BreakStart != nil {
		return c.breakNoOp(entry, "start", warningBreakAlreadyStarted), nil
	}

	now := c.config.Now().UTC()
	started, err := c.ClockEntryRepository.StartBreak(ctx, entry.ID, now)
	if err != nil {
		return clock.ClockEntryResponse{}, fmt.Errorf("failed to start break: %w", err)
	}
	if !started {
		return c.reloadNoOp(ctx, entry, "start", warningBreakAlreadyStarted)
	}

	entry.BreakStart = &now
	return clock.ToResponse(entry), nil
}

// EndBreak implements clock.ClockService.
func (c *ClockServiceImpl) EndBreak(ctx context.Context, req clock.BreakRequest) (clock.ClockEntryResponse, error) {
	entry, err := c.ownedEntry(ctx, req.EntryID, req.EmployeeID)
	if err != nil {
		return clock.ClockEntryResponse{}, err
	}

	if !entry.IsActive() {
		return c.breakNoOp(entry, "end", warningSessionClosed), nil
	}
	if !entry.OnBreak() {
		return c.breakNoOp(entry, "end", warningNoOpenBreak), nil
	}

	now := c.config.Now().UTC()
	ended, err := c.ClockEntryRepository.EndBreak(ctx, entry.ID, now)
	if err != nil {
		return clock.ClockEntryResponse{}, fmt.Errorf("failed to end break: %w", err)
	}
	if !ended {
		return c.reloadNoOp(ctx, entry, "end", warningNoOpenBreak)
	}

	entry.BreakEnd = &now
	return clock.ToResponse(entry), nil
}

// GetActive implements clock.ClockService.
func (c *ClockServiceImpl) GetActive(ctx context.Context, employeeID string) (clock.ClockEntryResponse, error) {
	entry, err := c.ClockEntryRepository.GetActiveByEmployee(ctx, employeeID)
	if err != nil {
		return clock.ClockEntryResponse{}, err
	}
	return clock.ToResponse(entry), nil
}

// Flush implements clock.ClockService.
func (c *ClockServiceImpl) Flush() {
	c.wg.Wait()
}

func (c *ClockServiceImpl) ownedEntry(ctx context.Context, entryID, employeeID string) (clock.ClockEntry, error) {
	entry, err := c.ClockEntryRepository.GetByID(ctx, entryID)
	if err != nil {
		return clock.ClockEntry{}, err
	}
	if entry.EmployeeID != employeeID {
		return clock.ClockEntry{}, clock.ErrNotEntryOwner
	}
	return entry, nil
}

func (c *ClockServiceImpl) breakNoOp(entry clock.ClockEntry, action, warning string) clock.ClockEntryResponse {
	slog.Warn("Clock: break "+action+" ignored",
		"entry_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"reason", warning,
	)
	resp := clock.ToResponse(entry)
	resp.Warnings = append(resp.Warnings, warning)
	return resp
}

// reloadNoOp handles a conditional break write that lost a race.
func (c *ClockServiceImpl) reloadNoOp(ctx context.Context, entry clock.ClockEntry, action, warning string) (clock.ClockEntryResponse, error) {
	current, err := c.ClockEntryRepository.GetByID(ctx, entry.ID)
	if err != nil {
		return clock.ClockEntryResponse{}, err
	}
	if !current.IsActive() {
		warning = warningSessionClosed
	}
	return c.breakNoOp(current, action, warning), nil
}

func (c *ClockServiceImpl) estimatePay(ctx context.Context, entry clock.ClockEntry) *string {
	if entry.ShiftID == nil || entry.TotalHours == nil {
		return nil
	}
	s, err := c.ShiftRepository.GetByID(ctx, *entry.ShiftID)
	if err != nil {
		slog.Warn("Clock: failed to load shift for pay estimate", "shift_id", *entry.ShiftID, "error", err)
		return nil
	}
	if s.HourlyRate == nil {
		return nil
	}
	pay := entry.TotalHours.Mul(*s.HourlyRate).Round(2).StringFixed(2)
	return &pay
}

// appendLocationLog writes the log detached from the request. A failed
// write is logged and never undoes the clock action.
func (c *ClockServiceImpl) appendLocationLog(ctx context.Context, entry clock.ClockEntry, tag clock.Tag, pos *location.Position, at time.Time) {
	if pos == nil {
		return
	}

	entryID := entry.ID
	record := clock.LocationLog{
		EmployeeID:   entry.EmployeeID,
		ClockEntryID: &entryID,
		Position:     *pos,
		Tag:          tag,
		RecordedAt:   at,
	}

	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.LocationLogTimeout)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		if err := c.locationLogs.Append(logCtx, record); err != nil {
			slog.Warn("Clock: failed to append location log",
				"entry_id", entryID,
				"employee_id", record.EmployeeID,
				"tag", string(tag),
				"error", err,
			)
		}
	}()
}

func NewClockService(
	clockEntryRepo clock.ClockEntryRepository,
	shiftRepo shift.ShiftRepository,
	locationLogRepo clock.LocationLogRepository,
	capturer location.Capturer,
	cfg Config,
) clock.ClockService {
	if cfg.OvertimeThresholdHours <= 0 {
		cfg.OvertimeThresholdHours = clock.OvertimeThresholdHours
	}
	if cfg.LocationLogTimeout <= 0 {
		cfg.LocationLogTimeout = 5 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if capturer == nil {
		capturer = geolocation.NewCapturer(geolocation.DefaultTimeout, nil)
	}

	return &ClockServiceImpl{
		ClockEntryRepository: clockEntryRepo,
		ShiftRepository:      shiftRepo,
		locationLogs:         locationLogRepo,
		capturer:             capturer,
		config:               cfg,
	}
}
