package coverage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
)

// Config holds coverage workflow settings
type Config struct {
	GracePeriod time.Duration // default: shift.GracePeriod
	Now         func() time.Time
}

type CoverageServiceImpl struct {
	tx database.Transactor
	coverage.CoverageRequestRepository
	shift.ShiftRepository
	clock.ClockEntryRepository
	detector shift.Detector
	config   Config
}

// RequestCoverage implements coverage.CoverageService.
func (c *CoverageServiceImpl) RequestCoverage(ctx context.Context, actor user.Actor, req coverage.CreateCoverageRequest) (coverage.CoverageRequestResponse, error) {
	if !actor.Can(user.PermissionCoverageRequest) {
		return coverage.CoverageRequestResponse{}, user.ErrPermissionDenied
	}
	req.ReplacementEmployeeID = actor.EmployeeID
	req.CompanyID = actor.CompanyID
	if err := req.Validate(); err != nil {
		return coverage.CoverageRequestResponse{}, err
	}

	s, err := c.ShiftRepository.GetByID(ctx, req.ShiftID)
	if err != nil {
		return coverage.CoverageRequestResponse{}, err
	}
	if s.CompanyID != req.CompanyID {
		return coverage.CoverageRequestResponse{}, shift.ErrShiftNotFound
	}
	if s.EmployeeID == req.ReplacementEmployeeID {
		return coverage.CoverageRequestResponse{}, coverage.ErrCannotCoverOwnShift
	}
	if s.IsCovered() {
		return coverage.CoverageRequestResponse{}, shift.ErrShiftAlreadyCovered
	}

	entries, err := c.ClockEntryRepository.LatestByShiftIDs(ctx, []string{s.ID})
	if err != nil {
		return coverage.CoverageRequestResponse{}, fmt.Errorf("failed to load clock entry: %w", err)
	}
	var entry *clock.ClockEntry
	if e, ok := entries[s.ID]; ok {
		entry = &e
	}
	if !attendance.IsEffectivelyMissed(s, entry, c.config.Now()) {
		return coverage.CoverageRequestResponse{}, coverage.ErrShiftNotCoverable
	}

	// Advisory check; the pending-pair index settles a race.
	pending, err := c.CoverageRequestRepository.HasPending(ctx, s.ID, req.ReplacementEmployeeID)
	if err != nil {
		return coverage.CoverageRequestResponse{}, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return coverage.CoverageRequestResponse{}, coverage.ErrDuplicateRequest
	}

	created, err := c.CoverageRequestRepository.Create(ctx, coverage.CoverageRequest{
		ShiftID:               s.ID,
		OriginalEmployeeID:    s.EmployeeID,
		ReplacementEmployeeID: req.ReplacementEmployeeID,
		CompanyID:             s.CompanyID,
	})
	if err != nil {
		if errors.Is(err, coverage.ErrDuplicateRequest) {
			return coverage.CoverageRequestResponse{}, coverage.ErrDuplicateRequest
		}
		return coverage.CoverageRequestResponse{}, fmt.Errorf("failed to create coverage request: %w", err)
	}

	slog.Info("Coverage: request created",
		"request_id", created.ID,
		"shift_id", created.ShiftID,
		"employee_id", created.ReplacementEmployeeID,
	)

	return coverage.ToResponse(created), nil
}

// loadPending fetches a pending request of the actor's company.
func (c *CoverageServiceImpl) loadPending(ctx context.Context, actor user.Actor, requestID string) (coverage.CoverageRequest, error) {
	req, err := c.CoverageRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return coverage.CoverageRequest{}, err
	}
	if actor.Role != user.RoleSystem && req.CompanyID != actor.CompanyID {
		return coverage.CoverageRequest{}, coverage.ErrRequestNotFound
	}
	if !req.IsPending() {
		return coverage.CoverageRequest{}, coverage.ErrRequestAlreadyProcessed
	}
	return req, nil
}

// ApproveRequest implements coverage.CoverageService.
func (c *CoverageServiceImpl) ApproveRequest(ctx context.Context, actor user.Actor, requestID string) (coverage.CoverageRequestResponse, error) {
	if !actor.Can(user.PermissionCoverageApprove) {
		return coverage.CoverageRequestResponse{}, user.ErrPermissionDenied
	}

	now := c.config.Now().UTC()
	var approved coverage.CoverageRequest
	var siblings int64

	err := c.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := c.loadPending(txCtx, actor, requestID)
		if err != nil {
			return err
		}

		if err := c.ShiftRepository.AssignReplacement(txCtx, req.ShiftID, req.ReplacementEmployeeID, now); err != nil {
			return err
		}

		resolved, err := c.CoverageRequestRepository.Resolve(txCtx, req.ID, coverage.StatusApproved, actor.UserID, now)
		if err != nil {
			return fmt.Errorf("failed to approve request: %w", err)
		}
		if !resolved {
			return coverage.ErrRequestAlreadyProcessed
		}

		siblings, err = c.CoverageRequestRepository.DenyPendingForShift(txCtx, req.ShiftID, req.ID, actor.UserID, now)
		if err != nil {
			return fmt.Errorf("failed to deny sibling requests: %w", err)
		}

		approved = req
		return nil
	})
	if err != nil {
		return coverage.CoverageRequestResponse{}, err
	}

	approved.Status = coverage.StatusApproved
	approved.ResolvedAt = &now
	approved.ResolvedBy = &actor.UserID

	slog.Info("Coverage: request approved",
		"request_id", approved.ID,
		"shift_id", approved.ShiftID,
		"employee_id", approved.ReplacementEmployeeID,
		"denied_siblings", siblings,
	)

	return coverage.ToResponse(approved), nil
}

// DenyRequest implements coverage.CoverageService.
func (c *CoverageServiceImpl) DenyRequest(ctx context.Context, actor user.Actor, requestID string) (coverage.CoverageRequestResponse, error) {
	if !actor.Can(user.PermissionCoverageApprove) {
		return coverage.CoverageRequestResponse{}, user.ErrPermissionDenied
	}

	now := c.config.Now().UTC()
	req, err := c.loadPending(ctx, actor, requestID)
	if err != nil {
		return coverage.CoverageRequestResponse{}, err
	}

	resolved, err := c.CoverageRequestRepository.Resolve(ctx, req.ID, coverage.StatusDenied, actor.UserID, now)
	if err != nil {
		return coverage.CoverageRequestResponse{}, fmt.Errorf("failed to deny request: %w", err)
	}
	if !resolved {
		return coverage.CoverageRequestResponse{}, coverage.ErrRequestAlreadyProcessed
	}

	req.Status = coverage.StatusDenied
	req.ResolvedAt = &now
	req.ResolvedBy = &actor.UserID

	slog.Info("Coverage: request denied", "request_id", req.ID, "shift_id", req.ShiftID)

	return coverage.ToResponse(req), nil
}

// ListPending implements coverage.CoverageService.
func (c *CoverageServiceImpl) ListPending(ctx context.Context, actor user.Actor) ([]coverage.CoverageRequestResponse, error) {
	if !actor.Can(user.PermissionCoverageViewAll) {
		return nil, user.ErrPermissionDenied
	}
	if actor.CompanyID == "" {
		return nil, user.ErrCompanyIDRequired
	}

	requests, err := c.CoverageRequestRepository.ListPending(ctx, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	responses := make([]coverage.CoverageRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, coverage.ToResponse(req))
	}
	return responses, nil
}

// AvailableToCover implements coverage.CoverageService.
func (c *CoverageServiceImpl) AvailableToCover(ctx context.Context, actor user.Actor) ([]shift.ShiftResponse, error) {
	if actor.CompanyID == "" {
		return nil, user.ErrCompanyIDRequired
	}

	c.detector.Refresh(ctx, actor, shift.Scope{CompanyID: actor.CompanyID})

	now := c.config.Now()
	pool, err := c.ShiftRepository.ListCoveragePool(ctx, actor.CompanyID, actor.EmployeeID, now.Add(-c.config.GracePeriod))
	if err != nil {
		return nil, fmt.Errorf("failed to list coverage pool: %w", err)
	}

	pending := map[string]bool{}
	if actor.EmployeeID != "" {
		pending, err = c.CoverageRequestRepository.PendingShiftIDs(ctx, actor.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list pending requests: %w", err)
		}
	}

	entries, err := c.ClockEntryRepository.LatestByShiftIDs(ctx, attendance.ShiftIDs(pool))
	if err != nil {
		return nil, fmt.Errorf("failed to load clock entries: %w", err)
	}

	responses := attendance.DescribeAll(pool, entries, now)
	for i := range responses {
		responses[i].RequestPending = pending[responses[i].ID]
	}
	return responses, nil
}

// MyApprovedCoverage implements coverage.CoverageService.
func (c *CoverageServiceImpl) MyApprovedCoverage(ctx context.Context, actor user.Actor) ([]shift.ShiftResponse, error) {
	if actor.EmployeeID == "" {
		return nil, user.ErrEmployeeIDRequired
	}

	shifts, err := c.ShiftRepository.ListApprovedCoverage(ctx, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved coverage: %w", err)
	}

	entries, err := c.ClockEntryRepository.LatestByShiftIDs(ctx, attendance.ShiftIDs(shifts))
	if err != nil {
		return nil, fmt.Errorf("failed to load clock entries: %w", err)
	}

	return attendance.DescribeAll(shifts, entries, c.config.Now()), nil
}

func NewCoverageService(
	tx database.Transactor,
	requestRepo coverage.CoverageRequestRepository,
	shiftRepo shift.ShiftRepository,
	clockEntryRepo clock.ClockEntryRepository,
	detector shift.Detector,
	cfg Config,
) coverage.CoverageService {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = shift.GracePeriod
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &CoverageServiceImpl{
		tx:                        tx,
		CoverageRequestRepository: requestRepo,
		ShiftRepository:           shiftRepo,
		ClockEntryRepository:      clockEntryRepo,
		detector:                  detector,
		config:                    cfg,
	}
}
