package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
)

type coverageRequestRepository struct {
	store *Store
}

func (r *coverageRequestRepository) Create(ctx context.Context, req coverage.CoverageRequest) (coverage.CoverageRequest, error) {
	defer r.store.lock(ctx)()

	// Mirrors the partial unique index on pending pairs.
	for _, existing := range r.store.requests {
		if existing.IsPending() &&
			existing.ShiftID == req.ShiftID &&
			existing.ReplacementEmployeeID == req.ReplacementEmployeeID {
			return coverage.CoverageRequest{}, coverage.ErrDuplicateRequest
		}
	}

	if req.ID == "" {
		id, err := newID()
		if err != nil {
			return coverage.CoverageRequest{}, fmt.Errorf("failed to generate coverage request id: %w", err)
		}
		req.ID = id
	}
	req.Status = coverage.StatusPending
	req.CreatedAt = r.store.now()
	r.store.requests[req.ID] = req
	return req, nil
}

func (r *coverageRequestRepository) GetByID(ctx context.Context, id string) (coverage.CoverageRequest, error) {
	defer r.store.lock(ctx)()

	req, ok := r.store.requests[id]
	if !ok {
		return coverage.CoverageRequest{}, coverage.ErrRequestNotFound
	}
	return req, nil
}

func (r *coverageRequestRepository) HasPending(ctx context.Context, shiftID string, replacementEmployeeID string) (bool, error) {
	defer r.store.lock(ctx)()

	for _, req := range r.store.requests {
		if req.IsPending() && req.ShiftID == shiftID && req.ReplacementEmployeeID == replacementEmployeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *coverageRequestRepository) Resolve(ctx context.Context, id string, status coverage.Status, resolvedBy string, resolvedAt time.Time) (bool, error) {
	defer r.store.lock(ctx)()

	req, ok := r.store.requests[id]
	if !ok || !req.IsPending() {
		return false, nil
	}
	r.store.requests[id] = resolve(req, status, resolvedBy, resolvedAt)
	return true, nil
}

func (r *coverageRequestRepository) DenyPendingForShift(ctx context.Context, shiftID string, exceptID string, resolvedBy string, resolvedAt time.Time) (int64, error) {
	defer r.store.lock(ctx)()

	var n int64
	for id, req := range r.store.requests {
		if req.ShiftID != shiftID || id == exceptID || !req.IsPending() {
			continue
		}
		r.store.requests[id] = resolve(req, coverage.StatusDenied, resolvedBy, resolvedAt)
		n++
	}
	return n, nil
}

func (r *coverageRequestRepository) PendingShiftIDs(ctx context.Context, replacementEmployeeID string) (map[string]bool, error) {
	defer r.store.lock(ctx)()

	ids := make(map[string]bool)
	for _, req := range r.store.requests {
		if req.IsPending() && req.ReplacementEmployeeID == replacementEmployeeID {
			ids[req.ShiftID] = true
		}
	}
	return ids, nil
}

func (r *coverageRequestRepository) ListPending(ctx context.Context, companyID string) ([]coverage.CoverageRequest, error) {
	defer r.store.lock(ctx)()

	var result []coverage.CoverageRequest
	for _, req := range r.store.requests {
		if req.IsPending() && req.CompanyID == companyID {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func resolve(req coverage.CoverageRequest, status coverage.Status, resolvedBy string, resolvedAt time.Time) coverage.CoverageRequest {
	req.Status = status
	req.ResolvedAt = timePtr(resolvedAt)
	if resolvedBy != "" {
		by := resolvedBy
		req.ResolvedBy = &by
	}
	return req
}
