package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const coverageRequestColumns = `
	id, shift_id, original_employee_id, replacement_employee_id, company_id,
	status, resolved_at, resolved_by, created_at`

type coverageRequestRepository struct {
	db *database.DB
}

func scanCoverageRequest(row pgx.Row) (coverage.CoverageRequest, error) {
	var req coverage.CoverageRequest
	err := row.Scan(
		&req.ID, &req.ShiftID, &req.OriginalEmployeeID, &req.ReplacementEmployeeID, &req.CompanyID,
		&req.Status, &req.ResolvedAt, &req.ResolvedBy, &req.CreatedAt,
	)
	return req, err
}

// Create implements coverage.CoverageRequestRepository.
func (r *coverageRequestRepository) Create(ctx context.Context, req coverage.CoverageRequest) (coverage.CoverageRequest, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return coverage.CoverageRequest{}, fmt.Errorf("failed to generate coverage request id: %w", err)
		}
		req.ID = id.String()
	}
	req.Status = coverage.StatusPending

	query := `
		INSERT INTO coverage_requests (
			id, shift_id, original_employee_id, replacement_employee_id, company_id, status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.ShiftID, req.OriginalEmployeeID, req.ReplacementEmployeeID, req.CompanyID, req.Status,
	).Scan(&req.CreatedAt)
	if err != nil {
		return coverage.CoverageRequest{}, fmt.Errorf("failed to create coverage request: %w", translateError(err))
	}

	return req, nil
}

// GetByID implements coverage.CoverageRequestRepository.
func (r *coverageRequestRepository) GetByID(ctx context.Context, id string) (coverage.CoverageRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + coverageRequestColumns + ` FROM coverage_requests WHERE id = $1`

	req, err := scanCoverageRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return coverage.CoverageRequest{}, coverage.ErrRequestNotFound
		}
		return coverage.CoverageRequest{}, fmt.Errorf("failed to get coverage request: %w", translateError(err))
	}

	return req, nil
}

// HasPending implements coverage.CoverageRequestRepository.
func (r *coverageRequestRepository) HasPending(ctx context.Context, shiftID string, replacementEmployeeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM coverage_requests
			WHERE shift_id = $1 AND replacement_employee_id = $2 AND status = 'pending'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, shiftID, replacementEmployeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", translateError(err))
	}

	return exists, nil
}

// Resolve implements coverage.CoverageRequestRepository.
func (r *coverageRequestRepository) Resolve(ctx context.Context, id string, status coverage.Status, resolvedBy string, resolvedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE coverage_requests
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, status, nullableString(resolvedBy), resolvedAt)
	if err != nil {
		return false, fmt.Errorf("failed to resolve coverage request: %w", translateError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// DenyPendingForShift implements coverage.CoverageRequestRepository.
func (r *coverageRequestRepository) DenyPendingForShift(ctx context.Context, shiftID string, exceptID string, resolvedBy string, resolvedAt time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE coverage_requests
		SET status = 'denied', resolved_by = $3, resolved_at = $4
		WHERE shift_id = $1 AND id <> $2 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, shiftID, exceptID, nullableString(resolvedBy), resolvedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to deny sibling requests: %w", translateError(err))
	}

	return tag.RowsAffected(), nil
}

// PendingShiftIDs implements coverage.CoverageRequestRepository.
func (r *coverageRequestRepository) PendingShiftIDs(ctx context.Context, replacementEmployeeID string) (map[string]bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT shift_id FROM coverage_requests
		WHERE replacement_employee_id = $1 AND status = 'pending'
	`

	rows, err := q.Query(ctx, query, replacementEmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending shift ids: %w", translateError(err))
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan shift id: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return ids, nil
}

// ListPending implements coverage.CoverageRequestRepository.
func (r *coverageRequestRepository) ListPending(ctx context.Context, companyID string) ([]coverage.CoverageRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + coverageRequestColumns + `
		FROM coverage_requests
		WHERE company_id = $1 AND status = 'pending'
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", translateError(err))
	}
	defer rows.Close()

	var requests []coverage.CoverageRequest
	for rows.Next() {
		req, err := scanCoverageRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coverage request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return requests, nil
}

// nullableString stores empty ids as NULL, e.g. the system actor.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func NewCoverageRequestRepository(db *database.DB) coverage.CoverageRequestRepository {
	return &coverageRequestRepository{db: db}
}
