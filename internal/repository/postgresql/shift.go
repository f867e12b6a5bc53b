package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const shiftColumns = `
	id, employee_id, company_id, department_id, start_time, end_time,
	status, is_missed, missed_at, replacement_employee_id, replacement_approved_at,
	break_minutes, hourly_rate, notes, created_at, updated_at`

type shiftRepository struct {
	db *database.DB
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	var rate decimal.NullDecimal
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.DepartmentID, &s.StartTime, &s.EndTime,
		&s.Status, &s.IsMissed, &s.MissedAt, &s.ReplacementEmployeeID, &s.ReplacementApprovedAt,
		&s.BreakMinutes, &rate, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}
	if rate.Valid {
		s.HourlyRate = &rate.Decimal
	}
	return s, nil
}

func collectShifts(rows pgx.Rows) ([]shift.Shift, error) {
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return shifts, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return shift.Shift{}, fmt.Errorf("failed to generate shift id: %w", err)
		}
		s.ID = id.String()
	}
	if s.Status == "" {
		s.Status = shift.StatusScheduled
	}
	var rate decimal.NullDecimal
	if s.HourlyRate != nil {
		rate = decimal.NewNullDecimal(*s.HourlyRate)
	}

	query := `
		INSERT INTO shifts (
			id, employee_id, company_id, department_id, start_time, end_time,
			status, is_missed, missed_at, replacement_employee_id, replacement_approved_at,
			break_minutes, hourly_rate, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.EmployeeID, s.CompanyID, s.DepartmentID, s.StartTime, s.EndTime,
		s.Status, s.IsMissed, s.MissedAt, s.ReplacementEmployeeID, s.ReplacementApprovedAt,
		s.BreakMinutes, rate, s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", translateError(err))
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", translateError(err))
	}

	return s, nil
}

// ListOverdue implements shift.ShiftRepository.
func (r *shiftRepository) ListOverdue(ctx context.Context, scope shift.Scope, deadline time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{
		"status = 'scheduled'",
		"is_missed = FALSE",
		"start_time < $1",
	}
	args := []interface{}{deadline}
	argIdx := 2

	if scope.CompanyID != "" {
		conditions = append(conditions, fmt.Sprintf("company_id = $%d", argIdx))
		args = append(args, scope.CompanyID)
		argIdx++
	}
	if scope.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, scope.EmployeeID)
		argIdx++
	}

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY start_time`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue shifts: %w", translateError(err))
	}

	return collectShifts(rows)
}

// MarkMissed implements shift.ShiftRepository.
func (r *shiftRepository) MarkMissed(ctx context.Context, id string, missedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET is_missed = TRUE, missed_at = $2, status = 'missed', updated_at = NOW()
		WHERE id = $1 AND status = 'scheduled'
	`

	tag, err := q.Exec(ctx, query, id, missedAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark shift missed: %w", translateError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// AssignReplacement implements shift.ShiftRepository.
func (r *shiftRepository) AssignReplacement(ctx context.Context, id string, replacementEmployeeID string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET replacement_employee_id = $2, replacement_approved_at = $3, updated_at = NOW()
		WHERE id = $1 AND replacement_approved_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, replacementEmployeeID, approvedAt)
	if err != nil {
		return fmt.Errorf("failed to assign replacement: %w", translateError(err))
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return shift.ErrShiftAlreadyCovered
	}

	return nil
}

// ListCoveragePool implements shift.ShiftRepository.
func (r *shiftRepository) ListCoveragePool(ctx context.Context, companyID string, excludeEmployeeID string, graceDeadline time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	// Persisted missed, or still scheduled past grace with nobody clocked in.
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE s.company_id = $1
		  AND s.employee_id <> $2
		  AND s.replacement_approved_at IS NULL
		  AND (
			s.is_missed = TRUE
			OR s.status = 'missed'
			OR (
				s.status = 'scheduled'
				AND s.start_time < $3
				AND NOT EXISTS (
					SELECT 1 FROM clock_entries ce
					WHERE ce.shift_id = s.id AND ce.clock_in IS NOT NULL
				)
			)
		  )
		ORDER BY s.start_time DESC
	`

	rows, err := q.Query(ctx, query, companyID, excludeEmployeeID, graceDeadline)
	if err != nil {
		return nil, fmt.Errorf("failed to list coverage pool: %w", translateError(err))
	}

	return collectShifts(rows)
}

// ListByEmployee implements shift.ShiftRepository.
func (r *shiftRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE employee_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee shifts: %w", translateError(err))
	}

	return collectShifts(rows)
}

// ListApprovedCoverage implements shift.ShiftRepository.
func (r *shiftRepository) ListApprovedCoverage(ctx context.Context, employeeID string) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE replacement_employee_id = $1 AND replacement_approved_at IS NOT NULL
		ORDER BY start_time
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved coverage: %w", translateError(err))
	}

	return collectShifts(rows)
}

// CompleteAttended implements shift.ShiftRepository.
func (r *shiftRepository) CompleteAttended(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts s
		SET status = 'completed', updated_at = NOW()
		WHERE s.status = 'scheduled'
		  AND s.end_time < $1
		  AND EXISTS (
			SELECT 1 FROM clock_entries ce
			WHERE ce.shift_id = s.id AND ce.clock_in IS NOT NULL AND ce.clock_out IS NOT NULL
		  )
	`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to complete attended shifts: %w", translateError(err))
	}

	return tag.RowsAffected(), nil
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
