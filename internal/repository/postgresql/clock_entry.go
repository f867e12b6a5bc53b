package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const clockEntryColumns = `
	id, employee_id, shift_id, clock_in, clock_out, break_start, break_end,
	total_hours, overtime_hours,
	clock_in_latitude, clock_in_longitude, clock_in_accuracy,
	clock_out_latitude, clock_out_longitude, clock_out_accuracy,
	created_at, updated_at`

type clockEntryRepository struct {
	db *database.DB
}

func toPosition(lat, lng, accuracy *float64) *location.Position {
	if lat == nil || lng == nil {
		return nil
	}
	return &location.Position{Latitude: *lat, Longitude: *lng, Accuracy: accuracy}
}

func fromPosition(p *location.Position) (lat, lng, accuracy *float64) {
	if p == nil {
		return nil, nil, nil
	}
	return &p.Latitude, &p.Longitude, p.Accuracy
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func scanClockEntry(row pgx.Row) (clock.ClockEntry, error) {
	var e clock.ClockEntry
	var total, overtime decimal.NullDecimal
	var inLat, inLng, inAcc, outLat, outLng, outAcc *float64

	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.ShiftID, &e.ClockIn, &e.ClockOut, &e.BreakStart, &e.BreakEnd,
		&total, &overtime,
		&inLat, &inLng, &inAcc,
		&outLat, &outLng, &outAcc,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return clock.ClockEntry{}, err
	}

	if total.Valid {
		e.TotalHours = &total.Decimal
	}
	if overtime.Valid {
		e.OvertimeHours = &overtime.Decimal
	}
	e.ClockInLocation = toPosition(inLat, inLng, inAcc)
	e.ClockOutLocation = toPosition(outLat, outLng, outAcc)

	return e, nil
}

// Create implements clock.ClockEntryRepository.
func (r *clockEntryRepository) Create(ctx context.Context, entry clock.ClockEntry) (clock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return clock.ClockEntry{}, fmt.Errorf("failed to generate clock entry id: %w", err)
		}
		entry.ID = id.String()
	}
	inLat, inLng, inAcc := fromPosition(entry.ClockInLocation)

	query := `
		INSERT INTO clock_entries (
			id, employee_id, shift_id, clock_in,
			clock_in_latitude, clock_in_longitude, clock_in_accuracy
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, entry.ShiftID, entry.ClockIn,
		inLat, inLng, inAcc,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return clock.ClockEntry{}, fmt.Errorf("failed to create clock entry: %w", translateError(err))
	}

	return entry, nil
}

// GetByID implements clock.ClockEntryRepository.
func (r *clockEntryRepository) GetByID(ctx context.Context, id string) (clock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clockEntryColumns + ` FROM clock_entries WHERE id = $1`

	e, err := scanClockEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clock.ClockEntry{}, clock.ErrClockEntryNotFound
		}
		return clock.ClockEntry{}, fmt.Errorf("failed to get clock entry: %w", translateError(err))
	}

	return e, nil
}

// GetActiveByEmployee implements clock.ClockEntryRepository.
func (r *clockEntryRepository) GetActiveByEmployee(ctx context.Context, employeeID string) (clock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE employee_id = $1 AND clock_in IS NOT NULL AND clock_out IS NULL
		ORDER BY clock_in DESC
		LIMIT 1
	`

	e, err := scanClockEntry(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clock.ClockEntry{}, clock.ErrNoActiveEntry
		}
		return clock.ClockEntry{}, fmt.Errorf("failed to get active clock entry: %w", translateError(err))
	}

	return e, nil
}

// StartBreak implements clock.ClockEntryRepository.
func (r *clockEntryRepository) StartBreak(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_entries
		SET break_start = $2, updated_at = NOW()
		WHERE id = $1 AND clock_in IS NOT NULL AND clock_out IS NULL AND break_start IS NULL
	`

	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to start break: %w", translateError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// EndBreak implements clock.ClockEntryRepository.
func (r *clockEntryRepository) EndBreak(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_entries
		SET break_end = $2, updated_at = NOW()
		WHERE id = $1 AND clock_out IS NULL AND break_start IS NOT NULL AND break_end IS NULL
	`

	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to end break: %w", translateError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// Close implements clock.ClockEntryRepository.
func (r *clockEntryRepository) Close(ctx context.Context, entry clock.ClockEntry) (bool, error) {
	q := GetQuerier(ctx, r.db)

	outLat, outLng, outAcc := fromPosition(entry.ClockOutLocation)

	query := `
		UPDATE clock_entries
		SET clock_out = $2, total_hours = $3, overtime_hours = $4,
			clock_out_latitude = $5, clock_out_longitude = $6, clock_out_accuracy = $7,
			updated_at = NOW()
		WHERE id = $1 AND clock_in IS NOT NULL AND clock_out IS NULL
	`

	tag, err := q.Exec(ctx, query,
		entry.ID, entry.ClockOut, toNullDecimal(entry.TotalHours), toNullDecimal(entry.OvertimeHours),
		outLat, outLng, outAcc,
	)
	if err != nil {
		return false, fmt.Errorf("failed to close clock entry: %w", translateError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// HasClockIn implements clock.ClockEntryRepository.
func (r *clockEntryRepository) HasClockIn(ctx context.Context, shiftID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM clock_entries WHERE shift_id = $1 AND clock_in IS NOT NULL)`

	var exists bool
	if err := q.QueryRow(ctx, query, shiftID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check clock-in: %w", translateError(err))
	}

	return exists, nil
}

// LatestByShiftIDs implements clock.ClockEntryRepository.
func (r *clockEntryRepository) LatestByShiftIDs(ctx context.Context, shiftIDs []string) (map[string]clock.ClockEntry, error) {
	result := make(map[string]clock.ClockEntry, len(shiftIDs))
	if len(shiftIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (shift_id) ` + clockEntryColumns + `
		FROM clock_entries
		WHERE shift_id = ANY($1)
		ORDER BY shift_id, clock_in DESC NULLS LAST
	`

	rows, err := q.Query(ctx, query, shiftIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock entries: %w", translateError(err))
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanClockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock entry: %w", err)
		}
		if e.ShiftID != nil {
			result[*e.ShiftID] = e
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return result, nil
}

func NewClockEntryRepository(db *database.DB) clock.ClockEntryRepository {
	return &clockEntryRepository{db: db}
}
