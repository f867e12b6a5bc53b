package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

type locationLogRepository struct {
	db *database.DB
}

// Append implements clock.LocationLogRepository.
func (r *locationLogRepository) Append(ctx context.Context, log clock.LocationLog) error {
	q := GetQuerier(ctx, r.db)

	if log.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate location log id: %w", err)
		}
		log.ID = id.String()
	}

	query := `
		INSERT INTO location_logs (id, employee_id, clock_entry_id, latitude, longitude, accuracy, tag, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		log.ID, log.EmployeeID, log.ClockEntryID,
		log.Position.Latitude, log.Position.Longitude, log.Position.Accuracy,
		string(log.Tag), log.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append location log: %w", translateError(err))
	}

	return nil
}

func NewLocationLogRepository(db *database.DB) clock.LocationLogRepository {
	return &locationLogRepository{db: db}
}
