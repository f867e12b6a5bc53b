package postgresql

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes
const (
	codeUniqueViolation       = "23505"
	codeInsufficientPrivilege = "42501"
	codeQueryCanceled         = "57014"
	codeAdminShutdown         = "57P01"
	codeCannotConnectNow      = "57P03"
)

// Constraint names from the migrations
const (
	constraintActiveEntry = "uq_clock_entries_active_employee"
	constraintPendingPair = "uq_coverage_requests_pending_pair"
)

// translateError maps driver errors onto domain sentinels. Errors it does
// not recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintActiveEntry:
				return fmt.Errorf("%w: %s", clock.ErrAlreadyClockedIn, pgErr.Message)
			case constraintPendingPair:
				return fmt.Errorf("%w: %s", coverage.ErrDuplicateRequest, pgErr.Message)
			}
		case codeInsufficientPrivilege:
			return fmt.Errorf("%w: %s", user.ErrPermissionDenied, pgErr.Message)
		case codeQueryCanceled, codeAdminShutdown, codeCannotConnectNow:
			return fmt.Errorf("%w: %s", database.ErrStoreUnavailable, pgErr.Message)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", database.ErrStoreUnavailable, err)
	}

	return err
}
