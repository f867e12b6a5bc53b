package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/validator"
)

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []mapping{
	// Auth
	{user.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing access token"},
	{user.ErrManagerAccessRequired, http.StatusForbidden, "FORBIDDEN", "Manager access required"},
	{user.ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED", "You are not allowed to perform this action"},
	{user.ErrCompanyIDRequired, http.StatusForbidden, "FORBIDDEN", "Company membership required"},
	{user.ErrEmployeeIDRequired, http.StatusForbidden, "FORBIDDEN", "Employee profile required"},

	// Clock
	{clock.ErrAlreadyClockedIn, http.StatusConflict, "ALREADY_CLOCKED_IN", "You are already clocked in"},
	{clock.ErrNoActiveEntry, http.StatusConflict, "NO_ACTIVE_ENTRY", "No active clock entry"},
	{clock.ErrClockEntryNotFound, http.StatusNotFound, "NOT_FOUND", "Clock entry not found"},
	{clock.ErrNotEntryOwner, http.StatusForbidden, "FORBIDDEN", "Clock entry belongs to another employee"},
	{clock.ErrClockOutBeforeStart, http.StatusBadRequest, "BAD_REQUEST", "Clock out precedes clock in"},

	// Shift
	{shift.ErrShiftNotFound, http.StatusNotFound, "NOT_FOUND", "Shift not found"},
	{shift.ErrShiftNotAssigned, http.StatusForbidden, "FORBIDDEN", "Shift is not assigned to you"},
	{shift.ErrShiftAlreadyCovered, http.StatusConflict, "SHIFT_ALREADY_COVERED", "Shift already has an approved replacement"},

	// Coverage
	{coverage.ErrDuplicateRequest, http.StatusConflict, "DUPLICATE_REQUEST", "You already have a pending request for this shift"},
	{coverage.ErrRequestNotFound, http.StatusNotFound, "NOT_FOUND", "Coverage request not found"},
	{coverage.ErrRequestAlreadyProcessed, http.StatusConflict, "REQUEST_ALREADY_PROCESSED", "Coverage request already processed"},
	{coverage.ErrShiftNotCoverable, http.StatusConflict, "SHIFT_NOT_COVERABLE", "Shift is not available for coverage"},
	{coverage.ErrCannotCoverOwnShift, http.StatusBadRequest, "BAD_REQUEST", "You cannot cover your own shift"},

	// Location
	{location.ErrLocationUnavailable, http.StatusUnprocessableEntity, "LOCATION_UNAVAILABLE", "Location unavailable"},

	// Store
	{database.ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable, please retry"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			Error(w, m.status, m.code, m.message)
			return
		}
	}

	InternalServerError(w, "An unexpected error occurred")
}
