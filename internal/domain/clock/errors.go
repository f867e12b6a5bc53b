package clock

import "errors"

var (
	ErrAlreadyClockedIn    = errors.New("employee already has an active clock entry")
	ErrNoActiveEntry       = errors.New("no active clock entry")
	ErrClockEntryNotFound  = errors.New("clock entry not found")
	ErrNotEntryOwner       = errors.New("clock entry belongs to another employee")
	ErrClockOutBeforeStart = errors.New("clock out precedes clock in")
)
