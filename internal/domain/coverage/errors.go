package coverage

import "errors"

var (
	ErrDuplicateRequest        = errors.New("a pending coverage request already exists for this shift")
	ErrRequestNotFound         = errors.New("coverage request not found")
	ErrRequestAlreadyProcessed = errors.New("coverage request has already been approved or denied")
	ErrShiftNotCoverable       = errors.New("shift is not available for coverage")
	ErrCannotCoverOwnShift     = errors.New("cannot request to cover your own shift")
)
