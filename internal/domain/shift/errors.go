package shift

import (
	"errors"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
)

var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftAlreadyCovered = errors.New("shift already has an approved replacement")
	ErrShiftNotAssigned    = errors.New("shift is not assigned to this employee")
)

// IsRecoverable reports whether err is a soft failure the detector logs and
// swallows. Only a rejected missed-transition write qualifies: the read-time
// projection compensates for it.
func IsRecoverable(err error) bool {
	return errors.Is(err, user.ErrPermissionDenied)
}
