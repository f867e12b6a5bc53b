package location

import "errors"

var (
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrOutsideSite         = errors.New("position is outside the work site radius")
)
