package user

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or missing access token")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrCompanyIDRequired     = errors.New("company ID is required")
	ErrEmployeeIDRequired    = errors.New("employee ID is required")
)
