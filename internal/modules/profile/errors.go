package profile

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrStorageDisabled = errors.New("avatar storage not configured")
)
