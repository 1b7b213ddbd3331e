package task

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotMember  = errors.New("not a workspace member")
)
