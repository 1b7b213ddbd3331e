package workspace

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotMember  = errors.New("not a workspace member")
	ErrForbidden  = errors.New("insufficient workspace role")
	ErrLastOwner  = errors.New("cannot remove the workspace owner")
)
