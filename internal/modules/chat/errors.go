package chat

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotMember      = errors.New("not a workspace member")
	ErrNotParticipant = errors.New("not a thread participant")
)
