package apperror

import "errors"

var (
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrInvalidStep     = errors.New("invalid history step")
	ErrSessionRequired = errors.New("session id is required")
	ErrUnknownAction   = errors.New("unknown action")
)
