package gate

import "errors"

// Sentinel errors returned by Gate.Authorize and ParseRole.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
	ErrUnknownRole     = errors.New("unknown role")
)
