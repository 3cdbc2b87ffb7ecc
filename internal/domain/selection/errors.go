package selection

import "errors"

// Sentinel kinds for selection errors.
var (
	// ErrInvalidSelection is returned when team B would equal team A.
	ErrInvalidSelection = errors.New("invalid selection")
	ErrUnknownField     = errors.New("unknown selection field")
	ErrUnknownDate      = errors.New("unknown date option")
)
