package errors

import "fmt"

var (
	ErrInvalidModeTransition = fmt.Errorf("invalid conversation mode transition")
	ErrUnknownMessage        = fmt.Errorf("unknown message reference")
)
