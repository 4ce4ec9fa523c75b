package motor

import "errors"

// Domain errors for motor commands and configuration.
var (
	// ErrInvalidArgument indicates a command was rejected before it was queued.
	ErrInvalidArgument = errors.New("motor: invalid command argument")

	// ErrConfiguration indicates the simulator cannot be built from the given settings.
	ErrConfiguration = errors.New("motor: invalid configuration")
)
