package session

import "errors"

var (
	// ErrInStep is returned when an operation that mutates the world is
	// attempted while the engine is inside Step.
	ErrInStep = errors.New("session: engine is stepping")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session: closed")

	// ErrUnknownUnit indicates a unit kind id that is not in the catalog.
	ErrUnknownUnit = errors.New("session: unknown unit kind")

	// ErrParamIndex indicates a parameter index outside the scratch list.
	ErrParamIndex = errors.New("session: parameter index out of range")

	// ErrParamValue indicates text that does not parse as the parameter's type.
	ErrParamValue = errors.New("session: invalid parameter value")
)
