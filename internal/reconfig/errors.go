package reconfig

import "errors"

var (
	// ErrConfigVersionTooNew is returned when a config file has a version
	// newer than what this package supports.
	ErrConfigVersionTooNew = errors.New("reconfig: config version too new")

	// ErrInvalidValue is returned when a decoded field is out of range
	// (e.g. a negative duration or a fraction outside [0, 1]).
	ErrInvalidValue = errors.New("reconfig: invalid value")
)
