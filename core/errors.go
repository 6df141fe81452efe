package core

import (
	"errors"
)

var (
	ErrNotDefined        = errors.New("not defined")
	ErrNotEnabled        = errors.New("not enabled")
	ErrNotHandled        = errors.New("not handled")
	ErrSerialization     = errors.New("malformed serialization")
	ErrValuesUnavailable = errors.New("parameter values unavailable")
	ErrExecution         = errors.New("execution failed")
)
