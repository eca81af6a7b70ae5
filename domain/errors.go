package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures returned by the engine.
type Kind string

const (
	KindConfiguration   Kind = "CONFIGURATION"
	KindDataUnavailable Kind = "DATA_UNAVAILABLE"
	KindValidation      Kind = "VALIDATION"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrDataUnavailable = errors.New("data unavailable")
	ErrValidation      = errors.New("validation error")
)

type Error struct {
	Kind    Kind
	Field   string
	Value   any
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s (got %v)", e.Kind, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Is lets errors.Is match an *Error against the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrDataUnavailable:
		return e.Kind == KindDataUnavailable
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

func NewValidationError(field string, value any, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Value: value, Message: msg}
}

func NewConfigurationError(msg string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(msg, args...)}
}

func NewDataUnavailableError(msg string, args ...any) *Error {
	return &Error{Kind: KindDataUnavailable, Message: fmt.Sprintf(msg, args...)}
}
