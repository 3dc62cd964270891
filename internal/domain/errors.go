package domain

import (
	"errors"
	"fmt"
)

// The three failure classes every service operation can report. Handlers map
// them to 400/404/409; anything else is a server error.

type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string { return e.Msg }

type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string { return e.Msg }

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func NotFoundf(format string, args ...any) error {
	return NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func Validationf(field, format string, args ...any) error {
	return ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e ConflictError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e ValidationError
	return errors.As(err, &e)
}
