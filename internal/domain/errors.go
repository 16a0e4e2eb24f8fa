package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned when a problem number is outside the catalog.
	ErrInvalidSelection = errors.New("invalid problem selection")
	// ErrInvalidAnswerFormat is returned when a submitted answer is not an integer.
	ErrInvalidAnswerFormat = errors.New("invalid answer format")
	// ErrWrongAdminSecret denies access to admin operations.
	ErrWrongAdminSecret = errors.New("wrong admin secret")
	// ErrUserNotFound is returned when acting on a user that never registered.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidProblem indicates the fields for a new problem could not be parsed.
	ErrInvalidProblem = errors.New("invalid problem")
	// ErrMalformedRecord matches any MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed catalog record")
)

// MalformedRecordError identifies a catalog line that failed to parse.
type MalformedRecordError struct {
	Line int
	Text string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("catalog line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
