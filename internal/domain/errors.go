package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the transport can map them exhaustively.
type ErrorKind string

const (
	// KindValidation is a client fault; the message is safe to return.
	KindValidation ErrorKind = "validation"
	// KindUnexpected is anything else; the message stays internal.
	KindUnexpected ErrorKind = "unexpected"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unexpected(message string, cause error) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Cause: cause}
}

// KindOf returns the kind of err. Errors outside this taxonomy are unexpected.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}
