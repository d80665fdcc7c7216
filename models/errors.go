package models

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a category, dish, cart line or profile is absent.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// ValidationError reports a bad field value or a cross-field constraint violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// PermissionError is returned when an operation requires sign-in or the admin role.
type PermissionError struct {
	Action string
}

func (e *PermissionError) Error() string {
	return "not allowed to " + e.Action
}

// RemoteStoreError wraps any backend failure.
type RemoteStoreError struct {
	Op  string
	Err error
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *RemoteStoreError) Unwrap() error { return e.Err }

// DeserializationError is returned when a stored document does not match its schema.
type DeserializationError struct {
	Kind   string
	ID     string
	Reason string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode %s %s: %s", e.Kind, e.ID, e.Reason)
}

func NotFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func StoreError(op string, err error) error {
	return &RemoteStoreError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
