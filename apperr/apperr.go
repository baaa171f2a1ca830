// Package apperr classifies the failures the ledger surfaces to callers:
// invalid input, missing provisioning, store failures and missing entities.
// Handlers map kinds to HTTP statuses; services never touch HTTP.
package apperr

import "errors"

// Kind is the error class.
type Kind int

const (
	// KindValidation - malformed or missing input; nothing was written.
	KindValidation Kind = iota
	// KindConfiguration - expected reserved data (e.g. the owner's transfer
	// category) is missing; requires provisioning, not user action.
	KindConfiguration
	// KindDataAccess - the underlying store failed during a read or write.
	KindDataAccess
	// KindNotFound - the entity does not exist or is not owned by the caller.
	KindNotFound
)

// Error carries a short human-readable message plus a structured detail map.
type Error struct {
	Kind    Kind
	Message string
	Detail  map[string]string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a KindValidation error with field-level detail.
func Validation(message string, detail map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Detail: detail}
}

// Configuration builds a KindConfiguration error.
func Configuration(message string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Err: err}
}

// DataAccess builds a KindDataAccess error.
func DataAccess(message string, err error) *Error {
	return &Error{Kind: KindDataAccess, Message: message, Err: err}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf extracts the Kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether the error chain contains an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
