package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotFoundError indicates that no record matched the given ID within the
// caller's owner scope.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidQueryError indicates that the caller supplied input the store
// rejected: a malformed ID, an unknown field, or a query the store could
// not execute. Code carries the store error name when available.
type InvalidQueryError struct {
	Code    string
	Message string
	Cause   error
}

func (e *InvalidQueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("invalid query (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("invalid query: %s", e.Message)
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Cause
}

// UnavailableError indicates the store failed at the transport level
// (timeout, connection loss) rather than rejecting the query.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidQuery reports whether err is an InvalidQueryError.
func IsInvalidQuery(err error) bool {
	var target *InvalidQueryError
	return errors.As(err, &target)
}

// IsUnavailable reports whether err is an UnavailableError.
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

func invalidQuery(format string, args ...interface{}) *InvalidQueryError {
	return &InvalidQueryError{Message: fmt.Sprintf(format, args...)}
}

// storeError maps a raw store failure into the catalog error taxonomy.
// Transport-level failures become UnavailableError; everything else is a
// query the store rejected and becomes InvalidQueryError with the store's
// error code when one exists.
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err) {
		return &UnavailableError{Cause: err}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return &InvalidQueryError{Code: cmdErr.Name, Message: cmdErr.Message, Cause: err}
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) && len(writeErr.WriteErrors) > 0 {
		first := writeErr.WriteErrors[0]
		return &InvalidQueryError{
			Code:    fmt.Sprintf("%d", first.Code),
			Message: first.Message,
			Cause:   err,
		}
	}

	return &InvalidQueryError{Message: err.Error(), Cause: err}
}
