package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business or datastore failure so callers can react without
// parsing messages.
type Kind string

const (
	KindInvalidInput          Kind = "INVALID_INPUT"
	KindInvalidDurationCode   Kind = "INVALID_DURATION_CODE"
	KindDuplicateSubscription Kind = "DUPLICATE_SUBSCRIPTION"
	KindNoPaymentMethod       Kind = "NO_PAYMENT_METHOD"
	KindInsufficientFunds     Kind = "INSUFFICIENT_FUNDS"
	KindNotSubscribed         Kind = "NOT_SUBSCRIBED"
	KindNotFound              Kind = "NOT_FOUND"
	KindAlreadyActive         Kind = "ALREADY_ACTIVE"
	KindTransactionFailed     Kind = "TRANSACTION_FAILED"
	KindInternal              Kind = "SERVER_ERROR"
)

// Sentinels for errors.Is matching against any *Error of the same kind.
var (
	ErrInvalidInput          = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrInvalidDurationCode   = &Error{Kind: KindInvalidDurationCode, Message: "invalid duration code"}
	ErrDuplicateSubscription = &Error{Kind: KindDuplicateSubscription, Message: "already subscribed to this service with these terms"}
	ErrNoPaymentMethod       = &Error{Kind: KindNoPaymentMethod, Message: "user has no bank card to bill the subscription"}
	ErrInsufficientFunds     = &Error{Kind: KindInsufficientFunds, Message: "insufficient funds on the bank card"}
	ErrNotSubscribed         = &Error{Kind: KindNotSubscribed, Message: "not subscribed to this service with these terms"}
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAlreadyActive         = &Error{Kind: KindAlreadyActive, Message: "card is already active"}
	ErrTransactionFailed     = &Error{Kind: KindTransactionFailed, Message: "transaction could not be committed"}
)

// Error is the error type returned by the billing core.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so wrapped errors match the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates an error of the given kind with a human-readable message
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and message to an underlying cause
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message. Errors without a kind get a generic
// message so driver details never leak to clients.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "operation could not be completed"
}

// HTTPStatus maps an error kind to the response status used by the API layer
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput, KindInvalidDurationCode, KindDuplicateSubscription,
		KindNoPaymentMethod, KindInsufficientFunds, KindNotSubscribed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyActive:
		return http.StatusOK
	case KindTransactionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
