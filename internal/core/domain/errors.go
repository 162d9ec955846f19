package domain

import (
	"errors"
	"fmt"
)

// Kind groups errors by who is at fault and how the caller should react.
type Kind string

const (
	KindValidation      Kind = "validation_error"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindGateway         Kind = "gateway_error"
	KindTooManyRequests Kind = "too_many_requests"
	KindInternal        Kind = "internal_error"
)

// Error is the single error type returned by the core. Code is stable and
// machine readable, Msg is for humans.
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so that a sentinel with extra detail still compares
// equal to the bare sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Kind == e.Kind && t.Msg == e.Msg
}

// WithMsg returns a copy carrying a more specific message.
func (e *Error) WithMsg(format string, args ...any) *Error {
	cp := *e
	cp.Msg = fmt.Sprintf(format, args...)
	return &cp
}

// Wrap returns a copy with err attached as the cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

var (
	ErrInsufficientInventory = &Error{Kind: KindConflict, Code: "insufficient_inventory", Msg: "not enough seats available"}
	ErrInvalidTransition     = &Error{Kind: KindConflict, Code: "invalid_transition", Msg: "status transition not allowed"}
	ErrAlreadyProcessed      = &Error{Kind: KindConflict, Code: "already_processed", Msg: "booking already processed"}
	ErrPaymentNotCompleted   = &Error{Kind: KindConflict, Code: "payment_not_completed", Msg: "payment has not been completed"}
	ErrAlreadyCancelled      = &Error{Kind: KindConflict, Code: "already_cancelled", Msg: "booking already cancelled"}
	ErrAlreadyCompleted      = &Error{Kind: KindConflict, Code: "already_completed", Msg: "booking already completed"}
	ErrExtensionLimit        = &Error{Kind: KindConflict, Code: "extension_limit", Msg: "booking hold cannot be extended further"}
	ErrDuplicatePNR          = &Error{Kind: KindConflict, Code: "duplicate_pnr", Msg: "pnr already in use"}
	ErrOpenPaymentExists     = &Error{Kind: KindConflict, Code: "open_payment_exists", Msg: "booking already has an open payment"}
	ErrAlreadyExists         = &Error{Kind: KindConflict, Code: "already_exists", Msg: "resource already exists"}

	ErrInvalidSignature = &Error{Kind: KindGateway, Code: "invalid_signature", Msg: "invalid gateway signature"}
	ErrAmountMismatch   = &Error{Kind: KindGateway, Code: "amount_mismatch", Msg: "callback amount does not match payment"}
	ErrPaymentNotFound  = &Error{Kind: KindNotFound, Code: "payment_not_found", Msg: "payment not found"}

	ErrTicketGeneration = &Error{Kind: KindInternal, Code: "ticket_generation_error", Msg: "ticket generation failed"}
	ErrInvalidTicket    = &Error{Kind: KindValidation, Code: "invalid_ticket", Msg: "ticket payload could not be verified"}

	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Code: "unauthorized", Msg: "authentication required"}
	ErrForbidden       = &Error{Kind: KindForbidden, Code: "forbidden", Msg: "access denied"}
	ErrTooManyRequests = &Error{Kind: KindTooManyRequests, Code: "too_many_requests", Msg: "too many requests"}
)

func NewValidationError(field, msg string) *Error {
	if field != "" {
		msg = fmt.Sprintf("%s: %s", field, msg)
	}
	return &Error{Kind: KindValidation, Code: "validation_error", Msg: msg}
}

func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: resource + "_not_found", Msg: resource + " not found"}
}

func NewInternalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Msg: msg, Err: err}
}

// KindOf reports the kind of err, defaulting to internal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf reports the stable code of err, or "internal_error".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "internal_error"
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
