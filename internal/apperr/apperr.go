// Package apperr defines the error kinds surfaced by the cart and order pipeline.
// Every failure carries a Kind so callers (HTTP handlers, CLI) can render a
// specific message without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. All kinds are recoverable by the caller.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidQuantity
	KindInsufficientStock
	KindIndexOutOfRange
	KindEmptyCart
	KindDiscountExpired
	KindDiscountMinimumNotMet
	KindDiscountUnknown
	KindAlreadyCancelled
	KindInvalidTransition
	KindNotFound
	KindInvalidInput
	KindForbidden
	KindPersistenceFailure
	KindTransactionConflict
)

var kindCodes = map[Kind]string{
	KindUnknown:               "unknown",
	KindInvalidQuantity:       "invalid_quantity",
	KindInsufficientStock:     "insufficient_stock",
	KindIndexOutOfRange:       "index_out_of_range",
	KindEmptyCart:             "empty_cart",
	KindDiscountExpired:       "discount_expired",
	KindDiscountMinimumNotMet: "discount_minimum_not_met",
	KindDiscountUnknown:       "discount_unknown",
	KindAlreadyCancelled:      "already_cancelled",
	KindInvalidTransition:     "invalid_transition",
	KindNotFound:              "not_found",
	KindInvalidInput:          "invalid_input",
	KindForbidden:             "forbidden",
	KindPersistenceFailure:    "persistence_failure",
	KindTransactionConflict:   "transaction_conflict",
}

// String returns the stable snake_case code of the kind, used as the JSON error
// code and as the translation key.
func (k Kind) String() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return kindCodes[KindUnknown]
}

// Error is the concrete error type returned by the domain packages.
type Error struct {
	Kind   Kind
	Op     string // operation that failed, e.g. "cart.AddItem"
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so the sentinels below work with
// errors.Is regardless of Op and Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Detail == "" && t.Err == nil
}

// Sentinels for errors.Is.
var (
	ErrInvalidQuantity       = &Error{Kind: KindInvalidQuantity}
	ErrInsufficientStock     = &Error{Kind: KindInsufficientStock}
	ErrIndexOutOfRange       = &Error{Kind: KindIndexOutOfRange}
	ErrEmptyCart             = &Error{Kind: KindEmptyCart}
	ErrDiscountExpired       = &Error{Kind: KindDiscountExpired}
	ErrDiscountMinimumNotMet = &Error{Kind: KindDiscountMinimumNotMet}
	ErrDiscountUnknown       = &Error{Kind: KindDiscountUnknown}
	ErrAlreadyCancelled      = &Error{Kind: KindAlreadyCancelled}
	ErrInvalidTransition     = &Error{Kind: KindInvalidTransition}
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrForbidden             = &Error{Kind: KindForbidden}
	ErrPersistenceFailure    = &Error{Kind: KindPersistenceFailure}
	ErrTransactionConflict   = &Error{Kind: KindTransactionConflict}
)

// New builds an error of the given kind.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
