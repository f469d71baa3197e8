package entity

import "fmt"

// ErrorKind classifies a domain error for handling at the edges
type ErrorKind string

const (
	// KindValidation covers bad input rejected before any lock is taken
	KindValidation ErrorKind = "validation"
	// KindDomain covers failures detected inside the atomic unit
	KindDomain ErrorKind = "domain"
	// KindNotFound covers unknown or not-owned resources
	KindNotFound ErrorKind = "not_found"
	// KindContention covers lock-wait timeouts; callers may retry
	KindContention ErrorKind = "contention"
)

// Error is a typed domain error carrying its classification
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is allows errors.Is matching against the sentinel values below
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Sentinel domain errors. Wrap with context where useful; match with errors.Is.
var (
	ErrInvalidTransactionType = &Error{Kind: KindValidation, Message: "invalid transaction type"}
	ErrRelatedAccountRequired = &Error{Kind: KindValidation, Message: "related account is required for a transfer"}
	ErrInvalidAmount          = &Error{Kind: KindValidation, Message: "amount must be a positive value"}
	ErrInvalidCurrency        = &Error{Kind: KindValidation, Message: "currency must be a 3-letter code"}

	ErrInsufficientFunds = &Error{Kind: KindDomain, Message: "insufficient balance"}
	ErrRateUnavailable   = &Error{Kind: KindDomain, Message: "exchange rate not available"}
	ErrAccountNotEmpty   = &Error{Kind: KindDomain, Message: "account balance must be zero"}

	ErrAccountNotFound     = &Error{Kind: KindNotFound, Message: "account not found"}
	ErrTransactionNotFound = &Error{Kind: KindNotFound, Message: "transaction not found"}
	ErrRateNotFound        = &Error{Kind: KindNotFound, Message: "exchange rate not found"}

	ErrLockTimeout = &Error{Kind: KindContention, Message: "timed out waiting for account lock"}
)

// KindOf reports the classification of err, walking wrapped chains.
// Errors outside the taxonomy report an empty kind.
func KindOf(err error) ErrorKind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Wrap annotates err with context while preserving its classification
func Wrap(err error, format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, err)...)
}
