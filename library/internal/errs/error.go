package errs

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindInvalidInput:
		return "InvalidInput"
	}
	return "Unknown"
}

// Error is a domain error. Two errors match under errors.Is when their
// reasons are equal, so messages may carry ids.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Reason: e.Reason, Message: fmt.Sprintf(format, args...)}
}

const (
	ReasonMemberNotFound      = "MEMBER_NOT_FOUND"
	ReasonCatalogItemNotFound = "CATALOG_ITEM_NOT_FOUND"
	ReasonLoanNotFound        = "LOAN_NOT_FOUND"
	ReasonNoCopiesAvailable   = "NO_COPIES_AVAILABLE"
	ReasonAlreadyReturned     = "ALREADY_RETURNED"
	ReasonEmailTaken          = "EMAIL_TAKEN"
	ReasonInvalidInput        = "INVALID_INPUT"
)

var (
	ErrMemberNotFound      = &Error{Kind: KindNotFound, Reason: ReasonMemberNotFound, Message: "member not found"}
	ErrCatalogItemNotFound = &Error{Kind: KindNotFound, Reason: ReasonCatalogItemNotFound, Message: "catalog not found"}
	ErrLoanNotFound        = &Error{Kind: KindNotFound, Reason: ReasonLoanNotFound, Message: "rent not found"}
	ErrNoCopiesAvailable   = &Error{Kind: KindConflict, Reason: ReasonNoCopiesAvailable, Message: "no available copies for this book"}
	ErrAlreadyReturned     = &Error{Kind: KindConflict, Reason: ReasonAlreadyReturned, Message: "book has already been returned for this rent"}
	ErrEmailTaken          = &Error{Kind: KindConflict, Reason: ReasonEmailTaken, Message: "email is already registered"}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Reason: ReasonInvalidInput, Message: "invalid input"}
)

func Invalid(format string, args ...any) error {
	return ErrInvalidInput.Withf(format, args...)
}

// As returns the domain error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) (Kind, bool) {
	e, ok := As(err)
	if !ok {
		return 0, false
	}
	return e.Kind, true
}
