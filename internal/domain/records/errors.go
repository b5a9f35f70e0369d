package records

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure surfaced by the store and the services built on it
type ErrorKind int

const (
	// KindUnknown is any failure not covered by a more specific kind
	KindUnknown ErrorKind = iota
	// KindStoreUnavailable means the store is not open
	KindStoreUnavailable
	// KindNotFound means the addressed record is absent
	KindNotFound
	// KindKey means the encryption key is missing, malformed, or does not match the store
	KindKey
	// KindImport means a snapshot could not be read or is incompatible
	KindImport
)

func (k ErrorKind) String() string {
	switch k {
	case KindStoreUnavailable:
		return "store unavailable"
	case KindNotFound:
		return "not found"
	case KindKey:
		return "key error"
	case KindImport:
		return "import error"
	default:
		return "unknown error"
	}
}

// Error is the error type of the records domain
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Sentinels for errors.Is matching on kind
var (
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrKey              = &Error{Kind: KindKey}
	ErrImport           = &Error{Kind: KindImport}
	ErrUnknown          = &Error{Kind: KindUnknown}
)

// NewError wraps err with a kind and the operation that failed
func NewError(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of Op and wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Classify wraps err as KindUnknown unless it already carries a kind
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return NewError(KindUnknown, op, err)
}
