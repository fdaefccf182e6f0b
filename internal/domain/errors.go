package domain

import (
	"errors"
	"fmt"
)

// ErrorKind buckets every fault this system produces. Handlers and the CLI
// map kinds to operator messages and HTTP statuses; anything that arrives
// without a kind is treated as KindUnclassified.
type ErrorKind int

const (
	KindUnclassified ErrorKind = iota
	KindValidation             // amount ceiling, malformed card or amount text
	KindGateway                // network/timeout/bad request to the payment provider
	KindLedgerNotFound         // account missing or non-numeric
	KindLedgerPosting          // database failure during the posting unit
	KindNotification           // alert or email delivery failure, log-only
)

// Error is a fault tagged with its kind. It wraps the underlying cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a tagged error.
func E(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, or KindUnclassified.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnclassified
}

// ErrAccountNotFound is returned by account reads and matched with errors.Is;
// it carries KindLedgerNotFound so kind-based dispatch sees it too.
var ErrAccountNotFound = E(KindLedgerNotFound, "account not found", nil)
