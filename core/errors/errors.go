// Package errors defines the error kinds shared by the escrow engines. Every
// concrete engine error wraps exactly one kind so transports can classify it
// with errors.Is.
package errors

import stderrors "errors"

var (
	// ErrUnauthorized covers callers that are not the record owner or admin,
	// or whose authorization proof is missing.
	ErrUnauthorized = stderrors.New("unauthorized")
	// ErrValidation covers malformed inputs rejected before any state change.
	ErrValidation = stderrors.New("validation failed")
	// ErrLifecycle covers operations attempted in the wrong state or window.
	ErrLifecycle = stderrors.New("invalid lifecycle state")
	// ErrNotFound covers unknown bounties, projects, submissions and milestones.
	ErrNotFound = stderrors.New("not found")
	// ErrFundSafety covers escrow accounting guards on milestone releases.
	ErrFundSafety = stderrors.New("fund safety violation")
)

// Kind returns the kind sentinel wrapped by err, or nil when err is not a
// classified engine error.
func Kind(err error) error {
	for _, kind := range []error{ErrUnauthorized, ErrValidation, ErrLifecycle, ErrNotFound, ErrFundSafety} {
		if stderrors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New returns a sentinel error with the supplied message that matches kind
// under errors.Is.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
