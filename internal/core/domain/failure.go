package domain

import (
	"errors"
	"fmt"
)

// Kind groups failure reasons by how callers are expected to handle them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindQuota
	KindNotFound
)

// Reason tags the outcome of a failed use case.
type Reason string

const (
	ReasonEmptyTitle         Reason = "EmptyTitle"
	ReasonTooFewOptions      Reason = "TooFewOptions"
	ReasonInvalidTagsFormat  Reason = "InvalidTagsFormat"
	ReasonInvalidTagFilter   Reason = "InvalidTagFilter"
	ReasonInvalidID          Reason = "InvalidID"
	ReasonInvalidOption      Reason = "InvalidOption"
	ReasonAlreadyActed       Reason = "AlreadyActed"
	ReasonDailyLimitExceeded Reason = "DailyLimitExceeded"
	ReasonNotFound           Reason = "NotFound"
	ReasonUnknownError       Reason = "UnknownError"
)

func (r Reason) Kind() Kind {
	switch r {
	case ReasonEmptyTitle, ReasonTooFewOptions, ReasonInvalidTagsFormat,
		ReasonInvalidTagFilter, ReasonInvalidID, ReasonInvalidOption:
		return KindValidation
	case ReasonAlreadyActed:
		return KindConflict
	case ReasonDailyLimitExceeded:
		return KindQuota
	case ReasonNotFound:
		return KindNotFound
	case ReasonUnknownError:
		return KindUnknown
	}
	return KindUnknown
}

// Failure is the error every use case returns. Err carries the cause.
type Failure struct {
	Reason Reason
	Err    error
}

func Fail(reason Reason, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) Kind() Kind {
	return f.Reason.Kind()
}

// AsFailure extracts the Failure from err. Errors that are not failures are
// reported as UnknownError wrapping the cause.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Fail(ReasonUnknownError, err)
}
