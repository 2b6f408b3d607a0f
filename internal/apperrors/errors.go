package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure that should not be exposed in detail.
var ErrInternal = errors.New("internal error")

// Rate provider failures. All of them are recoverable by falling through to the next provider.
var (
	ErrTransport         = errors.New("rate provider transport failure")
	ErrMalformedResponse = errors.New("rate provider returned a malformed response")
	ErrRateNotFound      = errors.New("rate not present in provider response")
)

// ErrRateResolution is matched by every ResolutionError.
var ErrRateResolution = errors.New("all rate providers failed")

// Ledger posting failures. Each is fatal to a single posting.
var (
	ErrAccountResolution = errors.New("ledger account could not be resolved")
	ErrLedgerImbalance   = errors.New("ledger entries do not balance")
	ErrPersistence       = errors.New("ledger persistence failure")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ProviderFailure records why a single provider could not produce a rate.
type ProviderFailure struct {
	Provider string
	Err      error
}

// ResolutionError is returned when every candidate provider failed for a currency pair.
// Causes keeps the per-provider errors in the order they were attempted.
type ResolutionError struct {
	Base   string
	Target string
	Causes []ProviderFailure
}

func (e *ResolutionError) Error() string {
	if len(e.Causes) == 0 {
		return fmt.Sprintf("%s: %s->%s: no providers configured", ErrRateResolution, e.Base, e.Target)
	}
	parts := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		parts = append(parts, c.Provider+": "+c.Err.Error())
	}
	return fmt.Sprintf("%s: %s->%s: %s", ErrRateResolution, e.Base, e.Target, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrRateResolution) match.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrRateResolution
}

// Unwrap exposes every provider cause to errors.Is / errors.As.
func (e *ResolutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Causes))
	for _, c := range e.Causes {
		errs = append(errs, c.Err)
	}
	return errs
}

// Last returns the error of the last provider attempted, or nil.
func (e *ResolutionError) Last() error {
	if len(e.Causes) == 0 {
		return nil
	}
	return e.Causes[len(e.Causes)-1].Err
}
