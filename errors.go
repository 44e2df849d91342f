package tuition

import (
	"errors"
	"fmt"

	"github.com/xraph/tuition/settlement"
)

// Sentinel errors for common failure scenarios.
var (
	// Registration errors
	ErrAlreadyRegistered = errors.New("tuition: wallet already registered")
	ErrDuplicateID       = errors.New("tuition: student id already registered")
	ErrNotRegistered     = errors.New("tuition: student not registered")
	ErrDuplicateRequest  = errors.New("tuition: registration request already pending")
	ErrRequestNotFound   = errors.New("tuition: registration request not found")
	ErrRequestDecided    = errors.New("tuition: registration request already decided")

	// Fee schedule errors
	ErrInvalidAmount    = errors.New("tuition: amount must be positive")
	ErrInvalidDeadline  = errors.New("tuition: deadline must be in the future")
	ErrUnknownSemester  = errors.New("tuition: semester has no fee schedule")
	ErrInactiveSemester = errors.New("tuition: semester is not active")

	// Payment errors
	ErrAlreadyPaid        = errors.New("tuition: semester already paid")
	ErrInsufficientAmount = errors.New("tuition: amount does not cover the fee")
	ErrPaymentNotFound    = errors.New("tuition: payment not found")
	ErrAlreadyRefunded    = errors.New("tuition: payment already refunded")
	ErrNothingToRefund    = errors.New("tuition: nothing left to refund")
	ErrRefundInFlight     = errors.New("tuition: refund already in flight")
	ErrInvalidRange       = errors.New("tuition: invalid history range")

	// Scholarship errors
	ErrInvalidPercentage = errors.New("tuition: percentage must be between 0 and 100")

	// Snapshot errors
	ErrStoreNotReady = errors.New("tuition: snapshot store not ready")
	ErrStoreClosed   = errors.New("tuition: snapshot store is closed")
)

// Settlement errors are re-exported so callers matching on ledger errors do
// not need to import the settlement package.
var (
	ErrInsufficientFunds = settlement.ErrInsufficientFunds
	ErrTransferTimeout   = settlement.ErrTransferTimeout
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("tuition: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "tuition: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("tuition: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrUnknownSemester) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsConflict returns true if the error means the operation collided with
// existing state and retrying unchanged will not help.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrDuplicateRequest) ||
		errors.Is(err, ErrRequestDecided) ||
		errors.Is(err, ErrAlreadyPaid) ||
		errors.Is(err, ErrAlreadyRefunded)
}

// IsValidation returns true if the error is caused by invalid input.
func IsValidation(err error) bool {
	if errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDeadline) ||
		errors.Is(err, ErrInvalidPercentage) ||
		errors.Is(err, ErrInsufficientAmount) ||
		errors.Is(err, ErrInvalidRange) {
		return true
	}
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrRefundInFlight) ||
		errors.Is(err, ErrTransferTimeout)
}
