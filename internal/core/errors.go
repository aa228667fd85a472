package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps exactly one of these.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

var (
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a non-negative decimal", ErrValidation)
	ErrInvalidBalance     = fmt.Errorf("%w: balance must be a decimal", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidDueDate     = fmt.Errorf("%w: due date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidMonth       = fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
	ErrEmptyName          = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNameTooLong        = fmt.Errorf("%w: name too long (max 100 characters)", ErrValidation)
	ErrDescriptionTooLong = fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	ErrInvalidAccountType = fmt.Errorf("%w: account type must be checking, savings or credit", ErrValidation)
	ErrAccountNumber      = fmt.Errorf("%w: account number must contain at least 4 digits", ErrValidation)
	ErrMissingAccount     = fmt.Errorf("%w: account is required", ErrValidation)
	ErrInvalidSource      = fmt.Errorf("%w: invalid income source", ErrValidation)
	ErrInvalidCategory    = fmt.Errorf("%w: invalid expense category", ErrValidation)
	ErrSameAccount        = fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
	ErrEmptyCounterparty  = fmt.Errorf("%w: counterparty name is required", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: status must be pending, paid or overdue", ErrValidation)
	ErrInvalidKind        = fmt.Errorf("%w: obligation kind must be receivable or payable", ErrValidation)
)

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err signals a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// NotFound builds an ErrNotFound error naming the missing entity.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}
