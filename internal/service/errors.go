package service

import (
	"errors"
	"fmt"

	"go-wigstore-api/internal/repository"
	"go-wigstore-api/pkg/validator"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")

	ErrNotFound          = repository.ErrNotFound
	ErrInsufficientStock = repository.ErrInsufficientStock

	ErrUnknownCategory      = fmt.Errorf("%w: category does not exist", ErrValidation)
	ErrProductUnavailable   = fmt.Errorf("%w: product is not available", ErrValidation)
	ErrVariantNotFound      = fmt.Errorf("%w: variant not found", ErrValidation)
	ErrOrderNotCancellable  = errors.New("order cannot be cancelled in its current status")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// ValidationError carries the first failed field of a request struct.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validate(req any) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{msg: validator.Message(errs)}
	}
	return nil
}
