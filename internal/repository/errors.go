package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// notFound maps gorm's miss error to ErrNotFound and passes others through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
