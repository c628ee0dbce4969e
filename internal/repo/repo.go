package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by DecrementStock when the conditional
// update matches no row, i.e. the product is missing or has fewer units
// than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}

// InTx runs fn against a transaction-scoped copy of the repository.
func (r *GormRepo) InTx(fn func(tx *GormRepo) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}
