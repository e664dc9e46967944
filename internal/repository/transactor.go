package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs a unit of work against one database transaction.
// Repositories join it through their WithTx methods.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
