package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands usecases a database handle bound to the request context
// and runs units of work atomically. fn's error rolls the whole unit back.
type Transactor interface {
	DB(ctx context.Context) *gorm.DB
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
