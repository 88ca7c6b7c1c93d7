package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dialectPostgres = "postgres"

// Base is embedded by every repository; it holds the connection or the
// transaction handle the repository was scoped to.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// ForUpdate is DB(ctx) with SELECT ... FOR UPDATE on Postgres.
// SQLite serialises writers on its own and has no row locks.
func (b Base) ForUpdate(ctx context.Context) *gorm.DB {
	query := b.DB(ctx)
	if query.Dialector != nil && query.Dialector.Name() == dialectPostgres {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}
