// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Transaction interface for handling DB transactions.
type Transaction interface {
	Commit() error
	Rollback() error
}

// txKey carries an open transaction through a context so repository
// writes made with that context participate in it.
type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// gormTransaction is a wrapper for a GORM DB transaction.
type gormTransaction struct {
	tx *gorm.DB
}

// Commit finalizes the transaction.
func (t *gormTransaction) Commit() error {
	return t.tx.Commit().Error
}

// Rollback reverts the transaction.
func (t *gormTransaction) Rollback() error {
	slog.Warn("Rolling back transaction")
	return t.tx.Rollback().Error
}

// uniqueViolationCode is the Postgres error code raised when an insert or
// update breaks a unique index.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique-index violation, the
// store-level signal that backs the directory's case-insensitive
// uniqueness guarantee under concurrent writes.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
