package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// ErrDuplicate is returned when a write hits a unique constraint
var ErrDuplicate = errors.New("unique constraint violation")

// Unique constraints callers tell apart
const (
	ConstraintUserEmail  = "users_email_key"
	ConstraintStoreEmail = "stores_email_key"
)

// DuplicateError names the unique constraint a write violated. It matches ErrDuplicate
// under errors.Is.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s (%s)", ErrDuplicate, e.Constraint)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// IsDuplicateOn reports whether err is a unique violation of constraint
func IsDuplicateOn(err error, constraint string) bool {
	var dup *DuplicateError
	return errors.As(err, &dup) && dup.Constraint == constraint
}

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can open transactions
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx runs fn inside a transaction, committing on success and rolling back
// on any error. A panic in fn rolls back before it propagates.
func withTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// wrapWriteErr turns unique violations into ErrDuplicate and wraps everything else with msg
func wrapWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", msg, &DuplicateError{Constraint: pgErr.ConstraintName})
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// orderBy returns an ORDER BY clause for a whitelisted sort field, falling back to def
func orderBy(columns map[string]string, field string, desc bool, def string) string {
	col, ok := columns[field]
	if !ok {
		col = columns[def]
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}
