package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"store_rating/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeWithOwnerColumns = []string{"id", "name", "email", "address", "owner_id", "average_rating", "total_ratings",
	"is_active", "created_at", "updated_at", "owner_name", "owner_email"}

func TestStoreRepository_ListSearchColumns(t *testing.T) {
	tests := []struct {
		name         string
		includeEmail bool
		condition    string
	}{
		{"user listing", false, `(s.name ILIKE $1 OR s.address ILIKE $1)`},
		{"admin listing", true, `(s.name ILIKE $1 OR s.email ILIKE $1 OR s.address ILIKE $1)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewStoreRepository(mock)
			page := model.Page{Number: 1, Limit: 10}

			mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM stores s WHERE s.is_active = TRUE AND ` + tt.condition)).
				WithArgs("%harbour%").
				WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.is_active = TRUE AND ` + tt.condition + ` ORDER BY s.name ASC LIMIT $2 OFFSET $3`)).
				WithArgs("%harbour%", 10, 0).
				WillReturnRows(pgxmock.NewRows(storeWithOwnerColumns))

			stores, total, err := repo.List(context.Background(), model.StoreFilters{
				Search:       "harbour",
				IncludeEmail: tt.includeEmail,
				Sort:         model.Sort{Field: "name"},
				Page:         page,
			})

			require.NoError(t, err)
			assert.Empty(t, stores)
			assert.Equal(t, 0, total)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStoreRepository_CreateWithOwnerNamesConstraint(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStoreRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), model.RoleStoreOwner, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: ConstraintUserEmail})
	mock.ExpectRollback()

	err := repo.CreateWithOwner(context.Background(), &model.Store{}, &model.User{})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.True(t, IsDuplicateOn(err, ConstraintUserEmail))
	assert.False(t, IsDuplicateOn(err, ConstraintStoreEmail))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateOn(t *testing.T) {
	assert.False(t, IsDuplicateOn(ErrDuplicate, ConstraintUserEmail))
	assert.False(t, IsDuplicateOn(errors.New("connection reset"), ConstraintUserEmail))
	assert.True(t, IsDuplicateOn(wrapWriteErr("failed to create store", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintStoreEmail}), ConstraintStoreEmail))
	assert.False(t, errors.Is(wrapWriteErr("failed to create store", &pgconn.PgError{Code: "23503"}), ErrDuplicate))
}
