package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"store_rating/internal/model"

	"github.com/jackc/pgx/v5"
)

// StoreRepository defines read and creation operations for stores.
// The aggregate columns are written only through RatingRepository.
type StoreRepository interface {
	FindByID(ctx context.Context, id int) (*model.StoreWithOwner, error)
	FindByEmail(ctx context.Context, email string) (*model.Store, error)
	List(ctx context.Context, filters model.StoreFilters) ([]model.StoreWithOwner, int, error)
	CountActive(ctx context.Context) (int, error)
	// CreateWithOwner inserts the owner, the store and the owner's store
	// reference in one transaction.
	CreateWithOwner(ctx context.Context, store *model.Store, owner *model.User) error
}

type storeRepository struct {
	db DB
}

// NewStoreRepository creates a new StoreRepository
func NewStoreRepository(db DB) StoreRepository {
	return &storeRepository{db: db}
}

const storeWithOwnerSelect = `SELECT s.id, s.name, s.email, s.address, s.owner_id, s.average_rating, s.total_ratings,
                   s.is_active, s.created_at, s.updated_at, u.name, u.email
            FROM stores s JOIN users u ON u.id = s.owner_id`

var storeSortColumns = map[string]string{
	"name":          "s.name",
	"email":         "s.email",
	"address":       "s.address",
	"averageRating": "s.average_rating",
	"totalRatings":  "s.total_ratings",
	"createdAt":     "s.created_at",
}

func scanStoreWithOwner(row pgx.Row, s *model.StoreWithOwner) error {
	var avg float64
	owner := &model.UserSummary{}
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &avg, &s.TotalRatings,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt, &owner.Name, &owner.Email); err != nil {
		return err
	}
	s.AverageRating = model.Decimal2(avg)
	owner.ID = s.OwnerID
	s.Owner = owner
	return nil
}

// FindByID retrieves a store and its owner, active or not
func (r *storeRepository) FindByID(ctx context.Context, id int) (*model.StoreWithOwner, error) {
	s := &model.StoreWithOwner{}
	err := scanStoreWithOwner(r.db.QueryRow(ctx, storeWithOwnerSelect+` WHERE s.id = $1`, id), s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find store by ID: %w", err)
	}
	return s, nil
}

// FindByEmail retrieves a store by its email
func (r *storeRepository) FindByEmail(ctx context.Context, email string) (*model.Store, error) {
	s := &model.Store{}
	var avg float64
	sql := `SELECT id, name, email, address, owner_id, average_rating, total_ratings, is_active, created_at, updated_at
            FROM stores WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &avg,
		&s.TotalRatings, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find store by email: %w", err)
	}
	s.AverageRating = model.Decimal2(avg)
	return s, nil
}

// List returns one page of active stores matching filters, plus the total match count
func (r *storeRepository) List(ctx context.Context, filters model.StoreFilters) ([]model.StoreWithOwner, int, error) {
	conditions := []string{"s.is_active = TRUE"}
	args := []interface{}{}
	argCount := 1

	if filters.Search != "" {
		columns := []string{"s.name", "s.address"}
		if filters.IncludeEmail {
			columns = []string{"s.name", "s.email", "s.address"}
		}
		matches := make([]string, len(columns))
		for i, col := range columns {
			matches[i] = fmt.Sprintf("%s ILIKE $%d", col, argCount)
		}
		conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stores s`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(storeWithOwnerSelect)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(orderBy(storeSortColumns, filters.Sort.Field, filters.Sort.Desc, "name"))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.Page.Limit, filters.Page.Offset())

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []model.StoreWithOwner
	for rows.Next() {
		var s model.StoreWithOwner
		if err := scanStoreWithOwner(rows, &s); err != nil {
			return nil, 0, fmt.Errorf("failed to scan store row: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating store rows: %w", err)
	}
	return stores, total, nil
}

// CountActive returns the number of active stores
func (r *storeRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE is_active = TRUE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active stores: %w", err)
	}
	return n, nil
}

// CreateWithOwner creates a store owner account and its store atomically
func (r *storeRepository) CreateWithOwner(ctx context.Context, store *model.Store, owner *model.User) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		owner.Role = model.RoleStoreOwner
		if err := createUser(ctx, tx, owner); err != nil {
			return err
		}

		var avg float64
		sql := `INSERT INTO stores (name, email, address, owner_id, is_active)
                VALUES ($1, $2, $3, $4, TRUE)
                RETURNING id, average_rating, total_ratings, is_active, created_at, updated_at`
		err := tx.QueryRow(ctx, sql, store.Name, store.Email, store.Address, owner.ID).
			Scan(&store.ID, &avg, &store.TotalRatings, &store.IsActive, &store.CreatedAt, &store.UpdatedAt)
		if err != nil {
			return wrapWriteErr("failed to create store", err)
		}
		store.OwnerID = owner.ID
		store.AverageRating = model.Decimal2(avg)

		if _, err := tx.Exec(ctx, `UPDATE users SET store_id = $1 WHERE id = $2`, store.ID, owner.ID); err != nil {
			return fmt.Errorf("failed to link owner to store: %w", err)
		}
		owner.StoreID = &store.ID
		return nil
	})
}
