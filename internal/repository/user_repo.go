package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"store_rating/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindDetailByID(ctx context.Context, id int) (*model.UserDetail, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	List(ctx context.Context, filters model.UserFilters) ([]model.UserDetail, int, error)
	CountActive(ctx context.Context) (int, error)
	// DeactivateWithStore flips is_active to false on the user and, when storeID
	// is set, on that store, in a single transaction.
	DeactivateWithStore(ctx context.Context, userID int, storeID *int) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, address, role, store_id, is_active, created_at, updated_at`

var userSortColumns = map[string]string{
	"name":      "u.name",
	"email":     "u.email",
	"address":   "u.address",
	"role":      "u.role",
	"createdAt": "u.created_at",
}

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Address, &u.Role,
		&u.StoreID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return createUser(ctx, r.db, user)
}

func createUser(ctx context.Context, q Querier, user *model.User) error {
	sql := `INSERT INTO users (name, email, password_hash, address, role, store_id, is_active)
            VALUES ($1, $2, $3, $4, $5, $6, TRUE) RETURNING id, is_active, created_at, updated_at`
	err := q.QueryRow(ctx, sql, user.Name, user.Email, user.PasswordHash, user.Address, user.Role, user.StoreID).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return wrapWriteErr("failed to create user", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email, active or not
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, email), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID, active or not
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, id), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindDetailByID retrieves a user with a summary of the store they own
func (r *userRepository) FindDetailByID(ctx context.Context, id int) (*model.UserDetail, error) {
	sql := `SELECT u.id, u.name, u.email, u.password_hash, u.address, u.role, u.store_id, u.is_active, u.created_at, u.updated_at,
                   s.id, s.name, s.average_rating
            FROM users u LEFT JOIN stores s ON s.id = u.store_id
            WHERE u.id = $1`
	rows, err := r.db.Query(ctx, sql, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query user detail: %w", err)
	}
	details, err := collectUserDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, nil
	}
	return &details[0], nil
}

// UpdatePassword replaces the stored credential hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found for password update", id)
	}
	return nil
}

// List returns one page of active users matching filters, plus the total match count
func (r *userRepository) List(ctx context.Context, filters model.UserFilters) ([]model.UserDetail, int, error) {
	conditions := []string{"u.is_active = TRUE"}
	args := []interface{}{}
	argCount := 1

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(u.name ILIKE $%d OR u.email ILIKE $%d OR u.address ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}
	if filters.Role != "" {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argCount))
		args = append(args, filters.Role)
		argCount++
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	countSQL := `SELECT COUNT(*) FROM users u` + whereClause
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT u.id, u.name, u.email, u.password_hash, u.address, u.role, u.store_id, u.is_active, u.created_at, u.updated_at,
                   s.id, s.name, s.average_rating
            FROM users u LEFT JOIN stores s ON s.id = u.store_id`)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(orderBy(userSortColumns, filters.Sort.Field, filters.Sort.Desc, "name"))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.Page.Limit, filters.Page.Offset())

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	users, err := collectUserDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func collectUserDetails(rows pgx.Rows) ([]model.UserDetail, error) {
	defer rows.Close()

	var users []model.UserDetail
	for rows.Next() {
		var d model.UserDetail
		var storeID *int
		var storeName *string
		var storeAvg *float64
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.PasswordHash, &d.Address, &d.Role,
			&d.StoreID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
			&storeID, &storeName, &storeAvg); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		if storeID != nil {
			d.Store = &model.StoreSummary{ID: *storeID}
			if storeName != nil {
				d.Store.Name = *storeName
			}
			if storeAvg != nil {
				d.Store.AverageRating = model.Decimal2(*storeAvg)
			}
		}
		users = append(users, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// CountActive returns the number of active users
func (r *userRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return n, nil
}

// DeactivateWithStore soft-deletes a user and their paired store
func (r *userRepository) DeactivateWithStore(ctx context.Context, userID int, storeID *int) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("failed to deactivate user: %w", err)
		}
		if storeID == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `UPDATE stores SET is_active = FALSE WHERE id = $1`, *storeID); err != nil {
			return fmt.Errorf("failed to deactivate store: %w", err)
		}
		return nil
	})
}
