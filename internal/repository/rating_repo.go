package repository

import (
	"context"
	"errors"
	"fmt"

	"store_rating/internal/model"

	"github.com/jackc/pgx/v5"
)

// RatingTx is the ledger view available inside a rating transaction.
// LockStore must be called first: it takes the per-store row lock that
// serializes aggregate recomputation for that store.
type RatingTx interface {
	LockStore(ctx context.Context, storeID int) (*model.Store, error)
	Upsert(ctx context.Context, rating *model.Rating) (created bool, err error)
	Delete(ctx context.Context, userID, storeID int) (deleted bool, err error)
	ScoreTotals(ctx context.Context, storeID int) (count int, sum int, err error)
	SetAggregate(ctx context.Context, storeID int, agg model.StoreAggregate) error
}

// RatingRepository defines operations for the rating ledger
type RatingRepository interface {
	// InTx runs fn in one transaction; any error from fn rolls back every write made through tx.
	InTx(ctx context.Context, fn func(tx RatingTx) error) error
	FindByUserAndStore(ctx context.Context, userID, storeID int) (*model.Rating, error)
	FindByUserForStores(ctx context.Context, userID int, storeIDs []int) (map[int]*model.Rating, error)
	ListByStore(ctx context.Context, storeID int, sort model.Sort, page model.Page) ([]model.RatingWithUser, int, error)
	RecentByStore(ctx context.Context, storeID, limit int) ([]model.RatingWithUser, error)
	Count(ctx context.Context) (int, error)
}

type ratingRepository struct {
	db DB
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(db DB) RatingRepository {
	return &ratingRepository{db: db}
}

var ratingSortColumns = map[string]string{
	"createdAt": "r.created_at",
	"updatedAt": "r.updated_at",
	"rating":    "r.rating",
}

func (r *ratingRepository) InTx(ctx context.Context, fn func(tx RatingTx) error) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&ratingTx{tx: tx})
	})
}

type ratingTx struct {
	tx pgx.Tx
}

// LockStore reads the store row with FOR UPDATE. Returns (nil, nil) if it does not exist.
func (t *ratingTx) LockStore(ctx context.Context, storeID int) (*model.Store, error) {
	s := &model.Store{}
	var avg float64
	sql := `SELECT id, name, email, address, owner_id, average_rating, total_ratings, is_active, created_at, updated_at
            FROM stores WHERE id = $1 FOR UPDATE`
	err := t.tx.QueryRow(ctx, sql, storeID).Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &avg,
		&s.TotalRatings, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock store: %w", err)
	}
	s.AverageRating = model.Decimal2(avg)
	return s, nil
}

// Upsert inserts the rating or, if (user, store) already has one, overwrites its
// score and, when non-nil, its comment. The rating is filled with the stored row.
func (t *ratingTx) Upsert(ctx context.Context, rating *model.Rating) (bool, error) {
	sql := `INSERT INTO ratings (user_id, store_id, rating, comment)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (user_id, store_id) DO UPDATE
            SET rating = EXCLUDED.rating, comment = COALESCE(EXCLUDED.comment, ratings.comment)
            RETURNING id, comment, created_at, updated_at, (xmax = 0) AS inserted`
	var created bool
	err := t.tx.QueryRow(ctx, sql, rating.UserID, rating.StoreID, rating.Rating, rating.Comment).
		Scan(&rating.ID, &rating.Comment, &rating.CreatedAt, &rating.UpdatedAt, &created)
	if err != nil {
		return false, wrapWriteErr("failed to upsert rating", err)
	}
	return created, nil
}

// Delete removes the (user, store) rating if present
func (t *ratingTx) Delete(ctx context.Context, userID, storeID int) (bool, error) {
	cmdTag, err := t.tx.Exec(ctx, `DELETE FROM ratings WHERE user_id = $1 AND store_id = $2`, userID, storeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete rating: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// ScoreTotals returns the number of ratings for a store and the sum of their scores
func (t *ratingTx) ScoreTotals(ctx context.Context, storeID int) (int, int, error) {
	var count, sum int
	sql := `SELECT COUNT(*), COALESCE(SUM(rating), 0) FROM ratings WHERE store_id = $1`
	if err := t.tx.QueryRow(ctx, sql, storeID).Scan(&count, &sum); err != nil {
		return 0, 0, fmt.Errorf("failed to total store ratings: %w", err)
	}
	return count, sum, nil
}

// SetAggregate persists the recomputed aggregate on the store row
func (t *ratingTx) SetAggregate(ctx context.Context, storeID int, agg model.StoreAggregate) error {
	sql := `UPDATE stores SET average_rating = $1, total_ratings = $2 WHERE id = $3`
	cmdTag, err := t.tx.Exec(ctx, sql, float64(agg.AverageRating), agg.TotalRatings, storeID)
	if err != nil {
		return fmt.Errorf("failed to update store aggregate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("store %d not found for aggregate update", storeID)
	}
	return nil
}

// FindByUserAndStore retrieves the rating a user gave a store
func (r *ratingRepository) FindByUserAndStore(ctx context.Context, userID, storeID int) (*model.Rating, error) {
	rt := &model.Rating{}
	sql := `SELECT id, user_id, store_id, rating, comment, created_at, updated_at
            FROM ratings WHERE user_id = $1 AND store_id = $2`
	err := r.db.QueryRow(ctx, sql, userID, storeID).
		Scan(&rt.ID, &rt.UserID, &rt.StoreID, &rt.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find rating: %w", err)
	}
	return rt, nil
}

// FindByUserForStores returns the user's ratings for the given stores keyed by store ID
func (r *ratingRepository) FindByUserForStores(ctx context.Context, userID int, storeIDs []int) (map[int]*model.Rating, error) {
	result := make(map[int]*model.Rating, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}
	sql := `SELECT id, user_id, store_id, rating, comment, created_at, updated_at
            FROM ratings WHERE user_id = $1 AND store_id = ANY($2)`
	rows, err := r.db.Query(ctx, sql, userID, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rt := &model.Rating{}
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.StoreID, &rt.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		result[rt.StoreID] = rt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}
	return result, nil
}

const ratingWithUserSelect = `SELECT r.id, r.user_id, r.store_id, r.rating, r.comment, r.created_at, r.updated_at, u.name, u.email
            FROM ratings r JOIN users u ON u.id = r.user_id
            WHERE r.store_id = $1`

// ListByStore returns one page of a store's ratings with rater details
func (r *ratingRepository) ListByStore(ctx context.Context, storeID int, sort model.Sort, page model.Page) ([]model.RatingWithUser, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ratings WHERE store_id = $1`, storeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count store ratings: %w", err)
	}

	sql := ratingWithUserSelect + orderBy(ratingSortColumns, sort.Field, sort.Desc, "createdAt") + ` LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, storeID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query store ratings: %w", err)
	}
	ratings, err := collectRatingsWithUser(rows)
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

// RecentByStore returns the newest ratings for a store
func (r *ratingRepository) RecentByStore(ctx context.Context, storeID, limit int) ([]model.RatingWithUser, error) {
	rows, err := r.db.Query(ctx, ratingWithUserSelect+` ORDER BY r.created_at DESC LIMIT $2`, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent ratings: %w", err)
	}
	return collectRatingsWithUser(rows)
}

func collectRatingsWithUser(rows pgx.Rows) ([]model.RatingWithUser, error) {
	defer rows.Close()

	var ratings []model.RatingWithUser
	for rows.Next() {
		var rt model.RatingWithUser
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.StoreID, &rt.Rating.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt,
			&rt.User.Name, &rt.User.Email); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		rt.User.ID = rt.UserID
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}
	return ratings, nil
}

// Count returns the total number of ratings
func (r *ratingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}
