package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"store_rating/internal/logger"
	"store_rating/internal/metrics"
	"store_rating/internal/model"
	"store_rating/internal/repository"
)

// RatingService is the only writer of store aggregates: every ledger change
// it makes recomputes the store's average and count in the same transaction.
type RatingService interface {
	SubmitRating(ctx context.Context, userID int, req model.SubmitRatingRequest) (rating *model.Rating, created bool, err error)
	DeleteRating(ctx context.Context, userID, storeID int) error
	StoreRatingsForOwner(ctx context.Context, ownerID int, sort model.Sort, page model.Page) (*model.Store, []model.RatingWithUser, model.Pagination, error)
}

type ratingService struct {
	ratings repository.RatingRepository
	users   repository.UserRepository
	stores  repository.StoreRepository
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewRatingService creates a new RatingService
func NewRatingService(ratings repository.RatingRepository, users repository.UserRepository, stores repository.StoreRepository, m *metrics.Metrics, log *logger.Logger) RatingService {
	return &ratingService{ratings: ratings, users: users, stores: stores, metrics: m, log: log}
}

func (s *ratingService) SubmitRating(ctx context.Context, userID int, req model.SubmitRatingRequest) (*model.Rating, bool, error) {
	if err := validateRating(req.Rating, req.Comment); err != nil {
		return nil, false, err
	}

	rating := &model.Rating{
		UserID:  userID,
		StoreID: req.StoreID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	var created bool
	var agg model.StoreAggregate

	start := time.Now()
	err := s.ratings.InTx(ctx, func(tx repository.RatingTx) error {
		store, err := tx.LockStore(ctx, req.StoreID)
		if err != nil {
			return err
		}
		if store == nil || !store.IsActive {
			return ErrStoreNotFound
		}

		created, err = tx.Upsert(ctx, rating)
		if err != nil {
			return err
		}
		agg, err = recompute(ctx, tx, req.StoreID)
		return err
	})
	s.metrics.RatingTx(start, err)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrConflict
		}
		if KindOf(err) != KindInternal {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("failed to submit rating: %w", err)
	}

	op := "updated"
	if created {
		op = "created"
	}
	s.metrics.RatingWrite(op)
	s.log.Debug("rating stored", "op", op, "user_id", userID, "store_id", req.StoreID,
		"average_rating", float64(agg.AverageRating), "total_ratings", agg.TotalRatings)
	return rating, created, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, userID, storeID int) error {
	var deleted bool

	start := time.Now()
	err := s.ratings.InTx(ctx, func(tx repository.RatingTx) error {
		store, err := tx.LockStore(ctx, storeID)
		if err != nil {
			return err
		}
		if store == nil {
			return nil
		}

		deleted, err = tx.Delete(ctx, userID, storeID)
		if err != nil {
			return err
		}
		_, err = recompute(ctx, tx, storeID)
		return err
	})
	s.metrics.RatingTx(start, err)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	if deleted {
		s.metrics.RatingWrite("deleted")
	} else {
		s.metrics.RatingWrite("noop")
	}
	return nil
}

// recompute rewrites the store aggregate from the rows visible to tx
func recompute(ctx context.Context, tx repository.RatingTx, storeID int) (model.StoreAggregate, error) {
	count, sum, err := tx.ScoreTotals(ctx, storeID)
	if err != nil {
		return model.StoreAggregate{}, err
	}
	agg := ComputeAggregate(count, sum)
	if err := tx.SetAggregate(ctx, storeID, agg); err != nil {
		return model.StoreAggregate{}, err
	}
	return agg, nil
}

func (s *ratingService) StoreRatingsForOwner(ctx context.Context, ownerID int, sort model.Sort, page model.Page) (*model.Store, []model.RatingWithUser, model.Pagination, error) {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, nil, model.Pagination{}, fmt.Errorf("failed to find store owner: %w", err)
	}
	if owner == nil || owner.StoreID == nil {
		return nil, nil, model.Pagination{}, ErrOwnerHasNoStore
	}

	store, err := s.stores.FindByID(ctx, *owner.StoreID)
	if err != nil {
		return nil, nil, model.Pagination{}, fmt.Errorf("failed to find owner store: %w", err)
	}
	if store == nil || !store.IsActive {
		return nil, nil, model.Pagination{}, ErrOwnerHasNoStore
	}

	ratings, total, err := s.ratings.ListByStore(ctx, store.ID, sort, page)
	if err != nil {
		return nil, nil, model.Pagination{}, fmt.Errorf("failed to list store ratings: %w", err)
	}
	return &store.Store, ratings, model.NewPagination(page, total), nil
}
