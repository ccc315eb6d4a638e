package service

import (
	"context"
	"fmt"

	"store_rating/internal/model"
	"store_rating/internal/repository"
)

// StoreService serves store browsing for normal users
type StoreService interface {
	ListStores(ctx context.Context, userID int, filters model.StoreFilters) ([]model.StoreForUser, model.Pagination, error)
	GetStore(ctx context.Context, userID, storeID int) (*model.StoreForUser, error)
}

type storeService struct {
	stores  repository.StoreRepository
	ratings repository.RatingRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(stores repository.StoreRepository, ratings repository.RatingRepository) StoreService {
	return &storeService{stores: stores, ratings: ratings}
}

// ListStores returns a page of active stores, each annotated with the caller's own rating
func (s *storeService) ListStores(ctx context.Context, userID int, filters model.StoreFilters) ([]model.StoreForUser, model.Pagination, error) {
	stores, total, err := s.stores.List(ctx, filters)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list stores: %w", err)
	}

	ids := make([]int, 0, len(stores))
	for _, st := range stores {
		ids = append(ids, st.ID)
	}
	mine, err := s.ratings.FindByUserForStores(ctx, userID, ids)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to load user ratings: %w", err)
	}

	result := make([]model.StoreForUser, 0, len(stores))
	for _, st := range stores {
		result = append(result, model.StoreForUser{StoreWithOwner: st, UserRating: mine[st.ID]})
	}
	return result, model.NewPagination(filters.Page, total), nil
}

// GetStore returns an active store with the caller's rating for it
func (s *storeService) GetStore(ctx context.Context, userID, storeID int) (*model.StoreForUser, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find store: %w", err)
	}
	if store == nil || !store.IsActive {
		return nil, ErrStoreNotFound
	}

	mine, err := s.ratings.FindByUserAndStore(ctx, userID, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user rating: %w", err)
	}
	return &model.StoreForUser{StoreWithOwner: *store, UserRating: mine}, nil
}
