package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"store_rating/internal/model"
	"store_rating/internal/repository"
	"store_rating/internal/utils"

	"golang.org/x/sync/errgroup"
)

const recentRatingsLimit = 5

// AdminService provides account and store management for administrators
type AdminService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	CreateStore(ctx context.Context, req model.CreateStoreRequest) (*model.Store, *model.User, error)
	ListUsers(ctx context.Context, filters model.UserFilters) ([]model.UserDetail, model.Pagination, error)
	ListStores(ctx context.Context, filters model.StoreFilters) ([]model.StoreWithOwner, model.Pagination, error)
	GetUser(ctx context.Context, userID int) (*model.UserDetail, error)
	GetStore(ctx context.Context, storeID int) (*model.StoreWithOwner, []model.RatingWithUser, error)
}

type adminService struct {
	users   repository.UserRepository
	stores  repository.StoreRepository
	ratings repository.RatingRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(users repository.UserRepository, stores repository.StoreRepository, ratings repository.RatingRepository) AdminService {
	return &adminService{users: users, stores: stores, ratings: ratings}
}

// Dashboard counts active users, active stores and all ratings concurrently
func (s *adminService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.users.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStores, err = s.stores.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRatings, err = s.ratings.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return stats, nil
}

// CreateUser creates an admin or normal user. Store owners are only created with their store.
func (s *adminService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if req.Role == model.RoleAdmin {
		role = model.RoleAdmin
	}
	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Address:      strings.TrimSpace(req.Address),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

// CreateStore creates a store and its owner account as one unit
func (s *adminService) CreateStore(ctx context.Context, req model.CreateStoreRequest) (*model.Store, *model.User, error) {
	storeEmail := normalizeEmail(req.Email)
	ownerEmail := normalizeEmail(req.OwnerEmail)

	existingStore, err := s.stores.FindByEmail(ctx, storeEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing store: %w", err)
	}
	if existingStore != nil {
		return nil, nil, ErrStoreAlreadyExists
	}
	existingOwner, err := s.users.FindByEmail(ctx, ownerEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing owner: %w", err)
	}
	if existingOwner != nil {
		return nil, nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.OwnerPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	owner := &model.User{
		Name:         strings.TrimSpace(req.OwnerName),
		Email:        ownerEmail,
		PasswordHash: hashedPassword,
		Address:      strings.TrimSpace(req.OwnerAddress),
		Role:         model.RoleStoreOwner,
	}
	store := &model.Store{
		Name:    strings.TrimSpace(req.Name),
		Email:   storeEmail,
		Address: strings.TrimSpace(req.Address),
	}
	if err := s.stores.CreateWithOwner(ctx, store, owner); err != nil {
		if repository.IsDuplicateOn(err, repository.ConstraintUserEmail) {
			return nil, nil, ErrUserAlreadyExists
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrStoreAlreadyExists
		}
		return nil, nil, fmt.Errorf("failed to create store in repository: %w", err)
	}
	return store, owner, nil
}

func (s *adminService) ListUsers(ctx context.Context, filters model.UserFilters) ([]model.UserDetail, model.Pagination, error) {
	users, total, err := s.users.List(ctx, filters)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, model.NewPagination(filters.Page, total), nil
}

func (s *adminService) ListStores(ctx context.Context, filters model.StoreFilters) ([]model.StoreWithOwner, model.Pagination, error) {
	stores, total, err := s.stores.List(ctx, filters)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, model.NewPagination(filters.Page, total), nil
}

func (s *adminService) GetUser(ctx context.Context, userID int) (*model.UserDetail, error) {
	user, err := s.users.FindDetailByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetStore returns an active store with its most recent ratings
func (s *adminService) GetStore(ctx context.Context, storeID int) (*model.StoreWithOwner, []model.RatingWithUser, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find store: %w", err)
	}
	if store == nil || !store.IsActive {
		return nil, nil, ErrStoreNotFound
	}
	recent, err := s.ratings.RecentByStore(ctx, storeID, recentRatingsLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load recent ratings: %w", err)
	}
	return store, recent, nil
}
