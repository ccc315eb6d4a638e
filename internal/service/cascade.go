package service

import (
	"context"
	"fmt"

	"store_rating/internal/logger"
	"store_rating/internal/metrics"
	"store_rating/internal/model"
	"store_rating/internal/repository"
)

// CascadeManager soft-deletes accounts. A store owner and their store are
// always deactivated together, whichever half the admin targets.
type CascadeManager interface {
	DeactivateUser(ctx context.Context, adminID, targetUserID int) error
	DeactivateStore(ctx context.Context, adminID, storeID int) error
}

type cascadeManager struct {
	users   repository.UserRepository
	stores  repository.StoreRepository
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewCascadeManager creates a new CascadeManager
func NewCascadeManager(users repository.UserRepository, stores repository.StoreRepository, m *metrics.Metrics, log *logger.Logger) CascadeManager {
	return &cascadeManager{users: users, stores: stores, metrics: m, log: log}
}

func (c *cascadeManager) DeactivateUser(ctx context.Context, adminID, targetUserID int) error {
	user, err := c.users.FindByID(ctx, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to find user for deactivation: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	var storeID *int
	if user.Role == model.RoleStoreOwner {
		storeID = user.StoreID
	}
	return c.deactivatePair(ctx, "user", adminID, user, storeID)
}

func (c *cascadeManager) DeactivateStore(ctx context.Context, adminID, storeID int) error {
	store, err := c.stores.FindByID(ctx, storeID)
	if err != nil {
		return fmt.Errorf("failed to find store for deactivation: %w", err)
	}
	if store == nil {
		return ErrStoreNotFound
	}

	owner, err := c.users.FindByID(ctx, store.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to find store owner for deactivation: %w", err)
	}
	if owner == nil {
		return ErrUserNotFound
	}
	return c.deactivatePair(ctx, "store", adminID, owner, &store.ID)
}

// deactivatePair is the single entry point both directions go through
func (c *cascadeManager) deactivatePair(ctx context.Context, origin string, adminID int, user *model.User, storeID *int) error {
	if user.Role == model.RoleAdmin && user.ID != adminID {
		return ErrCannotDeactivateAdmin
	}
	if err := c.users.DeactivateWithStore(ctx, user.ID, storeID); err != nil {
		return fmt.Errorf("failed to deactivate %s: %w", origin, err)
	}

	c.metrics.Deactivation(origin)
	if storeID != nil {
		c.log.Info("deactivated store owner and store", "origin", origin, "admin_id", adminID, "user_id", user.ID, "store_id", *storeID)
	} else {
		c.log.Info("deactivated user", "admin_id", adminID, "user_id", user.ID)
	}
	return nil
}
