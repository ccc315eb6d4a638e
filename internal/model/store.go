package model

import (
	"strconv"
	"time"
)

// Decimal2 is a non-negative value serialized with exactly two decimals
type Decimal2 float64

func (d Decimal2) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(d), 'f', 2, 64)), nil
}

// Store represents a rated store. AverageRating and TotalRatings are derived
// from the ratings table and are only written together with a rating change.
type Store struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	OwnerID       int       `json:"ownerId"`
	AverageRating Decimal2  `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// StoreSummary is the subset of a store attached to a user
type StoreSummary struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	AverageRating Decimal2 `json:"averageRating"`
}

// StoreWithOwner is a store with its owner's public details
type StoreWithOwner struct {
	Store
	Owner *UserSummary `json:"owner,omitempty"`
}

// StoreForUser is a store as seen by a normal user, with that user's own rating
type StoreForUser struct {
	StoreWithOwner
	UserRating *Rating `json:"userRating"`
}

// StoreAggregate is the derived rating summary of a store
type StoreAggregate struct {
	AverageRating Decimal2
	TotalRatings  int
}

// CreateStoreRequest creates a store together with its owner account
type CreateStoreRequest struct {
	Name          string `json:"name" binding:"required,min=20,max=60"`
	Email         string `json:"email" binding:"required,email"`
	Address       string `json:"address" binding:"required,max=400"`
	OwnerName     string `json:"ownerName" binding:"required,min=20,max=60"`
	OwnerEmail    string `json:"ownerEmail" binding:"required,email"`
	OwnerAddress  string `json:"ownerAddress" binding:"required,max=400"`
	OwnerPassword string `json:"ownerPassword" binding:"required,password"`
}

// StoreFilters contains search parameters for store listings
type StoreFilters struct {
	Search string
	// IncludeEmail extends Search to the store email, for admin listings
	IncludeEmail bool
	Sort         Sort
	Page         Page
}

// DashboardStats are the admin overview counters
type DashboardStats struct {
	TotalUsers   int `json:"totalUsers"`
	TotalStores  int `json:"totalStores"`
	TotalRatings int `json:"totalRatings"`
}
