// Package seed fills an empty database with demo accounts, stores and ratings.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"store_rating/internal/logger"
	"store_rating/internal/model"
	"store_rating/internal/service"
)

const (
	minRatingsPerUser = 3
	maxRatingsPerUser = 6
)

// Summary counts what Run created
type Summary struct {
	Admins  int
	Users   int
	Stores  int
	Ratings int
}

// Seeder writes demo data through the service layer, so ratings go through
// the same locked recompute as live traffic.
type Seeder struct {
	admin   service.AdminService
	ratings service.RatingService
	rng     *rand.Rand
	log     *logger.Logger
}

// NewSeeder creates a Seeder. The same randSeed always yields the same ratings.
func NewSeeder(admin service.AdminService, ratings service.RatingService, randSeed int64, log *logger.Logger) *Seeder {
	return &Seeder{
		admin:   admin,
		ratings: ratings,
		rng:     rand.New(rand.NewSource(randSeed)),
		log:     log,
	}
}

// Run creates the admins, normal users, stores with their owners, and ratings
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	for _, req := range admins {
		if _, err := s.admin.CreateUser(ctx, req); err != nil {
			return sum, fmt.Errorf("failed to create admin %s: %w", req.Email, err)
		}
		sum.Admins++
	}
	s.log.Info("admins created", "count", sum.Admins)

	userIDs := make([]int, 0, len(users))
	for _, req := range users {
		req.Password = userPassword
		req.Role = model.RoleUser
		user, err := s.admin.CreateUser(ctx, req)
		if err != nil {
			return sum, fmt.Errorf("failed to create user %s: %w", req.Email, err)
		}
		userIDs = append(userIDs, user.ID)
		sum.Users++
	}
	s.log.Info("normal users created", "count", sum.Users)

	storeIDs := make([]int, 0, len(stores))
	for _, req := range stores {
		req.OwnerPassword = ownerPassword
		store, _, err := s.admin.CreateStore(ctx, req)
		if err != nil {
			return sum, fmt.Errorf("failed to create store %s: %w", req.Email, err)
		}
		storeIDs = append(storeIDs, store.ID)
		sum.Stores++
	}
	s.log.Info("stores and owners created", "count", sum.Stores)

	for _, userID := range userIDs {
		n := minRatingsPerUser + s.rng.Intn(maxRatingsPerUser-minRatingsPerUser+1)
		if n > len(storeIDs) {
			n = len(storeIDs)
		}
		for _, i := range s.rng.Perm(len(storeIDs))[:n] {
			score := model.MinRatingScore + s.rng.Intn(model.MaxRatingScore-model.MinRatingScore+1)
			comment := s.comment(score)
			req := model.SubmitRatingRequest{StoreID: storeIDs[i], Rating: score, Comment: &comment}
			if _, _, err := s.ratings.SubmitRating(ctx, userID, req); err != nil {
				return sum, fmt.Errorf("failed to rate store %d as user %d: %w", storeIDs[i], userID, err)
			}
			sum.Ratings++
		}
	}
	s.log.Info("ratings submitted", "count", sum.Ratings)

	return sum, nil
}

func (s *Seeder) comment(score int) string {
	switch {
	case score >= 4:
		return positiveComments[s.rng.Intn(len(positiveComments))]
	case score == 3:
		return averageComment
	default:
		return lowComment
	}
}
