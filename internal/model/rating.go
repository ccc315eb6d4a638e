package model

import "time"

const (
	MinRatingScore   = 1
	MaxRatingScore   = 5
	MaxCommentLength = 500
)

// Rating is a single user's score for a store. At most one exists per (UserID, StoreID).
type Rating struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"userId"`
	StoreID   int       `json:"storeId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingWithUser is a rating together with the rater's public details
type RatingWithUser struct {
	Rating
	User UserSummary `json:"user"`
}

// SubmitRatingRequest is the body of POST /ratings
type SubmitRatingRequest struct {
	StoreID int     `json:"storeId" binding:"required,gt=0"`
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=500"`
}
