package service

import (
	"unicode/utf8"

	"store_rating/internal/model"
)

// ComputeAggregate derives a store's average and count from the totals of its
// ratings. The average is rounded half-up to two decimals using integer
// arithmetic, so 3.335 becomes 3.34 and never depends on float formatting.
func ComputeAggregate(count, sum int) model.StoreAggregate {
	if count <= 0 {
		return model.StoreAggregate{}
	}
	// floor(100*sum/count + 1/2)
	cents := (200*sum + count) / (2 * count)
	return model.StoreAggregate{
		AverageRating: model.Decimal2(float64(cents) / 100),
		TotalRatings:  count,
	}
}

// validateRating checks score and comment before anything touches the ledger
func validateRating(score int, comment *string) error {
	if score < model.MinRatingScore || score > model.MaxRatingScore {
		return ErrInvalidRating
	}
	if comment != nil && utf8.RuneCountInString(*comment) > model.MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}
