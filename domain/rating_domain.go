package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRate = "recipe rated successfully"
	MessageFailedRate  = "failed to rate recipe"

	ErrSelfRating      = errors.New("authors cannot rate their own recipe")
	ErrStarsOutOfRange = errors.New("stars must be between 1 and 5")
)

type (
	RateRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
		Stars    int    `json:"stars" validate:"required,min=1,max=5"`
	}

	RatingResponse struct {
		RecipeID  string    `json:"recipe_id"`
		UserID    string    `json:"user_id"`
		Stars     int       `json:"stars"`
		CreatedAt time.Time `json:"created_at"`
	}

	RatingAggregate struct {
		AverageRating float64 `json:"average_rating"`
		RatingCount   int64   `json:"rating_count"`
	}
)
