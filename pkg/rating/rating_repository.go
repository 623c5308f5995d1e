package rating

import (
	"context"

	"tastebook/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RatingRepository interface {
		Upsert(ctx context.Context, rating *entities.Rating) (bool, error)
		GetByUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entities.Rating, error)
		GetAggregate(ctx context.Context, recipeID string) (float64, int64, error)
	}

	ratingRepository struct {
		db *gorm.DB
	}
)

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert creates the unique (user, recipe) row or updates its stars. The
// returned flag reports whether a new row was created.
func (r *ratingRepository) Upsert(ctx context.Context, rating *entities.Rating) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(rating)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Row already existed, update the stars in place.
	err := r.db.WithContext(ctx).Model(&entities.Rating{}).
		Where("recipe_id = ? AND user_id = ?", rating.RecipeID, rating.UserID).
		Update("stars", rating.Stars).Error
	return false, err
}

func (r *ratingRepository) GetByUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entities.Rating, error) {
	var rating entities.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetAggregate(ctx context.Context, recipeID string) (float64, int64, error) {
	var result struct {
		AvgStars  float64
		RatingCnt int64
	}
	err := r.db.WithContext(ctx).Model(&entities.Rating{}).
		Select("COALESCE(AVG(stars), 0) AS avg_stars, COUNT(id) AS rating_cnt").
		Where("recipe_id = ?", recipeID).
		Scan(&result).Error
	return result.AvgStars, result.RatingCnt, err
}
