package rating

import (
	"context"
	"errors"
	"math"
	"time"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/notification"
	"tastebook/pkg/recipe"
	"tastebook/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RatingService interface {
		Rate(ctx context.Context, userID string, req domain.RateRequest) (domain.RatingResponse, error)
		GetAggregate(ctx context.Context, recipeID string) (domain.RatingAggregate, error)
	}

	ratingService struct {
		ratingRepository    RatingRepository
		recipeRepository    recipe.RecipeRepository
		userRepository      user.UserRepository
		notificationService notification.NotificationService
	}
)

func NewRatingService(
	ratingRepository RatingRepository,
	recipeRepository recipe.RecipeRepository,
	userRepository user.UserRepository,
	notificationService notification.NotificationService,
) RatingService {
	return &ratingService{
		ratingRepository:    ratingRepository,
		recipeRepository:    recipeRepository,
		userRepository:      userRepository,
		notificationService: notificationService,
	}
}

// Rate upserts the caller's rating. The author notification fires only when
// a rating is first created, never on a stars update.
func (s *ratingService) Rate(ctx context.Context, userID string, req domain.RateRequest) (domain.RatingResponse, error) {
	if req.Stars < 1 || req.Stars > 5 {
		return domain.RatingResponse{}, domain.ErrStarsOutOfRange
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RatingResponse{}, domain.ErrParseUUID
	}

	target, err := s.recipeRepository.GetByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RatingResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RatingResponse{}, err
	}

	if target.AuthorID == userUUID {
		return domain.RatingResponse{}, domain.ErrSelfRating
	}

	row := &entities.Rating{
		ID:        uuid.New(),
		RecipeID:  target.ID,
		UserID:    userUUID,
		Stars:     req.Stars,
		CreatedAt: time.Now(),
	}

	created, err := s.ratingRepository.Upsert(ctx, row)
	if err != nil {
		return domain.RatingResponse{}, err
	}

	if created {
		rater, err := s.userRepository.GetByID(ctx, userID)
		if err == nil {
			s.notificationService.Emit(ctx,
				notification.NewRecipeRatedNotification(target.AuthorID, rater.Handle, target, req.Stars))
		}
	}

	return domain.RatingResponse{
		RecipeID:  target.ID.String(),
		UserID:    userID,
		Stars:     req.Stars,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *ratingService) GetAggregate(ctx context.Context, recipeID string) (domain.RatingAggregate, error) {
	avg, count, err := s.ratingRepository.GetAggregate(ctx, recipeID)
	if err != nil {
		return domain.RatingAggregate{}, err
	}
	return domain.RatingAggregate{
		AverageRating: math.Round(avg*10) / 10,
		RatingCount:   count,
	}, nil
}
