package social

import (
	"context"
	"time"

	"tastebook/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	SocialRepository interface {
		FollowExists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
		CreateFollow(ctx context.Context, follow *entities.Follow) (bool, error)
		DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error
		CreateRequest(ctx context.Context, request *entities.FollowRequest) (bool, error)
		GetRequestByID(ctx context.Context, id string) (*entities.FollowRequest, error)
		GetRequestByPair(ctx context.Context, fromID, toID uuid.UUID) (*entities.FollowRequest, error)
		DeleteRequest(ctx context.Context, id uuid.UUID) error
		GetRequestsTo(ctx context.Context, userID string) ([]entities.FollowRequest, error)
		AcceptRequest(ctx context.Context, request *entities.FollowRequest) error
		PromoteAllRequests(ctx context.Context, userID uuid.UUID) (int64, error)
		CountFollowers(ctx context.Context, userID string) (int64, error)
		CountFollowing(ctx context.Context, userID string) (int64, error)
		CountPendingRequests(ctx context.Context, userID string) (int64, error)
	}

	socialRepository struct {
		db *gorm.DB
	}
)

func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

func (r *socialRepository) FollowExists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// CreateFollow inserts the edge unless it already exists. The unique index on
// (follower_id, following_id) absorbs concurrent attempts; the second one is
// a no-op. Returns whether a new edge was created.
func (r *socialRepository) CreateFollow(ctx context.Context, follow *entities.Follow) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(follow)
	return result.RowsAffected > 0, result.Error
}

func (r *socialRepository) DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&entities.Follow{}).Error
}

func (r *socialRepository) CreateRequest(ctx context.Context, request *entities.FollowRequest) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoNothing: true,
		}).
		Create(request)
	return result.RowsAffected > 0, result.Error
}

func (r *socialRepository) GetRequestByID(ctx context.Context, id string) (*entities.FollowRequest, error) {
	var request entities.FollowRequest
	err := r.db.WithContext(ctx).Preload("FromUser").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *socialRepository) GetRequestByPair(ctx context.Context, fromID, toID uuid.UUID) (*entities.FollowRequest, error) {
	var request entities.FollowRequest
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *socialRepository) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.FollowRequest{}).Error
}

func (r *socialRepository) GetRequestsTo(ctx context.Context, userID string) ([]entities.FollowRequest, error) {
	var requests []entities.FollowRequest
	err := r.db.WithContext(ctx).Preload("FromUser").
		Where("to_user_id = ?", userID).
		Order("created_at asc").
		Find(&requests).Error
	return requests, err
}

// AcceptRequest creates the follow edge and removes the request atomically.
func (r *socialRepository) AcceptRequest(ctx context.Context, request *entities.FollowRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follow := entities.Follow{
			ID:          uuid.New(),
			FollowerID:  request.FromUserID,
			FollowingID: request.ToUserID,
			CreatedAt:   time.Now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).Create(&follow).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", request.ID).Delete(&entities.FollowRequest{}).Error
	})
}

// PromoteAllRequests converts every pending request to the user into a follow
// edge and deletes the requests, in one transaction. Self-loops are discarded
// without creating an edge.
func (r *socialRepository) PromoteAllRequests(ctx context.Context, userID uuid.UUID) (int64, error) {
	var promoted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var requests []entities.FollowRequest
		if err := tx.Where("to_user_id = ?", userID).Find(&requests).Error; err != nil {
			return err
		}

		for _, request := range requests {
			if request.FromUserID != userID {
				follow := entities.Follow{
					ID:          uuid.New(),
					FollowerID:  request.FromUserID,
					FollowingID: request.ToUserID,
					CreatedAt:   time.Now(),
				}
				result := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
					DoNothing: true,
				}).Create(&follow)
				if result.Error != nil {
					return result.Error
				}
				promoted += result.RowsAffected
			}
		}

		return tx.Where("to_user_id = ?", userID).Delete(&entities.FollowRequest{}).Error
	})
	if err != nil {
		return 0, err
	}
	return promoted, nil
}

func (r *socialRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *socialRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *socialRepository) CountPendingRequests(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.FollowRequest{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}
