package social

import (
	"context"
	"errors"
	"time"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/pkg/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// UserDirectory is the slice of the user store the follow graph needs.
	// pkg/user's repository satisfies it.
	UserDirectory interface {
		GetByID(ctx context.Context, id string) (*entities.User, error)
	}

	SocialService interface {
		Follow(ctx context.Context, viewerID, targetID string) (domain.FollowResponse, error)
		Unfollow(ctx context.Context, viewerID, targetID string) error
		AcceptRequest(ctx context.Context, viewerID, requestID string) error
		RejectRequest(ctx context.Context, viewerID, requestID string) error
		CancelRequest(ctx context.Context, viewerID, targetID string) error
		PromoteToPublic(ctx context.Context, userID string) (int64, error)
		GetRequests(ctx context.Context, userID string) ([]domain.FollowRequestResponse, error)
		Counts(ctx context.Context, userID string) (followers, following, pending int64, err error)
	}

	socialService struct {
		socialRepository    SocialRepository
		userDirectory       UserDirectory
		notificationService notification.NotificationService
	}
)

func NewSocialService(
	socialRepository SocialRepository,
	userDirectory UserDirectory,
	notificationService notification.NotificationService,
) SocialService {
	return &socialService{
		socialRepository:    socialRepository,
		userDirectory:       userDirectory,
		notificationService: notificationService,
	}
}

// Follow moves the (viewer, target) pair along the follow state machine:
// public targets gain an edge immediately, private targets get a pending
// request. Repeats are no-ops and never duplicate notifications.
func (s *socialService) Follow(ctx context.Context, viewerID, targetID string) (domain.FollowResponse, error) {
	if viewerID == targetID {
		return domain.FollowResponse{}, domain.ErrSelfFollow
	}

	viewer, err := s.userDirectory.GetByID(ctx, viewerID)
	if err != nil {
		return domain.FollowResponse{}, mapUserErr(err)
	}
	target, err := s.userDirectory.GetByID(ctx, targetID)
	if err != nil {
		return domain.FollowResponse{}, mapUserErr(err)
	}

	exists, err := s.socialRepository.FollowExists(ctx, viewer.ID, target.ID)
	if err != nil {
		return domain.FollowResponse{}, err
	}
	if exists {
		return domain.FollowResponse{Outcome: domain.FollowOutcomeAlreadyRelated}, nil
	}

	if target.IsPrivate {
		request := entities.FollowRequest{
			ID:         uuid.New(),
			FromUserID: viewer.ID,
			ToUserID:   target.ID,
			CreatedAt:  time.Now(),
		}
		created, err := s.socialRepository.CreateRequest(ctx, &request)
		if err != nil {
			return domain.FollowResponse{}, err
		}
		if created {
			s.notificationService.Emit(ctx,
				notification.NewFollowRequestNotification(target.ID, viewer.Handle, request.ID))
			return domain.FollowResponse{Outcome: domain.FollowOutcomeRequestSent}, nil
		}
		return domain.FollowResponse{Outcome: domain.FollowOutcomeAlreadyRelated}, nil
	}

	follow := entities.Follow{
		ID:          uuid.New(),
		FollowerID:  viewer.ID,
		FollowingID: target.ID,
		CreatedAt:   time.Now(),
	}
	created, err := s.socialRepository.CreateFollow(ctx, &follow)
	if err != nil {
		return domain.FollowResponse{}, err
	}
	if !created {
		return domain.FollowResponse{Outcome: domain.FollowOutcomeAlreadyRelated}, nil
	}
	return domain.FollowResponse{Outcome: domain.FollowOutcomeFollowed}, nil
}

func (s *socialService) Unfollow(ctx context.Context, viewerID, targetID string) error {
	viewerUUID, err := uuid.Parse(viewerID)
	if err != nil {
		return domain.ErrParseUUID
	}
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return domain.ErrParseUUID
	}
	// Idempotent: removing an absent edge is not an error.
	return s.socialRepository.DeleteFollow(ctx, viewerUUID, targetUUID)
}

func (s *socialService) AcceptRequest(ctx context.Context, viewerID, requestID string) error {
	request, err := s.socialRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}

	if request.ToUserID.String() != viewerID {
		return domain.ErrNotRecipient
	}

	return s.socialRepository.AcceptRequest(ctx, request)
}

func (s *socialService) RejectRequest(ctx context.Context, viewerID, requestID string) error {
	request, err := s.socialRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}

	if request.ToUserID.String() != viewerID {
		return domain.ErrNotRecipient
	}

	return s.socialRepository.DeleteRequest(ctx, request.ID)
}

func (s *socialService) CancelRequest(ctx context.Context, viewerID, targetID string) error {
	viewerUUID, err := uuid.Parse(viewerID)
	if err != nil {
		return domain.ErrParseUUID
	}
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return domain.ErrParseUUID
	}

	request, err := s.socialRepository.GetRequestByPair(ctx, viewerUUID, targetUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	return s.socialRepository.DeleteRequest(ctx, request.ID)
}

func (s *socialService) PromoteToPublic(ctx context.Context, userID string) (int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return 0, domain.ErrParseUUID
	}
	return s.socialRepository.PromoteAllRequests(ctx, userUUID)
}

func (s *socialService) GetRequests(ctx context.Context, userID string) ([]domain.FollowRequestResponse, error) {
	requests, err := s.socialRepository.GetRequestsTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	var response []domain.FollowRequestResponse
	for _, request := range requests {
		item := domain.FollowRequestResponse{
			ID:         request.ID.String(),
			FromUserID: request.FromUserID.String(),
			ToUserID:   request.ToUserID.String(),
			CreatedAt:  request.CreatedAt,
		}
		if request.FromUser != nil {
			item.FromHandle = request.FromUser.Handle
		}
		response = append(response, item)
	}
	return response, nil
}

func (s *socialService) Counts(ctx context.Context, userID string) (int64, int64, int64, error) {
	followers, err := s.socialRepository.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, 0, err
	}
	following, err := s.socialRepository.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, 0, err
	}
	pending, err := s.socialRepository.CountPendingRequests(ctx, userID)
	if err != nil {
		return 0, 0, 0, err
	}
	return followers, following, pending, nil
}

func mapUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}
