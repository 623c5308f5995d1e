package notification

import (
	"context"
	"errors"
	"log"

	"tastebook/domain"
	"tastebook/entities"

	"gorm.io/gorm"
)

type (
	NotificationService interface {
		// Emit persists a notification best-effort: failures are logged and
		// never propagated so the originating state change cannot fail on a
		// notification write.
		Emit(ctx context.Context, notification entities.Notification)
		GetNotifications(ctx context.Context, userID string, page, limit int) ([]domain.NotificationResponse, int64, error)
		UnreadCount(ctx context.Context, userID string) (int64, error)
		MarkRead(ctx context.Context, userID string, notificationID string) error
		MarkAllRead(ctx context.Context, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
	}
)

func NewNotificationService(notificationRepository NotificationRepository) NotificationService {
	return &notificationService{notificationRepository: notificationRepository}
}

func (s *notificationService) Emit(ctx context.Context, notification entities.Notification) {
	if err := s.notificationRepository.Create(ctx, &notification); err != nil {
		log.Printf("failed to create %s notification for %s: %v",
			notification.Type, notification.RecipientID, err)
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, limit int) ([]domain.NotificationResponse, int64, error) {
	notifications, count, err := s.notificationRepository.GetByRecipient(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.NotificationResponse
	for _, n := range notifications {
		response = append(response, toResponse(n))
	}
	return response, count, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepository.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID string) error {
	notification, err := s.notificationRepository.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotificationNotFound
		}
		return err
	}

	// Acting on another user's notification is indistinguishable from a
	// missing one.
	if notification.RecipientID.String() != userID {
		return domain.ErrNotificationNotFound
	}

	return s.notificationRepository.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepository.MarkAllRead(ctx, userID)
}

func toResponse(n entities.Notification) domain.NotificationResponse {
	response := domain.NotificationResponse{
		ID:         n.ID.String(),
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		TargetType: n.TargetType,
		ActionURL:  n.ActionURL,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
	if n.TargetID != nil {
		response.TargetID = n.TargetID.String()
	}
	return response
}
