package services

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/google/uuid"
)

// LatestNotificationsLimit is how many notifications the banner endpoint shows.
const LatestNotificationsLimit = 5

type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the owner's notifications newest first. limit <= 0 means all.
func (s *NotificationService) List(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Notification, error) {
	return s.store.ListByUser(ctx, ownerID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.store.MarkRead(ctx, ownerID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.store.MarkAllRead(ctx, ownerID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.store.CountUnread(ctx, ownerID)
}

func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, title, message string) (*models.Notification, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if userID == uuid.Nil || title == "" || message == "" {
		return nil, apperrors.Validation("user_id, title and message are required")
	}

	n := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := s.store.Create(ctx, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
