package services

import (
	"context"
	"errors"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"gorm.io/gorm"
)

// InboxService exposes a user's in-app notification inbox
type InboxService struct {
	notificationRepo NotificationStore
}

// NewInboxService creates a new inbox service
func NewInboxService(notificationRepo NotificationStore) *InboxService {
	return &InboxService{notificationRepo: notificationRepo}
}

// InboxOutput represents one inbox page
type InboxOutput struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// List returns a page of the user's notifications with the unread count
func (s *InboxService) List(ctx context.Context, userID uint, page, limit int) (*InboxOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &InboxOutput{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

// MarkRead marks one of the user's notifications read
func (s *InboxService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// MarkAllRead marks all of the user's notifications read
func (s *InboxService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
