package repositories

import (
	"context"
	"time"

	"loanflow-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// NotificationRepository handles in-app notification data access
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListByUser lists a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&total)

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

// MarkRead marks a user's notification read. The user filter keeps one user
// from marking another's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's notifications read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
}
