package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/notification"
	"github.com/orderhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindAll finds all notifications matching the filter
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var items []notification.Notification
	query := applyPage(applySort(r.filtered(ctx, filter), filter, NotificationSortFields, "created_at"), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByRecipient finds notifications addressed to a user
func (r *GormNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	query := r.filtered(ctx, filter).Where("recipient_id = ?", recipientID)
	return listWithTotal[notification.Notification](query, filter, NotificationSortFields, "created_at")
}

// FindUnreadByRecipient finds unread in-app notifications for a user
func (r *GormNotificationRepository) FindUnreadByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	query := r.filtered(ctx, filter).
		Where("recipient_id = ? AND channel = ? AND read_at IS NULL",
			recipientID, notification.ChannelInApp)
	return listWithTotal[notification.Notification](query, filter, NotificationSortFields, "created_at")
}

// CountUnread counts unread in-app notifications for a user
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ? AND channel = ? AND read_at IS NULL",
			recipientID, notification.ChannelInApp).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindPendingEmail finds email notifications awaiting delivery
func (r *GormNotificationRepository) FindPendingEmail(ctx context.Context, limit int) ([]notification.Notification, error) {
	var items []notification.Notification
	if err := r.db.WithContext(ctx).
		Where("channel = ? AND status = ?", notification.ChannelEmail, notification.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindFailedEmail finds email notifications whose hand-off failed
func (r *GormNotificationRepository) FindFailedEmail(ctx context.Context, limit int) ([]notification.Notification, error) {
	var items []notification.Notification
	if err := r.db.WithContext(ctx).
		Where("channel = ? AND status = ?", notification.ChannelEmail, notification.StatusFailed).
		Order("failed_at ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkAllRead marks every unread in-app notification for a user as read.
// Returns the number of rows updated.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ? AND channel = ? AND read_at IS NULL",
			recipientID, notification.ChannelInApp).
		Updates(map[string]any{"read_at": now, "updated_at": now})
	return result.RowsAffected, result.Error
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// Delete deletes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&notification.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts notifications matching the filter
func (r *GormNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNotificationRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&notification.Notification{})

	if filter.Search != "" {
		query = query.Where("subject ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "channel":
			query = query.Where("channel = ?", value)
		}
	}
	return query
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
