package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// NotificationRepository defines the persistence interface for
// notifications
type NotificationRepository interface {
	shared.Repository[Notification]
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]Notification, int64, error)
	FindUnreadByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	FindPendingEmail(ctx context.Context, limit int) ([]Notification, error)
	FindFailedEmail(ctx context.Context, limit int) ([]Notification, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
