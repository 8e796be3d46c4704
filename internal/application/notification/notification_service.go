package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/notification"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/messaging"
	"github.com/orderhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// NotificationService creates and delivers notifications. In-app
// notifications are delivered by being stored; email notifications are
// additionally handed to the message broker, and failed hand-offs are
// retried by RetryPendingEmail.
type NotificationService struct {
	notifications notification.NotificationRepository
	publisher     messaging.NotificationPublisher
	metrics       *telemetry.BusinessMetrics
	logger        *zap.Logger
}

// NewNotificationService creates a new NotificationService. Metrics may
// be nil when telemetry is disabled.
func NewNotificationService(
	notifications notification.NotificationRepository,
	publisher messaging.NotificationPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
	}
}

// Create stores a notification and dispatches it on its channel
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*NotificationResponse, error) {
	n, err := notification.NewNotification(
		req.RecipientID,
		notification.Channel(req.Channel),
		notification.Category(req.Category),
		req.Subject,
		req.Body,
	)
	if err != nil {
		return nil, err
	}
	if req.RefType != "" && req.RefID != nil {
		n.WithRef(req.RefType, *req.RefID)
	}

	s.dispatch(ctx, n)

	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}

	resp := ToNotificationResponse(n)
	return &resp, nil
}

// NotifyAll fans one message out to several recipients. A recipient that
// fails to save is logged and skipped so the rest still get notified.
func (s *NotificationService) NotifyAll(ctx context.Context, recipientIDs []uuid.UUID, req CreateNotificationRequest) int {
	created := 0
	for _, recipientID := range recipientIDs {
		r := req
		r.RecipientID = recipientID
		if _, err := s.Create(ctx, r); err != nil {
			s.logger.Error("failed to notify recipient",
				zap.String("recipient_id", recipientID.String()),
				zap.String("subject", req.Subject),
				zap.Error(err),
			)
			continue
		}
		created++
	}
	return created
}

// dispatch marks in-app notifications sent immediately and hands email
// notifications to the broker, recording the outcome on the aggregate.
func (s *NotificationService) dispatch(ctx context.Context, n *notification.Notification) {
	switch n.Channel {
	case notification.ChannelInApp:
		_ = n.MarkSent()
		s.recordPublished(ctx, n)
	case notification.ChannelEmail:
		if err := s.publisher.PublishNotification(ctx, n); err != nil {
			s.logger.Warn("email notification hand-off failed",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err),
			)
			_ = n.MarkFailed(err.Error())
			return
		}
		_ = n.MarkSent()
		s.recordPublished(ctx, n)
	}
}

func (s *NotificationService) recordPublished(ctx context.Context, n *notification.Notification) {
	if s.metrics != nil {
		s.metrics.RecordNotificationPublished(ctx, string(n.Channel))
	}
}

// GetByID returns a notification by ID
func (s *NotificationService) GetByID(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// ListByRecipient returns the recipient's notifications
func (s *NotificationService) ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter NotificationListFilter) (*shared.Paginated[NotificationResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}

	var (
		items []notification.Notification
		total int64
		err   error
	)
	if filter.UnreadOnly {
		items, total, err = s.notifications.FindUnreadByRecipient(ctx, recipientID, f)
	} else {
		items, total, err = s.notifications.FindByRecipient(ctx, recipientID, f)
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToNotificationResponses(items), total, f.Page, f.PageSize)
	return &result, nil
}

// UnreadCount returns the recipient's unread in-app notification count
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (*UnreadCountResponse, error) {
	count, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: count}, nil
}

// MarkRead marks one in-app notification read. Only the recipient may
// mark their own notifications.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != recipientID {
		return nil, shared.ErrForbidden
	}
	if err := n.MarkRead(); err != nil {
		return nil, err
	}
	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks all of the recipient's unread in-app notifications
// read and returns how many were affected
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, recipientID)
}

// RetryPendingEmail re-publishes email notifications that never left
// pending. Returns how many were handed off this run.
func (s *NotificationService) RetryPendingEmail(ctx context.Context, limit int) (int, error) {
	pending, err := s.notifications.FindPendingEmail(ctx, limit)
	if err != nil {
		return 0, err
	}
	return s.deliverEmailBatch(ctx, pending)
}

// RedriveFailedEmail re-attempts email notifications whose hand-off
// previously failed. Exposed to operators through the admin endpoint.
func (s *NotificationService) RedriveFailedEmail(ctx context.Context, limit int) (int, error) {
	failed, err := s.notifications.FindFailedEmail(ctx, limit)
	if err != nil {
		return 0, err
	}
	return s.deliverEmailBatch(ctx, failed)
}

func (s *NotificationService) deliverEmailBatch(ctx context.Context, batch []notification.Notification) (int, error) {
	sent := 0
	for i := range batch {
		n := &batch[i]
		if err := s.publisher.PublishNotification(ctx, n); err != nil {
			_ = n.MarkFailed(err.Error())
			if saveErr := s.notifications.Save(ctx, n); saveErr != nil {
				s.logger.Error("failed to save notification after retry failure",
					zap.String("notification_id", n.ID.String()),
					zap.Error(saveErr),
				)
			}
			continue
		}
		if err := n.MarkSent(); err != nil {
			return sent, err
		}
		if err := s.notifications.Save(ctx, n); err != nil {
			return sent, err
		}
		s.recordPublished(ctx, n)
		sent++
	}

	if len(batch) > 0 {
		s.logger.Info("email retry run completed",
			zap.Int("attempted", len(batch)),
			zap.Int("sent", sent),
		)
	}
	return sent, nil
}
