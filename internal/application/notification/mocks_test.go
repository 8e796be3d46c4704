package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/notification"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository is a mock implementation of
// NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	args := m.Called(ctx, recipientID, filter)
	return args.Get(0).([]notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) FindUnreadByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	args := m.Called(ctx, recipientID, filter)
	return args.Get(0).([]notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) FindPendingEmail(ctx context.Context, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindFailedEmail(ctx context.Context, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// fakePublisher records published notifications and can be told to fail
type fakePublisher struct {
	published []uuid.UUID
	err       error
}

func (p *fakePublisher) PublishNotification(_ context.Context, n *notification.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n.ID)
	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}
