package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/orderhub/backend/internal/application/billing"
	notificationapp "github.com/orderhub/backend/internal/application/notification"
	orderingapp "github.com/orderhub/backend/internal/application/ordering"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// fakeOrderTransitioner records the transitions the handler requested
type fakeOrderTransitioner struct {
	accepted []uuid.UUID
	disputed []uuid.UUID
	closed   []uuid.UUID
	reasons  []string
	err      error
}

func (f *fakeOrderTransitioner) Accept(_ context.Context, orderID uuid.UUID) (*orderingapp.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.accepted = append(f.accepted, orderID)
	return &orderingapp.OrderResponse{ID: orderID}, nil
}

func (f *fakeOrderTransitioner) Dispute(_ context.Context, orderID uuid.UUID, req orderingapp.DisputeOrderRequest) (*orderingapp.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.disputed = append(f.disputed, orderID)
	f.reasons = append(f.reasons, req.Reason)
	return &orderingapp.OrderResponse{ID: orderID}, nil
}

func (f *fakeOrderTransitioner) Close(_ context.Context, orderID uuid.UUID) (*orderingapp.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.closed = append(f.closed, orderID)
	return &orderingapp.OrderResponse{ID: orderID}, nil
}

// fakeAcceptanceOpener records opened order IDs
type fakeAcceptanceOpener struct {
	opened []uuid.UUID
}

func (f *fakeAcceptanceOpener) Open(_ context.Context, orderID uuid.UUID) (*orderingapp.AcceptanceResponse, error) {
	f.opened = append(f.opened, orderID)
	return &orderingapp.AcceptanceResponse{OrderID: orderID}, nil
}

// fakeTransactionCreator records the inputs it received
type fakeTransactionCreator struct {
	inputs []billingapp.ClosedOrderInput
}

func (f *fakeTransactionCreator) CreateForClosedOrder(_ context.Context, input billingapp.ClosedOrderInput) (*billingapp.TransactionResponse, error) {
	f.inputs = append(f.inputs, input)
	return &billingapp.TransactionResponse{OrderID: input.OrderID}, nil
}

// fakeNotifier records fan-out requests per recipient set
type fakeNotifier struct {
	recipients [][]uuid.UUID
	requests   []notificationapp.CreateNotificationRequest
}

func (f *fakeNotifier) NotifyAll(_ context.Context, recipientIDs []uuid.UUID, req notificationapp.CreateNotificationRequest) int {
	f.recipients = append(f.recipients, recipientIDs)
	f.requests = append(f.requests, req)
	return len(recipientIDs)
}

// fakeSettingsCache records invalidations
type fakeSettingsCache struct {
	deleted        []uuid.UUID
	invalidatedAll bool
}

func (f *fakeSettingsCache) Get(context.Context, uuid.UUID) (hierarchy.Settings, error) {
	return hierarchy.Settings{}, nil
}

func (f *fakeSettingsCache) Set(context.Context, uuid.UUID, hierarchy.Settings, time.Duration) error {
	return nil
}

func (f *fakeSettingsCache) Delete(_ context.Context, nodeID uuid.UUID) error {
	f.deleted = append(f.deleted, nodeID)
	return nil
}

func (f *fakeSettingsCache) DeleteMany(_ context.Context, nodeIDs []uuid.UUID) error {
	f.deleted = append(f.deleted, nodeIDs...)
	return nil
}

func (f *fakeSettingsCache) InvalidateAll(context.Context) error {
	f.invalidatedAll = true
	return nil
}

func (f *fakeSettingsCache) Close() error {
	return nil
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, nodeID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockNodeRepository is a mock implementation of hierarchy.NodeRepository
type MockNodeRepository struct {
	mock.Mock
}

func (m *MockNodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*hierarchy.Node, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hierarchy.Node), args.Error(1)
}

func (m *MockNodeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]hierarchy.Node, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]hierarchy.Node), args.Error(1)
}

func (m *MockNodeRepository) FindByCode(ctx context.Context, code string) (*hierarchy.Node, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hierarchy.Node), args.Error(1)
}

func (m *MockNodeRepository) FindRoots(ctx context.Context, filter shared.Filter) ([]hierarchy.Node, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]hierarchy.Node), args.Get(1).(int64), args.Error(2)
}

func (m *MockNodeRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]hierarchy.Node, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]hierarchy.Node), args.Error(1)
}

func (m *MockNodeRepository) FindSubtree(ctx context.Context, pathPrefix string) ([]hierarchy.Node, error) {
	args := m.Called(ctx, pathPrefix)
	return args.Get(0).([]hierarchy.Node), args.Error(1)
}

func (m *MockNodeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]hierarchy.Node, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]hierarchy.Node), args.Error(1)
}

func (m *MockNodeRepository) FindByLevel(ctx context.Context, level hierarchy.NodeLevel, filter shared.Filter) ([]hierarchy.Node, int64, error) {
	args := m.Called(ctx, level, filter)
	return args.Get(0).([]hierarchy.Node), args.Get(1).(int64), args.Error(2)
}

func (m *MockNodeRepository) Save(ctx context.Context, node *hierarchy.Node) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockNodeRepository) SaveAll(ctx context.Context, nodes []*hierarchy.Node) error {
	args := m.Called(ctx, nodes)
	return args.Error(0)
}

func (m *MockNodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNodeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNodeRepository) RewritePathPrefix(ctx context.Context, oldPrefix, newPrefix string) (int64, error) {
	args := m.Called(ctx, oldPrefix, newPrefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNodeRepository) SetActiveByPathPrefix(ctx context.Context, pathPrefix string, active bool) (int64, error) {
	args := m.Called(ctx, pathPrefix, active)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNodeRepository) CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}
