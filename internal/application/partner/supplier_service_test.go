package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/partner"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByStatus(ctx context.Context, status partner.SupplierStatus, filter shared.Filter) ([]partner.Supplier, int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]partner.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestService(repo *MockSupplierRepository, publisher *MockEventPublisher) *SupplierService {
	return NewSupplierService(repo, publisher, zap.NewNop())
}

func TestCreateSupplier(t *testing.T) {
	repo := new(MockSupplierRepository)
	publisher := new(MockEventPublisher)
	service := newTestService(repo, publisher)

	repo.On("ExistsByCode", mock.Anything, "ACME").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Supplier")).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Create(context.Background(), CreateSupplierRequest{
		Name:         "Acme Foods",
		Code:         "acme",
		ContactEmail: "sales@acme.example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ACME", resp.Code)
	assert.Equal(t, partner.SupplierStatusPending.String(), resp.Status)
	assert.Equal(t, 3, resp.LeadTimeDays)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateSupplierDuplicateCode(t *testing.T) {
	repo := new(MockSupplierRepository)
	publisher := new(MockEventPublisher)
	service := newTestService(repo, publisher)

	repo.On("ExistsByCode", mock.Anything, "ACME").Return(true, nil)

	_, err := service.Create(context.Background(), CreateSupplierRequest{
		Name: "Acme Foods",
		Code: "ACME",
	})

	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestActivateSupplier(t *testing.T) {
	repo := new(MockSupplierRepository)
	publisher := new(MockEventPublisher)
	service := newTestService(repo, publisher)

	supplier, _ := partner.NewSupplier("Acme Foods", "ACME", "")
	supplier.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
	repo.On("Save", mock.Anything, supplier).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Activate(context.Background(), supplier.ID)

	assert.NoError(t, err)
	assert.Equal(t, partner.SupplierStatusActive.String(), resp.Status)
	assert.NotNil(t, resp.ActivatedAt)
}

func TestBlockSupplierRequiresReason(t *testing.T) {
	repo := new(MockSupplierRepository)
	publisher := new(MockEventPublisher)
	service := newTestService(repo, publisher)

	supplier, _ := partner.NewSupplier("Acme Foods", "ACME", "")
	_ = supplier.Activate()
	supplier.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)

	_, err := service.Block(context.Background(), supplier.ID, BlockSupplierRequest{Reason: ""})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Save")
}

func TestOffboardFromPending(t *testing.T) {
	repo := new(MockSupplierRepository)
	publisher := new(MockEventPublisher)
	service := newTestService(repo, publisher)

	supplier, _ := partner.NewSupplier("Acme Foods", "ACME", "")
	supplier.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
	repo.On("Save", mock.Anything, supplier).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Offboard(context.Background(), supplier.ID)

	assert.NoError(t, err)
	assert.Equal(t, partner.SupplierStatusOffboarded.String(), resp.Status)
}

func TestListSuppliersByStatus(t *testing.T) {
	repo := new(MockSupplierRepository)
	publisher := new(MockEventPublisher)
	service := newTestService(repo, publisher)

	supplier, _ := partner.NewSupplier("Acme Foods", "ACME", "")
	repo.On("FindByStatus", mock.Anything, partner.SupplierStatusPending, mock.Anything).
		Return([]partner.Supplier{*supplier}, int64(1), nil)

	result, err := service.List(context.Background(), SupplierListFilter{Status: "pending"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
}

func TestListSuppliersUnknownStatus(t *testing.T) {
	repo := new(MockSupplierRepository)
	publisher := new(MockEventPublisher)
	service := newTestService(repo, publisher)

	_, err := service.List(context.Background(), SupplierListFilter{Status: "bogus"})

	assert.Error(t, err)
}
