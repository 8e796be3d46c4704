package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRateConfigRepository is a mock implementation of RateConfigRepository
type MockRateConfigRepository struct {
	mock.Mock
}

func (m *MockRateConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.RateConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.RateConfig), args.Error(1)
}

func (m *MockRateConfigRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.RateConfig, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.RateConfig), args.Error(1)
}

func (m *MockRateConfigRepository) FindEffectiveForSupplier(ctx context.Context, supplierID uuid.UUID, at time.Time) (*billing.RateConfig, error) {
	args := m.Called(ctx, supplierID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.RateConfig), args.Error(1)
}

func (m *MockRateConfigRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]billing.RateConfig, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]billing.RateConfig), args.Get(1).(int64), args.Error(2)
}

func (m *MockRateConfigRepository) FindPlatformDefaults(ctx context.Context, filter shared.Filter) ([]billing.RateConfig, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.RateConfig), args.Get(1).(int64), args.Error(2)
}

func (m *MockRateConfigRepository) Save(ctx context.Context, config *billing.RateConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockRateConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRateConfigRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*billing.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]billing.Transaction, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]billing.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FindByStatement(ctx context.Context, statementID uuid.UUID) ([]billing.Transaction, error) {
	args := m.Called(ctx, statementID)
	return args.Get(0).([]billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindPendingBySupplier(ctx context.Context, supplierID uuid.UUID, createdBefore time.Time) ([]billing.Transaction, error) {
	args := m.Called(ctx, supplierID, createdBefore)
	return args.Get(0).([]billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumOrderAmountBySupplier(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, supplierID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) FindSuppliersWithPending(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockTransactionRepository) CountByStatus(ctx context.Context) (map[billing.TransactionStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[billing.TransactionStatus]int64), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *billing.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStatementRepository is a mock implementation of StatementRepository
type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Statement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Statement), args.Error(1)
}

func (m *MockStatementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Statement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Statement), args.Error(1)
}

func (m *MockStatementRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]billing.Statement, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]billing.Statement), args.Get(1).(int64), args.Error(2)
}

func (m *MockStatementRepository) FindBySupplierAndPeriod(ctx context.Context, supplierID uuid.UUID, periodStart time.Time) (*billing.Statement, error) {
	args := m.Called(ctx, supplierID, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Statement), args.Error(1)
}

func (m *MockStatementRepository) Save(ctx context.Context, statement *billing.Statement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *MockStatementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStatementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
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
