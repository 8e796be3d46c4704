package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type settlementTestFixture struct {
	transactions *MockTransactionRepository
	statements   *MockStatementRepository
	configs      *MockRateConfigRepository
	publisher    *MockEventPublisher
}

func (f *settlementTestFixture) service() *SettlementService {
	return NewSettlementService(f.transactions, f.statements, f.configs, f.publisher, nil, zap.NewNop())
}

func newSettlementTestFixture() *settlementTestFixture {
	return &settlementTestFixture{
		transactions: new(MockTransactionRepository),
		statements:   new(MockStatementRepository),
		configs:      new(MockRateConfigRepository),
		publisher:    new(MockEventPublisher),
	}
}

func pendingTransaction(t *testing.T, supplierID uuid.UUID, amount decimal.Decimal, config *billing.RateConfig) *billing.Transaction {
	t.Helper()
	tx, err := billing.NewTransaction(uuid.New(), "SO-20260801-000001", supplierID, uuid.New(), amount, config, decimal.Zero, time.Now())
	require.NoError(t, err)
	tx.ClearDomainEvents()
	return tx
}

func TestSettleSupplier(t *testing.T) {
	f := newSettlementTestFixture()

	supplierID := uuid.New()
	config := effectiveConfig(t, &supplierID, decimal.NewFromInt(5))
	priced := pendingTransaction(t, supplierID, decimal.NewFromInt(200), config)
	unpriced := pendingTransaction(t, supplierID, decimal.NewFromInt(100), nil)
	require.True(t, unpriced.RateConfigMissing)

	periodEnd := time.Now().UTC().Truncate(time.Hour)
	periodStart := periodEnd.Add(-24 * time.Hour)

	f.transactions.On("FindPendingBySupplier", mock.Anything, supplierID, periodEnd).
		Return([]billing.Transaction{*priced, *unpriced}, nil)
	f.transactions.On("SumOrderAmountBySupplier", mock.Anything, supplierID, mock.Anything, periodEnd).
		Return(decimal.NewFromInt(300), nil)
	f.statements.On("FindBySupplierAndPeriod", mock.Anything, supplierID, periodStart).
		Return(nil, shared.ErrNotFound)
	f.statements.On("Save", mock.Anything, mock.AnythingOfType("*billing.Statement")).Return(nil)
	f.configs.On("FindEffectiveForSupplier", mock.Anything, supplierID, periodEnd).Return(config, nil)
	f.transactions.On("Save", mock.Anything, mock.AnythingOfType("*billing.Transaction")).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	err := f.service().SettleSupplier(context.Background(), supplierID, periodStart, periodEnd)

	require.NoError(t, err)
	f.transactions.AssertNumberOfCalls(t, "Save", 2)
	// Initial draft save plus the finalized save.
	f.statements.AssertNumberOfCalls(t, "Save", 2)
}

func TestSettleSupplierKeepsUnpricedPending(t *testing.T) {
	f := newSettlementTestFixture()

	supplierID := uuid.New()
	unpriced := pendingTransaction(t, supplierID, decimal.NewFromInt(100), nil)

	periodEnd := time.Now().UTC().Truncate(time.Hour)
	periodStart := periodEnd.Add(-24 * time.Hour)

	f.transactions.On("FindPendingBySupplier", mock.Anything, supplierID, periodEnd).
		Return([]billing.Transaction{*unpriced}, nil)
	f.transactions.On("SumOrderAmountBySupplier", mock.Anything, supplierID, mock.Anything, periodEnd).
		Return(decimal.Zero, nil)
	f.configs.On("FindEffectiveForSupplier", mock.Anything, supplierID, periodEnd).
		Return(nil, shared.ErrNotFound)

	err := f.service().SettleSupplier(context.Background(), supplierID, periodStart, periodEnd)

	require.NoError(t, err)
	f.transactions.AssertNotCalled(t, "Save")
	// A run with nothing settleable never opens a statement.
	f.statements.AssertNotCalled(t, "Save")
	f.statements.AssertNotCalled(t, "FindBySupplierAndPeriod")
}

func TestSettleSupplierNoPendingWork(t *testing.T) {
	f := newSettlementTestFixture()

	supplierID := uuid.New()
	periodEnd := time.Now().UTC().Truncate(time.Hour)
	periodStart := periodEnd.Add(-24 * time.Hour)

	f.transactions.On("FindPendingBySupplier", mock.Anything, supplierID, periodEnd).
		Return([]billing.Transaction{}, nil)

	err := f.service().SettleSupplier(context.Background(), supplierID, periodStart, periodEnd)

	require.NoError(t, err)
	f.statements.AssertNotCalled(t, "Save")
	f.transactions.AssertNotCalled(t, "SumOrderAmountBySupplier")
}

func TestSettleSupplierFinalizedPeriod(t *testing.T) {
	f := newSettlementTestFixture()

	supplierID := uuid.New()
	config := effectiveConfig(t, &supplierID, decimal.NewFromInt(5))
	tx := pendingTransaction(t, supplierID, decimal.NewFromInt(100), config)

	periodEnd := time.Now().UTC().Truncate(time.Hour)
	periodStart := periodEnd.Add(-24 * time.Hour)

	finalized, err := billing.NewStatement(supplierID, periodStart, periodEnd)
	require.NoError(t, err)
	require.NoError(t, finalized.Finalize())
	finalized.ClearDomainEvents()

	f.transactions.On("FindPendingBySupplier", mock.Anything, supplierID, periodEnd).
		Return([]billing.Transaction{*tx}, nil)
	f.transactions.On("SumOrderAmountBySupplier", mock.Anything, supplierID, mock.Anything, periodEnd).
		Return(decimal.NewFromInt(100), nil)
	f.statements.On("FindBySupplierAndPeriod", mock.Anything, supplierID, periodStart).
		Return(finalized, nil)

	err = f.service().SettleSupplier(context.Background(), supplierID, periodStart, periodEnd)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_SETTLED", domainErr.Code)
}

func TestCreateTransactionForClosedOrder(t *testing.T) {
	f := newSettlementTestFixture()
	service := NewTransactionService(f.transactions, f.configs, f.publisher, zap.NewNop())

	supplierID := uuid.New()
	config := effectiveConfig(t, &supplierID, decimal.NewFromInt(5))
	orderID := uuid.New()

	f.transactions.On("FindByOrder", mock.Anything, orderID).Return(nil, shared.ErrNotFound)
	f.configs.On("FindEffectiveForSupplier", mock.Anything, supplierID, mock.Anything).Return(config, nil)
	f.transactions.On("SumOrderAmountBySupplier", mock.Anything, supplierID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(1000), nil)
	f.transactions.On("Save", mock.Anything, mock.AnythingOfType("*billing.Transaction")).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.CreateForClosedOrder(context.Background(), ClosedOrderInput{
		OrderID:     orderID,
		OrderNumber: "SO-20260801-000007",
		SupplierID:  supplierID,
		NodeID:      uuid.New(),
		OrderAmount: decimal.NewFromInt(200),
	})

	require.NoError(t, err)
	assert.True(t, resp.FeeAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, string(billing.RateSourceBase), resp.RateSource)
	assert.False(t, resp.RateConfigMissing)
}

func TestCreateTransactionWithoutConfig(t *testing.T) {
	f := newSettlementTestFixture()
	service := NewTransactionService(f.transactions, f.configs, f.publisher, zap.NewNop())

	supplierID := uuid.New()
	orderID := uuid.New()

	f.transactions.On("FindByOrder", mock.Anything, orderID).Return(nil, shared.ErrNotFound)
	f.configs.On("FindEffectiveForSupplier", mock.Anything, supplierID, mock.Anything).
		Return(nil, shared.ErrNotFound)
	f.transactions.On("Save", mock.Anything, mock.AnythingOfType("*billing.Transaction")).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.CreateForClosedOrder(context.Background(), ClosedOrderInput{
		OrderID:     orderID,
		OrderNumber: "SO-20260801-000008",
		SupplierID:  supplierID,
		NodeID:      uuid.New(),
		OrderAmount: decimal.NewFromInt(200),
	})

	require.NoError(t, err)
	assert.True(t, resp.FeeAmount.IsZero())
	assert.True(t, resp.RateConfigMissing)
	f.transactions.AssertNotCalled(t, "SumOrderAmountBySupplier")
}

func TestCreateTransactionIdempotent(t *testing.T) {
	f := newSettlementTestFixture()
	service := NewTransactionService(f.transactions, f.configs, f.publisher, zap.NewNop())

	supplierID := uuid.New()
	existing := pendingTransaction(t, supplierID, decimal.NewFromInt(100), nil)

	f.transactions.On("FindByOrder", mock.Anything, existing.OrderID).Return(existing, nil)

	resp, err := service.CreateForClosedOrder(context.Background(), ClosedOrderInput{
		OrderID:     existing.OrderID,
		OrderNumber: existing.OrderNumber,
		SupplierID:  supplierID,
		NodeID:      uuid.New(),
		OrderAmount: decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	f.transactions.AssertNotCalled(t, "Save")
}

func TestMinFeeClamp(t *testing.T) {
	supplierID := uuid.New()
	config, err := billing.NewRateConfig(&supplierID, "Clamped", decimal.NewFromInt(1), decimal.NewFromInt(5), decimal.NewFromInt(8), time.Now().Add(-time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, config.Activate())

	// 1% of 100 is 1, below the minimum fee.
	fee, _, _ := config.ComputeFee(decimal.NewFromInt(100), decimal.Zero, time.Now())
	assert.True(t, fee.Equal(decimal.NewFromInt(5)))

	// 1% of 2000 is 20, above the maximum fee.
	fee, _, _ = config.ComputeFee(decimal.NewFromInt(2000), decimal.Zero, time.Now())
	assert.True(t, fee.Equal(decimal.NewFromInt(8)))
}
