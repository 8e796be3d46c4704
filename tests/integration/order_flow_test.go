package integration

import (
	"context"
	"testing"
	"time"

	billingapp "github.com/orderhub/backend/internal/application/billing"
	catalogapp "github.com/orderhub/backend/internal/application/catalog"
	appintegration "github.com/orderhub/backend/internal/application/integration"
	orderingapp "github.com/orderhub/backend/internal/application/ordering"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/partner"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/domain/shared/valueobject"
	"github.com/orderhub/backend/internal/infrastructure/cache"
	"github.com/orderhub/backend/internal/infrastructure/event"
	"github.com/orderhub/backend/internal/infrastructure/persistence"
	"github.com/orderhub/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// orderFlowSetup wires the services the way the orders binary does,
// with an in-memory bus so the delivered -> accepted -> closed ->
// billed chain runs inline.
type orderFlowSetup struct {
	Orders       *orderingapp.OrderService
	Acceptances  *orderingapp.AcceptanceService
	Transactions *billingapp.TransactionService

	SupplierID uuid.UUID
	NodeID     uuid.UUID
	ProductID  uuid.UUID
}

func newOrderFlowSetup(t *testing.T) *orderFlowSetup {
	t.Helper()

	testDB := NewSharedTestDB(t)
	testDB.CleanTables()
	db := testDB.DB
	log := zap.NewNop()
	bus := event.NewInMemoryEventBus(log)

	orders := persistence.NewGormOrderRepository(db)
	acceptances := persistence.NewGormAcceptanceRepository(db)
	products := persistence.NewGormProductRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)
	nodes := persistence.NewGormNodeRepository(db)
	shares := persistence.NewGormSkuShareRepository(db)
	audits := persistence.NewGormShareAuditLogRepository(db)
	transactions := persistence.NewGormTransactionRepository(db)
	rateConfigs := persistence.NewGormRateConfigRepository(db)

	shareService := catalogapp.NewShareService(shares, products, nodes, audits, bus, log)
	orderService := orderingapp.NewOrderService(orders, products, suppliers, nodes, shareService, bus, log)
	acceptanceService := orderingapp.NewAcceptanceService(acceptances, orders, storage.NewStubObjectStorage(), bus, log)
	transactionService := billingapp.NewTransactionService(transactions, rateConfigs, bus, log)

	bus.Subscribe(appintegration.NewOrderFlowHandler(
		orderService,
		acceptanceService,
		transactionService,
		cache.NewInMemoryIdempotencyStore(),
		shared.DefaultIdempotencyConfig(),
		log,
	))

	ctx := context.Background()

	supplier, err := partner.NewSupplier("Fresh Farms Co", "FRESH-01", "ops@freshfarms.example")
	require.NoError(t, err)
	require.NoError(t, supplier.Activate())
	require.NoError(t, suppliers.Save(ctx, supplier))

	// Only active business units can place orders, so the seed builds
	// the full four-level chain down from a group.
	group, err := hierarchy.NewRootNode("Metro Hotels Group", "METRO")
	require.NoError(t, err)
	company, err := hierarchy.NewChildNode(group, "Metro Hotels East", "METRO-E")
	require.NoError(t, err)
	location, err := hierarchy.NewChildNode(company, "Metro Downtown", "METRO-E-DT")
	require.NoError(t, err)
	kitchen, err := hierarchy.NewChildNode(location, "Main Kitchen", "METRO-E-DT-K1")
	require.NoError(t, err)
	for _, node := range []*hierarchy.Node{group, company, location, kitchen} {
		require.NoError(t, nodes.Save(ctx, node))
	}

	product, err := catalog.NewProduct(supplier.ID, "SKU-TOMATO-1", "Roma Tomatoes", "kg",
		valueobject.NewMoneyUSD(decimal.RequireFromString("2.50")))
	require.NoError(t, err)
	require.NoError(t, product.Activate())
	require.NoError(t, product.MakePublic())
	require.NoError(t, products.Save(ctx, product))

	config, err := billing.NewRateConfig(&supplier.ID, "Standard 5%",
		decimal.NewFromInt(5), decimal.NewFromInt(1), decimal.Zero,
		time.Now().Add(-24*time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, config.Activate())
	require.NoError(t, rateConfigs.Save(ctx, config))

	return &orderFlowSetup{
		Orders:       orderService,
		Acceptances:  acceptanceService,
		Transactions: transactionService,
		SupplierID:   supplier.ID,
		NodeID:       kitchen.ID,
		ProductID:    product.ID,
	}
}

// deliverOrder drives an order from draft to delivered and returns it
func (s *orderFlowSetup) deliverOrder(t *testing.T, ctx context.Context, quantity decimal.Decimal) *orderingapp.OrderResponse {
	t.Helper()

	order, err := s.Orders.CreateDraft(ctx, orderingapp.CreateOrderRequest{
		NodeID:          s.NodeID,
		SupplierID:      s.SupplierID,
		DeliveryAddress: "12 Harbor St, loading dock B",
	})
	require.NoError(t, err)
	require.Equal(t, string(ordering.OrderStatusDraft), order.Status)
	require.NotEmpty(t, order.OrderNumber)

	order, err = s.Orders.AddItem(ctx, order.ID, orderingapp.AddItemRequest{
		ProductID: s.ProductID,
		Quantity:  quantity,
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	_, err = s.Orders.Submit(ctx, order.ID)
	require.NoError(t, err)
	_, err = s.Orders.Confirm(ctx, order.ID)
	require.NoError(t, err)
	_, err = s.Orders.Ship(ctx, order.ID, orderingapp.ShipOrderRequest{TrackingRef: "TRK-1001"})
	require.NoError(t, err)
	order, err = s.Orders.MarkDelivered(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, string(ordering.OrderStatusDelivered), order.Status)

	return order
}

func TestOrderCloseOpensBillingTransaction(t *testing.T) {
	setup := newOrderFlowSetup(t)
	ctx := context.Background()

	// 40 kg at 2.50 gives an order amount of 100.00
	order := setup.deliverOrder(t, ctx, decimal.NewFromInt(40))

	// Delivery opens the receiving record through the event chain
	acceptance, err := setup.Acceptances.GetByOrder(ctx, order.ID)
	require.NoError(t, err, "delivery should have opened an acceptance record")
	require.Equal(t, string(ordering.AcceptanceStatusOpen), acceptance.Status)
	require.Len(t, acceptance.Lines, 1)
	assert.True(t, acceptance.Lines[0].ExpectedQty.Equal(decimal.NewFromInt(40)))

	acceptance, err = setup.Acceptances.RecordLine(ctx, acceptance.ID, orderingapp.RecordLineRequest{
		OrderItemID: acceptance.Lines[0].OrderItemID,
		AcceptedQty: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	_, err = setup.Acceptances.Complete(ctx, acceptance.ID, uuid.New(), orderingapp.CompleteAcceptanceRequest{
		Note: "all crates in good condition",
	})
	require.NoError(t, err)

	// Completion without rejections accepts and closes the order inline
	order, err = setup.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(ordering.OrderStatusClosed), order.Status)
	require.NotNil(t, order.ClosedAt)

	// The closed order opened a commission transaction at the 5% base rate
	tx, err := setup.Transactions.GetByOrder(ctx, order.ID)
	require.NoError(t, err, "closing the order should have created a billing transaction")
	assert.Equal(t, order.OrderNumber, tx.OrderNumber)
	assert.Equal(t, string(billing.TransactionStatusPending), tx.Status)
	assert.True(t, tx.OrderAmount.Equal(decimal.NewFromInt(100)), "order amount: %s", tx.OrderAmount)
	assert.True(t, tx.FeeAmount.Equal(decimal.NewFromInt(5)), "fee amount: %s", tx.FeeAmount)
	assert.False(t, tx.RateConfigMissing)
}

func TestRejectedGoodsDisputeOrderWithoutBilling(t *testing.T) {
	setup := newOrderFlowSetup(t)
	ctx := context.Background()

	order := setup.deliverOrder(t, ctx, decimal.NewFromInt(40))

	acceptance, err := setup.Acceptances.GetByOrder(ctx, order.ID)
	require.NoError(t, err)

	acceptance, err = setup.Acceptances.RecordLine(ctx, acceptance.ID, orderingapp.RecordLineRequest{
		OrderItemID:  acceptance.Lines[0].OrderItemID,
		AcceptedQty:  decimal.NewFromInt(30),
		RejectedQty:  decimal.NewFromInt(10),
		RejectReason: "bruised on arrival",
	})
	require.NoError(t, err)

	_, err = setup.Acceptances.Complete(ctx, acceptance.ID, uuid.New(), orderingapp.CompleteAcceptanceRequest{})
	require.NoError(t, err)

	// Rejections route the order to dispute instead of closing it
	order, err = setup.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(ordering.OrderStatusDisputed), order.Status)
	assert.Contains(t, order.DisputeReason, order.OrderNumber)

	// A disputed order never reaches billing
	_, err = setup.Transactions.GetByOrder(ctx, order.ID)
	require.Error(t, err)
}
