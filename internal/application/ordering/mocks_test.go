package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/partner"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]ordering.Order, int64, error) {
	args := m.Called(ctx, nodeID, filter)
	return args.Get(0).([]ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]ordering.Order, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindByNodeIDs(ctx context.Context, nodeIDs []uuid.UUID, filter shared.Filter) ([]ordering.Order, int64, error) {
	args := m.Called(ctx, nodeIDs, filter)
	return args.Get(0).([]ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) NextOrderSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockAcceptanceRepository is a mock implementation of AcceptanceRepository
type MockAcceptanceRepository struct {
	mock.Mock
}

func (m *MockAcceptanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Acceptance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Acceptance), args.Error(1)
}

func (m *MockAcceptanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Acceptance, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Acceptance), args.Error(1)
}

func (m *MockAcceptanceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Acceptance, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Acceptance), args.Error(1)
}

func (m *MockAcceptanceRepository) FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]ordering.Acceptance, int64, error) {
	args := m.Called(ctx, nodeID, filter)
	return args.Get(0).([]ordering.Acceptance), args.Get(1).(int64), args.Error(2)
}

func (m *MockAcceptanceRepository) FindOpen(ctx context.Context, filter shared.Filter) ([]ordering.Acceptance, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Acceptance), args.Get(1).(int64), args.Error(2)
}

func (m *MockAcceptanceRepository) Save(ctx context.Context, acceptance *ordering.Acceptance) error {
	args := m.Called(ctx, acceptance)
	return args.Error(0)
}

func (m *MockAcceptanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAcceptanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindBySupplierAndSKU(ctx context.Context, supplierID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, supplierID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindPublic(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySupplierAndSKU(ctx context.Context, supplierID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, supplierID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
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

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
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

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// stubVisibility answers CanNodeOrder with a fixed value
type stubVisibility struct {
	allowed bool
	err     error
}

func (s stubVisibility) CanNodeOrder(ctx context.Context, productID, nodeID uuid.UUID) (bool, error) {
	return s.allowed, s.err
}

// fakeObjectStorage returns canned presigned URLs
type fakeObjectStorage struct {
	missingObjects map[string]bool
}

func (f fakeObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.example.com/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f fakeObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.example.com/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f fakeObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	return nil
}

func (f fakeObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	return !f.missingObjects[storageKey], nil
}
