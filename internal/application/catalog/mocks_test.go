package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/partner"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
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

// MockSkuShareRepository is a mock implementation of SkuShareRepository
type MockSkuShareRepository struct {
	mock.Mock
}

func (m *MockSkuShareRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SkuShare, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SkuShare), args.Error(1)
}

func (m *MockSkuShareRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.SkuShare, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.SkuShare), args.Error(1)
}

func (m *MockSkuShareRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.SkuShare, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.SkuShare), args.Error(1)
}

func (m *MockSkuShareRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]catalog.SkuShare, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]catalog.SkuShare), args.Get(1).(int64), args.Error(2)
}

func (m *MockSkuShareRepository) FindByTargetNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]catalog.SkuShare, int64, error) {
	args := m.Called(ctx, nodeID, filter)
	return args.Get(0).([]catalog.SkuShare), args.Get(1).(int64), args.Error(2)
}

func (m *MockSkuShareRepository) FindPendingForNode(ctx context.Context, nodeID uuid.UUID) ([]catalog.SkuShare, error) {
	args := m.Called(ctx, nodeID)
	return args.Get(0).([]catalog.SkuShare), args.Error(1)
}

func (m *MockSkuShareRepository) FindApprovedForParticipant(ctx context.Context, productID, nodeID uuid.UUID) (*catalog.SkuShare, error) {
	args := m.Called(ctx, productID, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SkuShare), args.Error(1)
}

func (m *MockSkuShareRepository) Save(ctx context.Context, share *catalog.SkuShare) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockSkuShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSkuShareRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockShareAuditLogRepository is a mock implementation of ShareAuditLogRepository
type MockShareAuditLogRepository struct {
	mock.Mock

	entries []*catalog.ShareAuditLog
}

func (m *MockShareAuditLogRepository) Save(ctx context.Context, entries ...*catalog.ShareAuditLog) error {
	args := m.Called(ctx, entries)
	m.entries = append(m.entries, entries...)
	return args.Error(0)
}

func (m *MockShareAuditLogRepository) FindByShare(ctx context.Context, shareID uuid.UUID, filter shared.Filter) ([]catalog.ShareAuditLog, int64, error) {
	args := m.Called(ctx, shareID, filter)
	return args.Get(0).([]catalog.ShareAuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockShareAuditLogRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.ShareAuditLog, int64, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]catalog.ShareAuditLog), args.Get(1).(int64), args.Error(2)
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

// fakeObjectStorage returns canned presigned URLs
type fakeObjectStorage struct{}

func (fakeObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.example.com/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (fakeObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.example.com/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (fakeObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	return nil
}

func (fakeObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	return true, nil
}
