package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// orderSequence backs NextOrderSequence. A single row is incremented in a
// transaction so concurrent submitters get distinct numbers.
type orderSequence struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value int64  `gorm:"not null"`
}

func (orderSequence) TableName() string {
	return "order_sequences"
}

// FindByID finds an order by ID including its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyPage(applySort(r.filtered(ctx, filter), filter, OrderSortFields, "created_at"), filter)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByNode finds orders placed by a node
func (r *GormOrderRepository) FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]ordering.Order, int64, error) {
	query := r.filtered(ctx, filter).Where("node_id = ?", nodeID)
	return r.page(query, filter)
}

// FindBySupplier finds orders addressed to a supplier
func (r *GormOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]ordering.Order, int64, error) {
	query := r.filtered(ctx, filter).Where("supplier_id = ?", supplierID)
	return r.page(query, filter)
}

// FindByStatus finds orders in a given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, int64, error) {
	query := r.filtered(ctx, filter).Where("status = ?", status)
	return r.page(query, filter)
}

// FindByNodeIDs finds orders placed by any of the given nodes
func (r *GormOrderRepository) FindByNodeIDs(ctx context.Context, nodeIDs []uuid.UUID, filter shared.Filter) ([]ordering.Order, int64, error) {
	if len(nodeIDs) == 0 {
		return []ordering.Order{}, 0, nil
	}
	query := r.filtered(ctx, filter).Where("node_id IN ?", nodeIDs)
	return r.page(query, filter)
}

// NextOrderSequence returns a monotonically increasing number
func (r *GormOrderRepository) NextOrderSequence(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderSequence{}).
			Where("name = ?", "orders").
			Update("value", gorm.Expr("value + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := tx.Create(&orderSequence{Name: "orders", Value: 1}).Error; err != nil {
				return err
			}
			value = 1
			return nil
		}

		var seq orderSequence
		if err := tx.First(&seq, "name = ?", "orders").Error; err != nil {
			return err
		}
		value = seq.Value
		return nil
	})
	return value, err
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// Delete deletes an order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) page(query *gorm.DB, filter shared.Filter) ([]ordering.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []ordering.Order
	page := applyPage(applySort(query, filter, OrderSortFields, "created_at"), filter)
	if err := page.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&ordering.Order{})

	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

var _ ordering.OrderRepository = (*GormOrderRepository)(nil)

// GormAcceptanceRepository implements ordering.AcceptanceRepository
type GormAcceptanceRepository struct {
	db *gorm.DB
}

// NewGormAcceptanceRepository creates a new GormAcceptanceRepository
func NewGormAcceptanceRepository(db *gorm.DB) *GormAcceptanceRepository {
	return &GormAcceptanceRepository{db: db}
}

// FindByID finds an acceptance by ID with lines and photos
func (r *GormAcceptanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Acceptance, error) {
	var acceptance ordering.Acceptance
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Photos").
		First(&acceptance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acceptance, nil
}

// FindByOrder finds the acceptance for an order
func (r *GormAcceptanceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Acceptance, error) {
	var acceptance ordering.Acceptance
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Photos").
		Where("order_id = ?", orderID).
		First(&acceptance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acceptance, nil
}

// FindAll finds all acceptances matching the filter
func (r *GormAcceptanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Acceptance, error) {
	var acceptances []ordering.Acceptance
	query := applyPage(applySort(r.filtered(ctx, filter), filter, AcceptanceSortFields, "created_at"), filter)
	if err := query.Preload("Lines").Preload("Photos").Find(&acceptances).Error; err != nil {
		return nil, err
	}
	return acceptances, nil
}

// FindByNode finds acceptances recorded at a node
func (r *GormAcceptanceRepository) FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]ordering.Acceptance, int64, error) {
	query := r.filtered(ctx, filter).Where("node_id = ?", nodeID)
	return r.page(query, filter)
}

// FindOpen finds acceptances still awaiting completion
func (r *GormAcceptanceRepository) FindOpen(ctx context.Context, filter shared.Filter) ([]ordering.Acceptance, int64, error) {
	query := r.filtered(ctx, filter).Where("status = ?", ordering.AcceptanceStatusOpen)
	return r.page(query, filter)
}

// Save creates or updates an acceptance with its lines and photos
func (r *GormAcceptanceRepository) Save(ctx context.Context, acceptance *ordering.Acceptance) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(acceptance).Error
}

// Delete deletes an acceptance
func (r *GormAcceptanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.Acceptance{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts acceptances matching the filter
func (r *GormAcceptanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAcceptanceRepository) page(query *gorm.DB, filter shared.Filter) ([]ordering.Acceptance, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var acceptances []ordering.Acceptance
	page := applyPage(applySort(query, filter, AcceptanceSortFields, "created_at"), filter)
	if err := page.Preload("Lines").Preload("Photos").Find(&acceptances).Error; err != nil {
		return nil, 0, err
	}
	return acceptances, total, nil
}

func (r *GormAcceptanceRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&ordering.Acceptance{})

	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		}
	}
	return query
}

var _ ordering.AcceptanceRepository = (*GormAcceptanceRepository)(nil)
