package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSkuShareRepository implements catalog.SkuShareRepository using GORM
type GormSkuShareRepository struct {
	db *gorm.DB
}

// NewGormSkuShareRepository creates a new GormSkuShareRepository
func NewGormSkuShareRepository(db *gorm.DB) *GormSkuShareRepository {
	return &GormSkuShareRepository{db: db}
}

// FindByID finds a share by ID including its participants
func (r *GormSkuShareRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SkuShare, error) {
	var share catalog.SkuShare
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		First(&share, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &share, nil
}

// FindAll finds all shares matching the filter
func (r *GormSkuShareRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.SkuShare, error) {
	var shares []catalog.SkuShare
	query := applyPage(applySort(r.filtered(ctx, filter), filter, SkuShareSortFields, "created_at"), filter)
	if err := query.Preload("Participants").Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// FindByProduct finds all shares for a product
func (r *GormSkuShareRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.SkuShare, error) {
	var shares []catalog.SkuShare
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// FindBySupplier finds shares for a supplier's products
func (r *GormSkuShareRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]catalog.SkuShare, int64, error) {
	query := r.filtered(ctx, filter).Where("supplier_id = ?", supplierID)
	return r.page(query, filter)
}

// FindByTargetNode finds shares addressed to a node
func (r *GormSkuShareRepository) FindByTargetNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]catalog.SkuShare, int64, error) {
	query := r.filtered(ctx, filter).Where("target_node_id = ?", nodeID)
	return r.page(query, filter)
}

// FindPendingForNode finds shares awaiting a decision from a node
func (r *GormSkuShareRepository) FindPendingForNode(ctx context.Context, nodeID uuid.UUID) ([]catalog.SkuShare, error) {
	var shares []catalog.SkuShare
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("target_node_id = ? AND status = ?", nodeID, catalog.ShareStatusPending).
		Order("created_at ASC").
		Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// FindApprovedForParticipant returns the approved share for the product in
// which the node is an active participant. The share's target is often an
// ancestor of the node, so the lookup goes through the participant rows
// rather than the target node.
func (r *GormSkuShareRepository) FindApprovedForParticipant(ctx context.Context, productID, nodeID uuid.UUID) (*catalog.SkuShare, error) {
	var share catalog.SkuShare
	if err := r.db.WithContext(ctx).
		Select("sku_shares.*").
		Preload("Participants").
		Joins("JOIN sku_share_participants ON sku_share_participants.share_id = sku_shares.id").
		Where("sku_shares.product_id = ? AND sku_shares.status = ? AND sku_share_participants.node_id = ? AND sku_share_participants.active = ?",
			productID, catalog.ShareStatusApproved, nodeID, true).
		First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &share, nil
}

// Save creates or updates a share with its participants
func (r *GormSkuShareRepository) Save(ctx context.Context, share *catalog.SkuShare) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(share).Error
}

// Delete deletes a share
func (r *GormSkuShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.SkuShare{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts shares matching the filter
func (r *GormSkuShareRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSkuShareRepository) page(query *gorm.DB, filter shared.Filter) ([]catalog.SkuShare, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var shares []catalog.SkuShare
	page := applyPage(applySort(query, filter, SkuShareSortFields, "created_at"), filter)
	if err := page.Preload("Participants").Find(&shares).Error; err != nil {
		return nil, 0, err
	}
	return shares, total, nil
}

func (r *GormSkuShareRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&catalog.SkuShare{})

	if filter.Search != "" {
		query = query.Where("sku ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}
	return query
}

var _ catalog.SkuShareRepository = (*GormSkuShareRepository)(nil)

// GormShareAuditLogRepository implements catalog.ShareAuditLogRepository.
// The audit trail is append-only.
type GormShareAuditLogRepository struct {
	db *gorm.DB
}

// NewGormShareAuditLogRepository creates a new GormShareAuditLogRepository
func NewGormShareAuditLogRepository(db *gorm.DB) *GormShareAuditLogRepository {
	return &GormShareAuditLogRepository{db: db}
}

// Save appends audit entries
func (r *GormShareAuditLogRepository) Save(ctx context.Context, entries ...*catalog.ShareAuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// FindByShare returns the audit trail for a share, newest first
func (r *GormShareAuditLogRepository) FindByShare(ctx context.Context, shareID uuid.UUID, filter shared.Filter) ([]catalog.ShareAuditLog, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.ShareAuditLog{}).
		Where("share_id = ?", shareID)
	return listWithTotal[catalog.ShareAuditLog](query, filter, CommonSortFields, "created_at")
}

// FindByProduct returns the audit trail across all shares of a product
func (r *GormShareAuditLogRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.ShareAuditLog, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.ShareAuditLog{}).
		Where("product_id = ?", productID)
	return listWithTotal[catalog.ShareAuditLog](query, filter, CommonSortFields, "created_at")
}

var _ catalog.ShareAuditLogRepository = (*GormShareAuditLogRepository)(nil)
