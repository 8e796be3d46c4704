package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRateConfigRepository implements billing.RateConfigRepository
type GormRateConfigRepository struct {
	db *gorm.DB
}

// NewGormRateConfigRepository creates a new GormRateConfigRepository
func NewGormRateConfigRepository(db *gorm.DB) *GormRateConfigRepository {
	return &GormRateConfigRepository{db: db}
}

// FindByID finds a rate config by ID with its tiers
func (r *GormRateConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.RateConfig, error) {
	var config billing.RateConfig
	if err := r.db.WithContext(ctx).
		Preload("Tiers").
		First(&config, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// FindEffectiveForSupplier returns the active config covering the given
// time, preferring a supplier-specific config over the platform default
func (r *GormRateConfigRepository) FindEffectiveForSupplier(ctx context.Context, supplierID uuid.UUID, at time.Time) (*billing.RateConfig, error) {
	effective := func(query *gorm.DB) *gorm.DB {
		return query.
			Where("active = ?", true).
			Where("effective_from <= ?", at).
			Where("effective_to IS NULL OR effective_to > ?", at).
			Order("effective_from DESC")
	}

	var config billing.RateConfig
	err := effective(r.db.WithContext(ctx).Preload("Tiers").
		Where("supplier_id = ?", supplierID)).
		First(&config).Error
	if err == nil {
		return &config, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// fall back to the platform default
	err = effective(r.db.WithContext(ctx).Preload("Tiers").
		Where("supplier_id IS NULL")).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// FindBySupplier finds rate configs for a supplier
func (r *GormRateConfigRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]billing.RateConfig, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&billing.RateConfig{}).
		Where("supplier_id = ?", supplierID)
	return r.page(query, filter)
}

// FindPlatformDefaults finds configs not bound to any supplier
func (r *GormRateConfigRepository) FindPlatformDefaults(ctx context.Context, filter shared.Filter) ([]billing.RateConfig, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&billing.RateConfig{}).
		Where("supplier_id IS NULL")
	return r.page(query, filter)
}

// FindAll finds all rate configs matching the filter
func (r *GormRateConfigRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.RateConfig, error) {
	var configs []billing.RateConfig
	query := applyPage(applySort(r.db.WithContext(ctx).Model(&billing.RateConfig{}), filter, RateConfigSortFields, "created_at"), filter)
	if err := query.Preload("Tiers").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Save creates or updates a rate config with its tiers
func (r *GormRateConfigRepository) Save(ctx context.Context, config *billing.RateConfig) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(config).Error
}

// Delete deletes a rate config
func (r *GormRateConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.RateConfig{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rate configs matching the filter
func (r *GormRateConfigRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.RateConfig{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRateConfigRepository) page(query *gorm.DB, filter shared.Filter) ([]billing.RateConfig, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var configs []billing.RateConfig
	page := applyPage(applySort(query, filter, RateConfigSortFields, "created_at"), filter)
	if err := page.Preload("Tiers").Find(&configs).Error; err != nil {
		return nil, 0, err
	}
	return configs, total, nil
}

var _ billing.RateConfigRepository = (*GormRateConfigRepository)(nil)

// GormTransactionRepository implements billing.TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Transaction, error) {
	var tx billing.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByOrder finds the transaction for an order
func (r *GormTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*billing.Transaction, error) {
	var tx billing.Transaction
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll finds all transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Transaction, error) {
	var txs []billing.Transaction
	query := applyPage(applySort(r.filtered(ctx, filter), filter, TransactionSortFields, "created_at"), filter)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindBySupplier finds transactions for a supplier
func (r *GormTransactionRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]billing.Transaction, int64, error) {
	query := r.filtered(ctx, filter).Where("supplier_id = ?", supplierID)
	return listWithTotal[billing.Transaction](query, filter, TransactionSortFields, "created_at")
}

// FindByStatement finds the transactions attached to a statement
func (r *GormTransactionRepository) FindByStatement(ctx context.Context, statementID uuid.UUID) ([]billing.Transaction, error) {
	var txs []billing.Transaction
	if err := r.db.WithContext(ctx).
		Where("statement_id = ?", statementID).
		Order("created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindPendingBySupplier finds unsettled transactions for a supplier
// created before the cutoff
func (r *GormTransactionRepository) FindPendingBySupplier(ctx context.Context, supplierID uuid.UUID, createdBefore time.Time) ([]billing.Transaction, error) {
	var txs []billing.Transaction
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND status = ? AND created_at < ?",
			supplierID, billing.TransactionStatusPending, createdBefore).
		Order("created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// SumOrderAmountBySupplier returns the supplier's non-void transaction
// value in the given window. This is the rolling GMV basis for tier
// resolution; voided commissions drop out of it.
func (r *GormTransactionRepository) SumOrderAmountBySupplier(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&billing.Transaction{}).
		Select("COALESCE(SUM(order_amount), 0) AS total").
		Where("supplier_id = ? AND status <> ? AND created_at >= ? AND created_at < ?",
			supplierID, billing.TransactionStatusVoid, from, to).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// FindSuppliersWithPending returns the distinct supplier IDs that have
// pending transactions
func (r *GormTransactionRepository) FindSuppliersWithPending(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&billing.Transaction{}).
		Where("status = ?", billing.TransactionStatusPending).
		Distinct("supplier_id").
		Pluck("supplier_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountByStatus counts transactions grouped by status
func (r *GormTransactionRepository) CountByStatus(ctx context.Context) (map[billing.TransactionStatus]int64, error) {
	var rows []struct {
		Status billing.TransactionStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Transaction{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[billing.TransactionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *billing.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// Delete deletes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransactionRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&billing.Transaction{})

	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "rate_config_missing":
			query = query.Where("rate_config_missing = ?", value)
		}
	}
	return query
}

var _ billing.TransactionRepository = (*GormTransactionRepository)(nil)

// GormStatementRepository implements billing.StatementRepository
type GormStatementRepository struct {
	db *gorm.DB
}

// NewGormStatementRepository creates a new GormStatementRepository
func NewGormStatementRepository(db *gorm.DB) *GormStatementRepository {
	return &GormStatementRepository{db: db}
}

// FindByID finds a statement by ID
func (r *GormStatementRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Statement, error) {
	var statement billing.Statement
	if err := r.db.WithContext(ctx).First(&statement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &statement, nil
}

// FindAll finds all statements matching the filter
func (r *GormStatementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Statement, error) {
	var statements []billing.Statement
	query := applyPage(applySort(r.db.WithContext(ctx).Model(&billing.Statement{}), filter, StatementSortFields, "period_start"), filter)
	if err := query.Find(&statements).Error; err != nil {
		return nil, err
	}
	return statements, nil
}

// FindBySupplier finds statements for a supplier
func (r *GormStatementRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]billing.Statement, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&billing.Statement{}).
		Where("supplier_id = ?", supplierID)
	return listWithTotal[billing.Statement](query, filter, StatementSortFields, "period_start")
}

// FindBySupplierAndPeriod finds the statement for a supplier and period
func (r *GormStatementRepository) FindBySupplierAndPeriod(ctx context.Context, supplierID uuid.UUID, periodStart time.Time) (*billing.Statement, error) {
	var statement billing.Statement
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND period_start = ?", supplierID, periodStart).
		First(&statement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &statement, nil
}

// Save creates or updates a statement
func (r *GormStatementRepository) Save(ctx context.Context, statement *billing.Statement) error {
	return r.db.WithContext(ctx).Save(statement).Error
}

// Delete deletes a statement
func (r *GormStatementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Statement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts statements matching the filter
func (r *GormStatementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Statement{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.StatementRepository = (*GormStatementRepository)(nil)
