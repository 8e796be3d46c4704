package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNodeRepository implements hierarchy.NodeRepository using GORM
type GormNodeRepository struct {
	db *gorm.DB
}

// NewGormNodeRepository creates a new GormNodeRepository
func NewGormNodeRepository(db *gorm.DB) *GormNodeRepository {
	return &GormNodeRepository{db: db}
}

// FindByID finds a node by its ID
func (r *GormNodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*hierarchy.Node, error) {
	var node hierarchy.Node
	if err := r.db.WithContext(ctx).First(&node, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &node, nil
}

// FindByCode finds a node by its unique code
func (r *GormNodeRepository) FindByCode(ctx context.Context, code string) (*hierarchy.Node, error) {
	var node hierarchy.Node
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &node, nil
}

// FindAll finds all nodes matching the filter
func (r *GormNodeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]hierarchy.Node, error) {
	var nodes []hierarchy.Node
	query := applyPage(applySort(r.filtered(ctx, filter), filter, NodeSortFields, "path"), filter)
	if err := query.Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

// FindRoots finds all group-level nodes
func (r *GormNodeRepository) FindRoots(ctx context.Context, filter shared.Filter) ([]hierarchy.Node, int64, error) {
	query := r.filtered(ctx, filter).Where("level = ?", hierarchy.LevelGroup)
	return listWithTotal[hierarchy.Node](query, filter, NodeSortFields, "name")
}

// FindChildren finds the direct children of a node
func (r *GormNodeRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]hierarchy.Node, error) {
	var nodes []hierarchy.Node
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

// FindSubtree returns every node whose path starts with the given prefix,
// ordered by path so parents come before children
func (r *GormNodeRepository) FindSubtree(ctx context.Context, pathPrefix string) ([]hierarchy.Node, error) {
	var nodes []hierarchy.Node
	if err := r.db.WithContext(ctx).
		Where("path LIKE ?", pathPrefix+"%").
		Order("path ASC").
		Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

// FindByIDs finds multiple nodes by their IDs
func (r *GormNodeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]hierarchy.Node, error) {
	if len(ids) == 0 {
		return []hierarchy.Node{}, nil
	}
	var nodes []hierarchy.Node
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

// FindByLevel finds nodes at a given level
func (r *GormNodeRepository) FindByLevel(ctx context.Context, level hierarchy.NodeLevel, filter shared.Filter) ([]hierarchy.Node, int64, error) {
	query := r.filtered(ctx, filter).Where("level = ?", level)
	return listWithTotal[hierarchy.Node](query, filter, NodeSortFields, "path")
}

// Save creates or updates a node
func (r *GormNodeRepository) Save(ctx context.Context, node *hierarchy.Node) error {
	return r.db.WithContext(ctx).Save(node).Error
}

// SaveAll persists multiple nodes in a single transaction
func (r *GormNodeRepository) SaveAll(ctx context.Context, nodes []*hierarchy.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, node := range nodes {
			if err := tx.Save(node).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RewritePathPrefix replaces oldPrefix with newPrefix on all paths under
// the old prefix. Used after a subtree move.
func (r *GormNodeRepository) RewritePathPrefix(ctx context.Context, oldPrefix, newPrefix string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&hierarchy.Node{}).
		Where("path LIKE ?", oldPrefix+"%").
		Update("path", gorm.Expr("REPLACE(path, ?, ?)", oldPrefix, newPrefix))
	return result.RowsAffected, result.Error
}

// SetActiveByPathPrefix toggles active on an entire subtree
func (r *GormNodeRepository) SetActiveByPathPrefix(ctx context.Context, pathPrefix string, active bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&hierarchy.Node{}).
		Where("path LIKE ?", pathPrefix+"%").
		Update("active", active)
	return result.RowsAffected, result.Error
}

// CountChildren counts the direct children of a node
func (r *GormNodeRepository) CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&hierarchy.Node{}).
		Where("parent_id = ?", parentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a node
func (r *GormNodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&hierarchy.Node{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts nodes matching the filter
func (r *GormNodeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNodeRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&hierarchy.Node{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "level":
			query = query.Where("level = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "parent_id":
			query = query.Where("parent_id = ?", value)
		}
	}
	return query
}

var _ hierarchy.NodeRepository = (*GormNodeRepository)(nil)
