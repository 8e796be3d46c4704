package persistence

import (
	"github.com/orderhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applySort orders the query by the validated sort field and direction,
// falling back to defaultField when the requested field is not whitelisted.
func applySort(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// applyPage applies offset pagination from the filter
func applyPage(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// listWithTotal counts the filtered query and then loads a page of results.
// The count runs before sorting and pagination are applied.
func listWithTotal[T any](query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	page := applyPage(applySort(query, filter, allowed, defaultField), filter)
	if err := page.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
