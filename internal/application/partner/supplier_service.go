// Package partner contains the application services for supplier
// management.
package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/partner"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService orchestrates supplier lifecycle operations
type SupplierService struct {
	suppliers partner.SupplierRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(suppliers partner.SupplierRepository, publisher shared.EventPublisher, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		publisher: publisher,
		logger:    logger,
	}
}

// Create onboards a new supplier in pending status
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	exists, err := s.suppliers.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(req.Name, code, req.ContactEmail)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = req.ContactName
	supplier.ContactPhone = req.ContactPhone
	supplier.Address = req.Address
	if req.LeadTimeDays != nil || req.MinOrderQty != nil {
		lead := supplier.LeadTimeDays
		minQty := supplier.MinOrderQty
		if req.LeadTimeDays != nil {
			lead = *req.LeadTimeDays
		}
		if req.MinOrderQty != nil {
			minQty = *req.MinOrderQty
		}
		if err := supplier.UpdateFulfillmentTerms(lead, minQty); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		supplier.SetRemark(req.Remark)
	}

	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, supplier)

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("code", supplier.Code),
	)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID returns a supplier by its ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByCode returns a supplier by its code
func (s *SupplierService) GetByCode(ctx context.Context, code string) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns suppliers matching the filter
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) (*shared.Paginated[SupplierResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.MaxLeadTimeDays > 0 {
		f.Filters["max_lead_time_days"] = filter.MaxLeadTimeDays
	}

	var (
		suppliers []partner.Supplier
		total     int64
		err       error
	)
	if filter.Status != "" {
		status := partner.SupplierStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown supplier status")
		}
		suppliers, total, err = s.suppliers.FindByStatus(ctx, status, f)
	} else {
		suppliers, err = s.suppliers.FindAll(ctx, f)
		if err == nil {
			total, err = s.suppliers.Count(ctx, f)
		}
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToSupplierResponses(suppliers), total, f.Page, f.PageSize)
	return &result, nil
}

// Update changes supplier contact details and fulfillment terms
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contactName := supplier.ContactName
	contactEmail := supplier.ContactEmail
	contactPhone := supplier.ContactPhone
	address := supplier.Address
	if req.ContactName != nil {
		contactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		contactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		contactPhone = *req.ContactPhone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := supplier.UpdateContact(contactName, contactEmail, contactPhone, address); err != nil {
		return nil, err
	}

	if req.LeadTimeDays != nil || req.MinOrderQty != nil {
		lead := supplier.LeadTimeDays
		minQty := supplier.MinOrderQty
		if req.LeadTimeDays != nil {
			lead = *req.LeadTimeDays
		}
		if req.MinOrderQty != nil {
			minQty = *req.MinOrderQty
		}
		if err := supplier.UpdateFulfillmentTerms(lead, minQty); err != nil {
			return nil, err
		}
	}
	if req.Remark != nil {
		supplier.SetRemark(*req.Remark)
	}

	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Activate moves a supplier to active status
func (s *SupplierService) Activate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.transition(ctx, id, func(supplier *partner.Supplier) error {
		return supplier.Activate()
	})
}

// Block blocks a supplier from receiving new orders
func (s *SupplierService) Block(ctx context.Context, id uuid.UUID, req BlockSupplierRequest) (*SupplierResponse, error) {
	return s.transition(ctx, id, func(supplier *partner.Supplier) error {
		return supplier.Block(req.Reason)
	})
}

// Offboard permanently removes a supplier from the platform
func (s *SupplierService) Offboard(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.transition(ctx, id, func(supplier *partner.Supplier) error {
		return supplier.Offboard()
	})
}

func (s *SupplierService) transition(ctx context.Context, id uuid.UUID, apply func(*partner.Supplier) error) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(supplier); err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, supplier)

	s.logger.Info("supplier status changed",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("status", supplier.Status.String()),
	)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

func (s *SupplierService) publishEvents(ctx context.Context, supplier *partner.Supplier) {
	events := supplier.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish supplier events",
			zap.String("supplier_id", supplier.ID.String()),
			zap.Error(err),
		)
	}
	supplier.ClearDomainEvents()
}
