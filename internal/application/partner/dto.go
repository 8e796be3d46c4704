package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/partner"
)

// CreateSupplierRequest is the request to onboard a new supplier
type CreateSupplierRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Code         string `json:"code" binding:"required,max=50"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"max=50"`
	Address      string `json:"address" binding:"max=500"`
	LeadTimeDays *int   `json:"lead_time_days" binding:"omitempty,min=0"`
	MinOrderQty  *int   `json:"min_order_qty" binding:"omitempty,min=1"`
	Remark       string `json:"remark" binding:"max=500"`
}

// UpdateSupplierRequest is the request to update supplier details
type UpdateSupplierRequest struct {
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	LeadTimeDays *int    `json:"lead_time_days" binding:"omitempty,min=0"`
	MinOrderQty  *int    `json:"min_order_qty" binding:"omitempty,min=1"`
	Remark       *string `json:"remark" binding:"omitempty,max=500"`
}

// BlockSupplierRequest is the request to block a supplier
type BlockSupplierRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SupplierListFilter holds the filters for listing suppliers
type SupplierListFilter struct {
	Status          string `form:"status"`
	Search          string `form:"search"`
	MaxLeadTimeDays int    `form:"max_lead_time_days"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir"`
}

// SupplierResponse is the API representation of a supplier
type SupplierResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Code         string     `json:"code"`
	Status       string     `json:"status"`
	ContactName  string     `json:"contact_name,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	LeadTimeDays int        `json:"lead_time_days"`
	MinOrderQty  int        `json:"min_order_qty"`
	Remark       string     `json:"remark,omitempty"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	BlockedAt    *time.Time `json:"blocked_at,omitempty"`
	BlockReason  string     `json:"block_reason,omitempty"`
	OffboardedAt *time.Time `json:"offboarded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToSupplierResponse converts a supplier aggregate to its API representation
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           s.ID,
		Name:         s.Name,
		Code:         s.Code,
		Status:       s.Status.String(),
		ContactName:  s.ContactName,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Address:      s.Address,
		LeadTimeDays: s.LeadTimeDays,
		MinOrderQty:  s.MinOrderQty,
		Remark:       s.Remark,
		ActivatedAt:  s.ActivatedAt,
		BlockedAt:    s.BlockedAt,
		BlockReason:  s.BlockReason,
		OffboardedAt: s.OffboardedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
