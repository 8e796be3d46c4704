package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to create a product for a supplier
type CreateProductRequest struct {
	SupplierID  uuid.UUID       `json:"supplier_id" binding:"required"`
	SKU         string          `json:"sku" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Unit        string          `json:"unit" binding:"required,max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Category    string          `json:"category" binding:"max=100"`
	Barcode     string          `json:"barcode" binding:"max=100"`
}

// UpdateProductRequest is the request to update product details
type UpdateProductRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	Barcode     *string `json:"barcode" binding:"omitempty,max=100"`
}

// UpdatePriceRequest is the request to reprice a product
type UpdatePriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ProductImageUploadRequest is the request for a presigned image upload URL
type ProductImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ProductListFilter holds the filters for listing products
type ProductListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status"`
	Category   string     `form:"category"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Status         string          `json:"status"`
	Visibility     string          `json:"visibility"`
	Category       string          `json:"category,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	ImageKey       string          `json:"image_key,omitempty"`
	ActivatedAt    *time.Time      `json:"activated_at,omitempty"`
	DiscontinuedAt *time.Time      `json:"discontinued_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// UploadURLResponse carries a presigned upload URL for a product image or
// acceptance photo
type UploadURLResponse struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToProductResponse converts a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		SupplierID:     p.SupplierID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		UnitPrice:      p.UnitPrice,
		Status:         p.Status.String(),
		Visibility:     string(p.Visibility),
		Category:       p.Category,
		Barcode:        p.Barcode,
		ImageKey:       p.ImageKey,
		ActivatedAt:    p.ActivatedAt,
		DiscontinuedAt: p.DiscontinuedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// RequestShareRequest is the supplier request to offer a private SKU to a
// customer subtree
type RequestShareRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	TargetNodeID uuid.UUID `json:"target_node_id" binding:"required"`
	Message      string    `json:"message" binding:"max=500"`
}

// DecideShareRequest is the customer decision on a pending share
type DecideShareRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// RevokeShareRequest is the supplier request to withdraw an approved share
type RevokeShareRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// JoinShareRequest enrolls a business unit into an approved share
type JoinShareRequest struct {
	NodeID uuid.UUID `json:"node_id" binding:"required"`
}

// ShareListFilter holds the filters for listing shares
type ShareListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ShareParticipantResponse is the API representation of a share participant
type ShareParticipantResponse struct {
	ID       uuid.UUID  `json:"id"`
	NodeID   uuid.UUID  `json:"node_id"`
	JoinedBy uuid.UUID  `json:"joined_by"`
	Active   bool       `json:"active"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

// ShareResponse is the API representation of a SKU share
type ShareResponse struct {
	ID           uuid.UUID                  `json:"id"`
	ProductID    uuid.UUID                  `json:"product_id"`
	SKU          string                     `json:"sku"`
	SupplierID   uuid.UUID                  `json:"supplier_id"`
	TargetNodeID uuid.UUID                  `json:"target_node_id"`
	Status       string                     `json:"status"`
	Message      string                     `json:"message,omitempty"`
	RequestedBy  uuid.UUID                  `json:"requested_by"`
	DecidedBy    *uuid.UUID                 `json:"decided_by,omitempty"`
	DecisionNote string                     `json:"decision_note,omitempty"`
	DecidedAt    *time.Time                 `json:"decided_at,omitempty"`
	RevokedAt    *time.Time                 `json:"revoked_at,omitempty"`
	Participants []ShareParticipantResponse `json:"participants"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// ToShareResponse converts a share aggregate to its API representation
func ToShareResponse(s *catalog.SkuShare) ShareResponse {
	participants := make([]ShareParticipantResponse, len(s.Participants))
	for i, p := range s.Participants {
		participants[i] = ShareParticipantResponse{
			ID:       p.ID,
			NodeID:   p.NodeID,
			JoinedBy: p.JoinedBy,
			Active:   p.Active,
			JoinedAt: p.JoinedAt,
			LeftAt:   p.LeftAt,
		}
	}
	return ShareResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		SKU:          s.SKU,
		SupplierID:   s.SupplierID,
		TargetNodeID: s.TargetNodeID,
		Status:       s.Status.String(),
		Message:      s.Message,
		RequestedBy:  s.RequestedBy,
		DecidedBy:    s.DecidedBy,
		DecisionNote: s.DecisionNote,
		DecidedAt:    s.DecidedAt,
		RevokedAt:    s.RevokedAt,
		Participants: participants,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToShareResponses converts a slice of shares
func ToShareResponses(shares []catalog.SkuShare) []ShareResponse {
	responses := make([]ShareResponse, len(shares))
	for i := range shares {
		responses[i] = ToShareResponse(&shares[i])
	}
	return responses
}

// AuditLogResponse is the API representation of a share audit entry
type AuditLogResponse struct {
	ID        uuid.UUID  `json:"id"`
	ShareID   uuid.UUID  `json:"share_id"`
	ProductID uuid.UUID  `json:"product_id"`
	SKU       string     `json:"sku"`
	Action    string     `json:"action"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	NodeID    *uuid.UUID `json:"node_id,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToAuditLogResponses converts audit log entries
func ToAuditLogResponses(entries []catalog.ShareAuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		responses[i] = AuditLogResponse{
			ID:        e.ID,
			ShareID:   e.ShareID,
			ProductID: e.ProductID,
			SKU:       e.SKU,
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			NodeID:    e.NodeID,
			Detail:    e.Detail,
			IPAddress: e.IPAddress,
			CreatedAt: e.CreatedAt,
		}
	}
	return responses
}
