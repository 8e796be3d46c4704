package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the request to open a draft order
type CreateOrderRequest struct {
	NodeID                uuid.UUID  `json:"node_id" binding:"required"`
	SupplierID            uuid.UUID  `json:"supplier_id" binding:"required"`
	RequestedDeliveryDate *time.Time `json:"requested_delivery_date"`
	DeliveryAddress       string     `json:"delivery_address" binding:"max=500"`
	Remark                string     `json:"remark" binding:"max=500"`
}

// AddItemRequest is the request to add a line to a draft order
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateItemRequest is the request to change a line quantity
type UpdateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// DeliveryDetailsRequest sets the requested delivery date and address
type DeliveryDetailsRequest struct {
	RequestedDeliveryDate *time.Time `json:"requested_delivery_date"`
	DeliveryAddress       string     `json:"delivery_address" binding:"max=500"`
}

// ShipOrderRequest records shipment with an optional tracking reference
type ShipOrderRequest struct {
	TrackingRef string `json:"tracking_ref" binding:"max=100"`
}

// DisputeOrderRequest flags a delivered order for resolution
type DisputeOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelOrderRequest cancels an order before shipment
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter holds the filters for listing orders. SubtreeNodeID
// widens the listing to every order placed under that node's subtree.
type OrderListFilter struct {
	NodeID        *uuid.UUID `form:"node_id"`
	SubtreeNodeID *uuid.UUID `form:"subtree_node_id"`
	SupplierID    *uuid.UUID `form:"supplier_id"`
	Status        string     `form:"status"`
	Search        string     `form:"search"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir"`
}

// OrderItemResponse is the API representation of an order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Remark      string          `json:"remark,omitempty"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID                    uuid.UUID           `json:"id"`
	OrderNumber           string              `json:"order_number"`
	NodeID                uuid.UUID           `json:"node_id"`
	SupplierID            uuid.UUID           `json:"supplier_id"`
	Status                string              `json:"status"`
	Items                 []OrderItemResponse `json:"items"`
	TotalAmount           decimal.Decimal     `json:"total_amount"`
	RequestedDeliveryDate *time.Time          `json:"requested_delivery_date,omitempty"`
	DeliveryAddress       string              `json:"delivery_address,omitempty"`
	Remark                string              `json:"remark,omitempty"`
	TrackingRef           string              `json:"tracking_ref,omitempty"`
	CancelReason          string              `json:"cancel_reason,omitempty"`
	DisputeReason         string              `json:"dispute_reason,omitempty"`
	SubmittedAt           *time.Time          `json:"submitted_at,omitempty"`
	ConfirmedAt           *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt             *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt           *time.Time          `json:"delivered_at,omitempty"`
	AcceptedAt            *time.Time          `json:"accepted_at,omitempty"`
	DisputedAt            *time.Time          `json:"disputed_at,omitempty"`
	ClosedAt              *time.Time          `json:"closed_at,omitempty"`
	CancelledAt           *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// ToOrderResponse converts an order aggregate to its API representation
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			Remark:      item.Remark,
		}
	}
	return OrderResponse{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		NodeID:                o.NodeID,
		SupplierID:            o.SupplierID,
		Status:                o.Status.String(),
		Items:                 items,
		TotalAmount:           o.TotalAmount,
		RequestedDeliveryDate: o.RequestedDeliveryDate,
		DeliveryAddress:       o.DeliveryAddress,
		Remark:                o.Remark,
		TrackingRef:           o.TrackingRef,
		CancelReason:          o.CancelReason,
		DisputeReason:         o.DisputeReason,
		SubmittedAt:           o.SubmittedAt,
		ConfirmedAt:           o.ConfirmedAt,
		ShippedAt:             o.ShippedAt,
		DeliveredAt:           o.DeliveredAt,
		AcceptedAt:            o.AcceptedAt,
		DisputedAt:            o.DisputedAt,
		ClosedAt:              o.ClosedAt,
		CancelledAt:           o.CancelledAt,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// RecordLineRequest records received quantities for one order line
type RecordLineRequest struct {
	OrderItemID  uuid.UUID       `json:"order_item_id" binding:"required"`
	AcceptedQty  decimal.Decimal `json:"accepted_qty"`
	RejectedQty  decimal.Decimal `json:"rejected_qty"`
	RejectReason string          `json:"reject_reason" binding:"max=500"`
}

// PhotoUploadRequest asks for a presigned photo upload URL
type PhotoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// AttachPhotoRequest records an uploaded evidence photo on the acceptance
type AttachPhotoRequest struct {
	ObjectKey   string `json:"object_key" binding:"required,max=500"`
	ContentType string `json:"content_type" binding:"max=100"`
}

// CompleteAcceptanceRequest finalizes the receiving record
type CompleteAcceptanceRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// AcceptanceListFilter holds the filters for listing receiving records
type AcceptanceListFilter struct {
	NodeID   *uuid.UUID `form:"node_id"`
	OpenOnly bool       `form:"open_only"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
}

// AcceptanceLineResponse is the API representation of an acceptance line
type AcceptanceLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderItemID  uuid.UUID       `json:"order_item_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	ExpectedQty  decimal.Decimal `json:"expected_qty"`
	AcceptedQty  decimal.Decimal `json:"accepted_qty"`
	RejectedQty  decimal.Decimal `json:"rejected_qty"`
	RejectReason string          `json:"reject_reason,omitempty"`
	Recorded     bool            `json:"recorded"`
}

// AcceptancePhotoResponse is the API representation of an evidence photo
type AcceptancePhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AcceptanceResponse is the API representation of a receiving record
type AcceptanceResponse struct {
	ID          uuid.UUID                 `json:"id"`
	OrderID     uuid.UUID                 `json:"order_id"`
	OrderNumber string                    `json:"order_number"`
	NodeID      uuid.UUID                 `json:"node_id"`
	SupplierID  uuid.UUID                 `json:"supplier_id"`
	Status      string                    `json:"status"`
	Lines       []AcceptanceLineResponse  `json:"lines"`
	Photos      []AcceptancePhotoResponse `json:"photos"`
	CompletedBy *uuid.UUID                `json:"completed_by,omitempty"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	Note        string                    `json:"note,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// ToAcceptanceResponse converts an acceptance aggregate to its API
// representation
func ToAcceptanceResponse(a *ordering.Acceptance) AcceptanceResponse {
	lines := make([]AcceptanceLineResponse, len(a.Lines))
	for i, line := range a.Lines {
		lines[i] = AcceptanceLineResponse{
			ID:           line.ID,
			OrderItemID:  line.OrderItemID,
			ProductID:    line.ProductID,
			SKU:          line.SKU,
			ExpectedQty:  line.ExpectedQty,
			AcceptedQty:  line.AcceptedQty,
			RejectedQty:  line.RejectedQty,
			RejectReason: line.RejectReason,
			Recorded:     line.Recorded,
		}
	}
	photos := make([]AcceptancePhotoResponse, len(a.Photos))
	for i, photo := range a.Photos {
		photos[i] = AcceptancePhotoResponse{
			ID:          photo.ID,
			ObjectKey:   photo.ObjectKey,
			ContentType: photo.ContentType,
			UploadedBy:  photo.UploadedBy,
			CreatedAt:   photo.CreatedAt,
		}
	}
	return AcceptanceResponse{
		ID:          a.ID,
		OrderID:     a.OrderID,
		OrderNumber: a.OrderNumber,
		NodeID:      a.NodeID,
		SupplierID:  a.SupplierID,
		Status:      string(a.Status),
		Lines:       lines,
		Photos:      photos,
		CompletedBy: a.CompletedBy,
		CompletedAt: a.CompletedAt,
		Note:        a.Note,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToAcceptanceResponses converts a slice of acceptances
func ToAcceptanceResponses(acceptances []ordering.Acceptance) []AcceptanceResponse {
	responses := make([]AcceptanceResponse, len(acceptances))
	for i := range acceptances {
		responses[i] = ToAcceptanceResponse(&acceptances[i])
	}
	return responses
}

// UploadURLResponse carries a presigned upload URL for an evidence photo
type UploadURLResponse struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
