// Package ordering contains the application services for orders and
// receiving.
package ordering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/partner"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductVisibility answers whether a business unit may order a product.
// The catalog share service implements it.
type ProductVisibility interface {
	CanNodeOrder(ctx context.Context, productID, nodeID uuid.UUID) (bool, error)
}

// OrderService orchestrates the order lifecycle from draft to closure
type OrderService struct {
	orders     ordering.OrderRepository
	products   catalog.ProductRepository
	suppliers  partner.SupplierRepository
	nodes      hierarchy.NodeRepository
	visibility ProductVisibility
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders ordering.OrderRepository,
	products catalog.ProductRepository,
	suppliers partner.SupplierRepository,
	nodes hierarchy.NodeRepository,
	visibility ProductVisibility,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:     orders,
		products:   products,
		suppliers:  suppliers,
		nodes:      nodes,
		visibility: visibility,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateDraft opens a draft order for a business unit with a supplier
func (s *OrderService) CreateDraft(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	node, err := s.nodes.FindByID(ctx, req.NodeID)
	if err != nil {
		return nil, err
	}
	if !node.CanPlaceOrders() {
		return nil, shared.NewDomainError("INVALID_NODE", "Only active business units can place orders")
	}

	supplier, err := s.suppliers.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.CanReceiveOrders() {
		return nil, shared.ErrSupplierBlocked
	}

	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(orderNumber, req.NodeID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	order.Remark = req.Remark
	if req.RequestedDeliveryDate != nil || req.DeliveryAddress != "" {
		if err := order.SetDeliveryDetails(req.RequestedDeliveryDate, req.DeliveryAddress); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	s.logger.Info("order draft created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("node_id", order.NodeID.String()),
		zap.String("supplier_id", order.SupplierID.String()),
	)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// AddItem adds a product line to a draft order. The unit price is captured
// from the catalog at this moment.
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != order.SupplierID {
		return nil, shared.NewDomainError("SUPPLIER_MISMATCH", "Product belongs to a different supplier")
	}
	if !product.IsOrderable() {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is not orderable")
	}

	allowed, err := s.visibility.CanNodeOrder(ctx, product.ID, order.NodeID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, shared.NewDomainError("NOT_SHARED", "Product is not available to this business unit")
	}

	if _, err := order.AddItem(product.ID, product.SKU, product.Name, product.Unit, req.Quantity, product.UnitPriceMoney()); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdateItemQuantity changes a line quantity on a draft order
func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, req UpdateItemRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.UpdateItemQuantity(itemID, req.Quantity)
	})
}

// RemoveItem removes a line from a draft order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.RemoveItem(itemID)
	})
}

// SetDeliveryDetails sets the requested delivery date and address on a
// draft order
func (s *OrderService) SetDeliveryDetails(ctx context.Context, orderID uuid.UUID, req DeliveryDetailsRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.SetDeliveryDetails(req.RequestedDeliveryDate, req.DeliveryAddress)
	})
}

// Submit sends a draft order to the supplier
func (s *OrderService) Submit(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// The supplier may have been blocked since the draft was opened.
	supplier, err := s.suppliers.FindByID(ctx, order.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.CanReceiveOrders() {
		return nil, shared.ErrSupplierBlocked
	}

	if err := order.Submit(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Confirm records the supplier's acceptance of a submitted order
func (s *OrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*ordering.Order).Confirm)
}

// Ship records shipment with an optional tracking reference
func (s *OrderService) Ship(ctx context.Context, orderID uuid.UUID, req ShipOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Ship(req.TrackingRef)
	})
}

// MarkDelivered records delivery at the customer site and starts the
// acceptance window
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*ordering.Order).MarkDelivered)
}

// Accept records the customer's acceptance of the delivered goods
func (s *OrderService) Accept(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*ordering.Order).Accept)
}

// Dispute flags a delivered order for resolution
func (s *OrderService) Dispute(ctx context.Context, orderID uuid.UUID, req DisputeOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Dispute(req.Reason)
	})
}

// Close finalizes an accepted or resolved-disputed order, making it
// eligible for settlement
func (s *OrderService) Close(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, (*ordering.Order).Close)
}

// Cancel cancels an order before shipment
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Cancel(req.Reason)
	})
}

// GetByID returns an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByNumber returns an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List returns orders matching the filter. With SubtreeNodeID set the
// listing rolls up every order placed under that node's subtree.
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
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
	if filter.Status != "" {
		status := ordering.OrderStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
		}
		f.Filters["status"] = string(status)
	}

	var (
		orders []ordering.Order
		total  int64
		err    error
	)
	switch {
	case filter.SubtreeNodeID != nil:
		orders, total, err = s.listSubtree(ctx, *filter.SubtreeNodeID, f)
	case filter.NodeID != nil:
		orders, total, err = s.orders.FindByNode(ctx, *filter.NodeID, f)
	case filter.SupplierID != nil:
		orders, total, err = s.orders.FindBySupplier(ctx, *filter.SupplierID, f)
	case filter.Status != "":
		orders, total, err = s.orders.FindByStatus(ctx, ordering.OrderStatus(f.Filters["status"].(string)), f)
	default:
		orders, err = s.orders.FindAll(ctx, f)
		if err == nil {
			total, err = s.orders.Count(ctx, f)
		}
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToOrderResponses(orders), total, f.Page, f.PageSize)
	return &result, nil
}

func (s *OrderService) listSubtree(ctx context.Context, nodeID uuid.UUID, f shared.Filter) ([]ordering.Order, int64, error) {
	node, err := s.nodes.FindByID(ctx, nodeID)
	if err != nil {
		return nil, 0, err
	}
	subtree, err := s.nodes.FindSubtree(ctx, node.Path)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, len(subtree))
	for i := range subtree {
		ids[i] = subtree[i].ID
	}
	return s.orders.FindByNodeIDs(ctx, ids, f)
}

func (s *OrderService) nextOrderNumber(ctx context.Context) (string, error) {
	seq, err := s.orders.NextOrderSequence(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SO-%s-%06d", time.Now().Format("20060102"), seq), nil
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, apply func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *ordering.Order) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}
