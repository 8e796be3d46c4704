package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

const photoUploadURLExpiry = 15 * time.Minute

// AcceptanceService orchestrates receiving records. A record opens when an
// order is delivered, collects per-line quantities and evidence photos,
// and on completion drives the order to accepted or disputed.
type AcceptanceService struct {
	acceptances ordering.AcceptanceRepository
	orders      ordering.OrderRepository
	storage     storage.ObjectStorage
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewAcceptanceService creates a new AcceptanceService
func NewAcceptanceService(
	acceptances ordering.AcceptanceRepository,
	orders ordering.OrderRepository,
	objectStorage storage.ObjectStorage,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AcceptanceService {
	return &AcceptanceService{
		acceptances: acceptances,
		orders:      orders,
		storage:     objectStorage,
		publisher:   publisher,
		logger:      logger,
	}
}

// Open creates the receiving record for a delivered order. Opening twice
// returns the existing record, so the delivery event handler can retry
// safely.
func (s *AcceptanceService) Open(ctx context.Context, orderID uuid.UUID) (*AcceptanceResponse, error) {
	existing, err := s.acceptances.FindByOrder(ctx, orderID)
	if err == nil {
		resp := ToAcceptanceResponse(existing)
		return &resp, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != ordering.OrderStatusDelivered {
		return nil, shared.NewDomainError("INVALID_STATE", "Receiving starts after the order is delivered")
	}

	expected := make([]ordering.ExpectedLine, len(order.Items))
	for i, item := range order.Items {
		expected[i] = ordering.ExpectedLine{
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ExpectedQty: item.Quantity,
		}
	}

	acceptance, err := ordering.NewAcceptance(order.ID, order.OrderNumber, order.NodeID, order.SupplierID, expected)
	if err != nil {
		return nil, err
	}

	if err := s.acceptances.Save(ctx, acceptance); err != nil {
		return nil, err
	}
	s.publishAcceptanceEvents(ctx, acceptance)

	s.logger.Info("acceptance opened",
		zap.String("acceptance_id", acceptance.ID.String()),
		zap.String("order_number", acceptance.OrderNumber),
	)

	resp := ToAcceptanceResponse(acceptance)
	return &resp, nil
}

// RecordLine records received quantities for one order line
func (s *AcceptanceService) RecordLine(ctx context.Context, acceptanceID uuid.UUID, req RecordLineRequest) (*AcceptanceResponse, error) {
	acceptance, err := s.acceptances.FindByID(ctx, acceptanceID)
	if err != nil {
		return nil, err
	}
	if err := acceptance.RecordLine(req.OrderItemID, req.AcceptedQty, req.RejectedQty, req.RejectReason); err != nil {
		return nil, err
	}
	if err := s.acceptances.Save(ctx, acceptance); err != nil {
		return nil, err
	}

	resp := ToAcceptanceResponse(acceptance)
	return &resp, nil
}

// GeneratePhotoUploadURL returns a presigned URL for uploading an evidence
// photo. The photo is attached to the record once uploaded.
func (s *AcceptanceService) GeneratePhotoUploadURL(ctx context.Context, acceptanceID uuid.UUID, req PhotoUploadRequest) (*UploadURLResponse, error) {
	acceptance, err := s.acceptances.FindByID(ctx, acceptanceID)
	if err != nil {
		return nil, err
	}
	if acceptance.Status != ordering.AcceptanceStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", "Acceptance record is already completed")
	}

	key := fmt.Sprintf("acceptances/%s/%s", acceptance.ID, uuid.New())
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, photoUploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &UploadURLResponse{ObjectKey: key, UploadURL: url, ExpiresAt: expiresAt}, nil
}

// AttachPhoto records an uploaded evidence photo on the receiving record
func (s *AcceptanceService) AttachPhoto(ctx context.Context, acceptanceID uuid.UUID, uploadedBy uuid.UUID, req AttachPhotoRequest) (*AcceptanceResponse, error) {
	acceptance, err := s.acceptances.FindByID(ctx, acceptanceID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, req.ObjectKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("INVALID_PHOTO", "Uploaded photo not found in storage")
	}

	if _, err := acceptance.AddPhoto(req.ObjectKey, req.ContentType, uploadedBy); err != nil {
		return nil, err
	}
	if err := s.acceptances.Save(ctx, acceptance); err != nil {
		return nil, err
	}

	resp := ToAcceptanceResponse(acceptance)
	return &resp, nil
}

// GetPhotoDownloadURL returns a presigned URL for an evidence photo
func (s *AcceptanceService) GetPhotoDownloadURL(ctx context.Context, acceptanceID, photoID uuid.UUID) (*UploadURLResponse, error) {
	acceptance, err := s.acceptances.FindByID(ctx, acceptanceID)
	if err != nil {
		return nil, err
	}
	for i := range acceptance.Photos {
		if acceptance.Photos[i].ID == photoID {
			url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, acceptance.Photos[i].ObjectKey, photoUploadURLExpiry)
			if err != nil {
				return nil, err
			}
			return &UploadURLResponse{ObjectKey: acceptance.Photos[i].ObjectKey, UploadURL: url, ExpiresAt: expiresAt}, nil
		}
	}
	return nil, shared.ErrNotFound
}

// Complete finalizes the receiving record. The completion event drives the
// order to accepted or disputed.
func (s *AcceptanceService) Complete(ctx context.Context, acceptanceID, completedBy uuid.UUID, req CompleteAcceptanceRequest) (*AcceptanceResponse, error) {
	acceptance, err := s.acceptances.FindByID(ctx, acceptanceID)
	if err != nil {
		return nil, err
	}
	if err := acceptance.Complete(completedBy, req.Note); err != nil {
		return nil, err
	}
	if err := s.acceptances.Save(ctx, acceptance); err != nil {
		return nil, err
	}
	s.publishAcceptanceEvents(ctx, acceptance)

	s.logger.Info("acceptance completed",
		zap.String("acceptance_id", acceptance.ID.String()),
		zap.String("order_number", acceptance.OrderNumber),
		zap.Bool("has_rejections", acceptance.HasRejections()),
	)

	resp := ToAcceptanceResponse(acceptance)
	return &resp, nil
}

// GetByID returns a receiving record by ID
func (s *AcceptanceService) GetByID(ctx context.Context, id uuid.UUID) (*AcceptanceResponse, error) {
	acceptance, err := s.acceptances.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAcceptanceResponse(acceptance)
	return &resp, nil
}

// GetByOrder returns the receiving record for an order
func (s *AcceptanceService) GetByOrder(ctx context.Context, orderID uuid.UUID) (*AcceptanceResponse, error) {
	acceptance, err := s.acceptances.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToAcceptanceResponse(acceptance)
	return &resp, nil
}

// List returns receiving records matching the filter
func (s *AcceptanceService) List(ctx context.Context, filter AcceptanceListFilter) (*shared.Paginated[AcceptanceResponse], error) {
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

	var (
		acceptances []ordering.Acceptance
		total       int64
		err         error
	)
	switch {
	case filter.NodeID != nil:
		acceptances, total, err = s.acceptances.FindByNode(ctx, *filter.NodeID, f)
	case filter.OpenOnly:
		acceptances, total, err = s.acceptances.FindOpen(ctx, f)
	default:
		acceptances, err = s.acceptances.FindAll(ctx, f)
		if err == nil {
			total, err = s.acceptances.Count(ctx, f)
		}
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToAcceptanceResponses(acceptances), total, f.Page, f.PageSize)
	return &result, nil
}

func (s *AcceptanceService) publishAcceptanceEvents(ctx context.Context, acceptance *ordering.Acceptance) {
	events := acceptance.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish acceptance events",
			zap.String("acceptance_id", acceptance.ID.String()),
			zap.Error(err),
		)
	}
	acceptance.ClearDomainEvents()
}
