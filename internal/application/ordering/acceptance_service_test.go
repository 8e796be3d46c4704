package ordering

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/ordering"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type acceptanceTestFixture struct {
	acceptances *MockAcceptanceRepository
	orders      *MockOrderRepository
	storage     fakeObjectStorage
	publisher   *MockEventPublisher
}

func (f *acceptanceTestFixture) service() *AcceptanceService {
	return NewAcceptanceService(f.acceptances, f.orders, f.storage, f.publisher, zap.NewNop())
}

func newAcceptanceTestFixture() *acceptanceTestFixture {
	return &acceptanceTestFixture{
		acceptances: new(MockAcceptanceRepository),
		orders:      new(MockOrderRepository),
		publisher:   new(MockEventPublisher),
	}
}

func deliveredOrder(t *testing.T) *ordering.Order {
	t.Helper()
	supplier := readySupplier(t)
	product := orderableProduct(t, supplier.ID)
	order := draftOrderWithItem(t, uuid.New(), product)
	require.NoError(t, order.Submit())
	require.NoError(t, order.Confirm())
	require.NoError(t, order.Ship(""))
	require.NoError(t, order.MarkDelivered())
	order.ClearDomainEvents()
	return order
}

func openAcceptance(t *testing.T, order *ordering.Order) *ordering.Acceptance {
	t.Helper()
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
	require.NoError(t, err)
	acceptance.ClearDomainEvents()
	return acceptance
}

func TestOpenAcceptance(t *testing.T) {
	f := newAcceptanceTestFixture()

	order := deliveredOrder(t)

	f.acceptances.On("FindByOrder", mock.Anything, order.ID).Return(nil, shared.ErrNotFound)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.acceptances.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Acceptance")).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service().Open(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, string(ordering.AcceptanceStatusOpen), resp.Status)
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].ExpectedQty.Equal(decimal.NewFromInt(3)))
	assert.False(t, resp.Lines[0].Recorded)
}

func TestOpenAcceptanceIdempotent(t *testing.T) {
	f := newAcceptanceTestFixture()

	order := deliveredOrder(t)
	acceptance := openAcceptance(t, order)

	f.acceptances.On("FindByOrder", mock.Anything, order.ID).Return(acceptance, nil)

	resp, err := f.service().Open(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, acceptance.ID, resp.ID)
	f.acceptances.AssertNotCalled(t, "Save")
}

func TestOpenAcceptanceBeforeDelivery(t *testing.T) {
	f := newAcceptanceTestFixture()

	supplier := readySupplier(t)
	product := orderableProduct(t, supplier.ID)
	order := draftOrderWithItem(t, uuid.New(), product)

	f.acceptances.On("FindByOrder", mock.Anything, order.ID).Return(nil, shared.ErrNotFound)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	_, err := f.service().Open(context.Background(), order.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestRecordLineOverDelivery(t *testing.T) {
	f := newAcceptanceTestFixture()

	order := deliveredOrder(t)
	acceptance := openAcceptance(t, order)

	f.acceptances.On("FindByID", mock.Anything, acceptance.ID).Return(acceptance, nil)

	_, err := f.service().RecordLine(context.Background(), acceptance.ID, RecordLineRequest{
		OrderItemID: order.Items[0].ID,
		AcceptedQty: decimal.NewFromInt(3),
		RejectedQty: decimal.NewFromInt(1),
		RejectReason: "damaged",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	f.acceptances.AssertNotCalled(t, "Save")
}

func TestCompleteAcceptanceWithShortfall(t *testing.T) {
	f := newAcceptanceTestFixture()

	order := deliveredOrder(t)
	acceptance := openAcceptance(t, order)

	f.acceptances.On("FindByID", mock.Anything, acceptance.ID).Return(acceptance, nil)
	f.acceptances.On("Save", mock.Anything, acceptance).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	service := f.service()
	ctx := context.Background()

	_, err := service.RecordLine(ctx, acceptance.ID, RecordLineRequest{
		OrderItemID:  order.Items[0].ID,
		AcceptedQty:  decimal.NewFromInt(2),
		RejectedQty:  decimal.Zero,
	})
	require.NoError(t, err)

	resp, err := service.Complete(ctx, acceptance.ID, uuid.New(), CompleteAcceptanceRequest{Note: "one bag missing"})

	require.NoError(t, err)
	assert.Equal(t, string(ordering.AcceptanceStatusCompleted), resp.Status)
	assert.True(t, acceptance.HasRejections())
}

func TestCompleteAcceptanceUnrecordedLines(t *testing.T) {
	f := newAcceptanceTestFixture()

	order := deliveredOrder(t)
	acceptance := openAcceptance(t, order)

	f.acceptances.On("FindByID", mock.Anything, acceptance.ID).Return(acceptance, nil)

	_, err := f.service().Complete(context.Background(), acceptance.ID, uuid.New(), CompleteAcceptanceRequest{})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INCOMPLETE_RECORD", domainErr.Code)
}

func TestPhotoUploadAndAttach(t *testing.T) {
	f := newAcceptanceTestFixture()

	order := deliveredOrder(t)
	acceptance := openAcceptance(t, order)

	f.acceptances.On("FindByID", mock.Anything, acceptance.ID).Return(acceptance, nil)
	f.acceptances.On("Save", mock.Anything, acceptance).Return(nil)

	service := f.service()
	ctx := context.Background()

	upload, err := service.GeneratePhotoUploadURL(ctx, acceptance.ID, PhotoUploadRequest{ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "acceptances/"+acceptance.ID.String()+"/"))

	uploadedBy := uuid.New()
	resp, err := service.AttachPhoto(ctx, acceptance.ID, uploadedBy, AttachPhotoRequest{
		ObjectKey:   upload.ObjectKey,
		ContentType: "image/jpeg",
	})

	require.NoError(t, err)
	require.Len(t, resp.Photos, 1)
	assert.Equal(t, uploadedBy, resp.Photos[0].UploadedBy)
}

func TestAttachPhotoMissingObject(t *testing.T) {
	f := newAcceptanceTestFixture()
	f.storage = fakeObjectStorage{missingObjects: map[string]bool{"acceptances/x/missing": true}}

	order := deliveredOrder(t)
	acceptance := openAcceptance(t, order)

	f.acceptances.On("FindByID", mock.Anything, acceptance.ID).Return(acceptance, nil)

	_, err := f.service().AttachPhoto(context.Background(), acceptance.ID, uuid.New(), AttachPhotoRequest{
		ObjectKey: "acceptances/x/missing",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PHOTO", domainErr.Code)
}
