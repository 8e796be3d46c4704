package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type shareTestFixture struct {
	shares    *MockSkuShareRepository
	products  *MockProductRepository
	nodes     *MockNodeRepository
	audits    *MockShareAuditLogRepository
	publisher *MockEventPublisher
	service   *ShareService
}

func newShareTestFixture() *shareTestFixture {
	f := &shareTestFixture{
		shares:    new(MockSkuShareRepository),
		products:  new(MockProductRepository),
		nodes:     new(MockNodeRepository),
		audits:    new(MockShareAuditLogRepository),
		publisher: new(MockEventPublisher),
	}
	f.service = NewShareService(f.shares, f.products, f.nodes, f.audits, f.publisher, zap.NewNop())
	return f
}

func activeProduct(t *testing.T, supplierID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(supplierID, "RICE-10KG", "Jasmine Rice 10kg", "bag", valueobject.NewMoneyUSD(decimal.NewFromInt(22)))
	require.NoError(t, err)
	require.NoError(t, product.Activate())
	product.ClearDomainEvents()
	return product
}

// customerTree builds a GROUP > COMPANY > LOCATION > BUSINESS_UNIT chain
func customerTree(t *testing.T, code string) (*hierarchy.Node, *hierarchy.Node, *hierarchy.Node, *hierarchy.Node) {
	t.Helper()
	group, err := hierarchy.NewRootNode("Group "+code, code)
	require.NoError(t, err)
	company, err := hierarchy.NewChildNode(group, "Company", code+"-CO")
	require.NoError(t, err)
	location, err := hierarchy.NewChildNode(company, "Location", code+"-LOC")
	require.NoError(t, err)
	unit, err := hierarchy.NewChildNode(location, "Kitchen", code+"-BU")
	require.NoError(t, err)
	for _, n := range []*hierarchy.Node{group, company, location, unit} {
		n.ClearDomainEvents()
	}
	return group, company, location, unit
}

func approvedShare(t *testing.T, product *catalog.Product, targetNodeID uuid.UUID) *catalog.SkuShare {
	t.Helper()
	share, err := catalog.NewSkuShare(product, targetNodeID, uuid.New(), "")
	require.NoError(t, err)
	require.NoError(t, share.Approve(uuid.New(), "ok"))
	share.ClearDomainEvents()
	return share
}

func TestRequestShare(t *testing.T) {
	f := newShareTestFixture()

	supplierID := uuid.New()
	product := activeProduct(t, supplierID)
	group, _, _, _ := customerTree(t, "G1")

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.nodes.On("FindByID", mock.Anything, group.ID).Return(group, nil)
	f.shares.On("FindByProduct", mock.Anything, product.ID).Return([]catalog.SkuShare{}, nil)
	f.shares.On("Save", mock.Anything, mock.AnythingOfType("*catalog.SkuShare")).Return(nil)
	f.audits.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	actor := ShareActor{UserID: uuid.New(), SupplierID: &supplierID, IP: "198.51.100.4"}
	resp, err := f.service.Request(context.Background(), actor, RequestShareRequest{
		ProductID:    product.ID,
		TargetNodeID: group.ID,
		Message:      "seasonal pricing",
	})

	require.NoError(t, err)
	assert.Equal(t, catalog.ShareStatusPending.String(), resp.Status)
	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, catalog.AuditActionRequested, f.audits.entries[0].Action)
	assert.Equal(t, "198.51.100.4", f.audits.entries[0].IPAddress)
}

func TestRequestShareForeignProduct(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	otherSupplier := uuid.New()

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	actor := ShareActor{UserID: uuid.New(), SupplierID: &otherSupplier}
	_, err := f.service.Request(context.Background(), actor, RequestShareRequest{
		ProductID:    product.ID,
		TargetNodeID: uuid.New(),
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.shares.AssertNotCalled(t, "Save")
}

func TestRequestShareDuplicateOpen(t *testing.T) {
	f := newShareTestFixture()

	supplierID := uuid.New()
	product := activeProduct(t, supplierID)
	group, _, _, _ := customerTree(t, "G1")

	existing, err := catalog.NewSkuShare(product, group.ID, uuid.New(), "")
	require.NoError(t, err)

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.nodes.On("FindByID", mock.Anything, group.ID).Return(group, nil)
	f.shares.On("FindByProduct", mock.Anything, product.ID).Return([]catalog.SkuShare{*existing}, nil)

	actor := ShareActor{UserID: uuid.New(), SupplierID: &supplierID}
	_, err = f.service.Request(context.Background(), actor, RequestShareRequest{
		ProductID:    product.ID,
		TargetNodeID: group.ID,
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	f.shares.AssertNotCalled(t, "Save")
}

func TestApproveShareWritesAudit(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	group, _, _, _ := customerTree(t, "G1")
	share, err := catalog.NewSkuShare(product, group.ID, uuid.New(), "")
	require.NoError(t, err)
	share.ClearDomainEvents()

	f.shares.On("FindByID", mock.Anything, share.ID).Return(share, nil)
	f.shares.On("Save", mock.Anything, share).Return(nil)
	f.audits.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	actor := ShareActor{UserID: uuid.New()}
	resp, err := f.service.Approve(context.Background(), share.ID, actor, DecideShareRequest{Note: "welcome"})

	require.NoError(t, err)
	assert.Equal(t, catalog.ShareStatusApproved.String(), resp.Status)
	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, catalog.AuditActionApproved, f.audits.entries[0].Action)
}

func TestApproveShareOutsideActorScope(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	group, _, _, _ := customerTree(t, "G1")
	otherGroup, _, _, _ := customerTree(t, "G2")
	share, err := catalog.NewSkuShare(product, group.ID, uuid.New(), "")
	require.NoError(t, err)

	f.shares.On("FindByID", mock.Anything, share.ID).Return(share, nil)
	f.nodes.On("FindByID", mock.Anything, otherGroup.ID).Return(otherGroup, nil)
	f.nodes.On("FindByID", mock.Anything, group.ID).Return(group, nil)

	actor := ShareActor{UserID: uuid.New(), NodeID: &otherGroup.ID}
	_, err = f.service.Approve(context.Background(), share.ID, actor, DecideShareRequest{})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.shares.AssertNotCalled(t, "Save")
}

func TestJoinShare(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	group, _, _, unit := customerTree(t, "G1")
	share := approvedShare(t, product, group.ID)

	f.shares.On("FindByID", mock.Anything, share.ID).Return(share, nil)
	f.nodes.On("FindByID", mock.Anything, unit.ID).Return(unit, nil)
	f.nodes.On("FindByID", mock.Anything, group.ID).Return(group, nil)
	f.shares.On("Save", mock.Anything, share).Return(nil)
	f.audits.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	actor := ShareActor{UserID: uuid.New(), NodeID: &unit.ID}
	resp, err := f.service.Join(context.Background(), share.ID, actor, JoinShareRequest{NodeID: unit.ID})

	require.NoError(t, err)
	require.Len(t, resp.Participants, 1)
	assert.Equal(t, unit.ID, resp.Participants[0].NodeID)
	assert.True(t, resp.Participants[0].Active)
	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, catalog.AuditActionJoined, f.audits.entries[0].Action)
}

func TestJoinShareRequiresBusinessUnit(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	group, company, _, _ := customerTree(t, "G1")
	share := approvedShare(t, product, group.ID)

	f.shares.On("FindByID", mock.Anything, share.ID).Return(share, nil)
	f.nodes.On("FindByID", mock.Anything, company.ID).Return(company, nil)

	actor := ShareActor{UserID: uuid.New()}
	_, err := f.service.Join(context.Background(), share.ID, actor, JoinShareRequest{NodeID: company.ID})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NODE", domainErr.Code)
}

func TestJoinShareOutsideTargetSubtree(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	group, _, _, _ := customerTree(t, "G1")
	_, _, _, foreignUnit := customerTree(t, "G2")
	share := approvedShare(t, product, group.ID)

	f.shares.On("FindByID", mock.Anything, share.ID).Return(share, nil)
	f.nodes.On("FindByID", mock.Anything, foreignUnit.ID).Return(foreignUnit, nil)
	f.nodes.On("FindByID", mock.Anything, group.ID).Return(group, nil)

	actor := ShareActor{UserID: uuid.New()}
	_, err := f.service.Join(context.Background(), share.ID, actor, JoinShareRequest{NodeID: foreignUnit.ID})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OUT_OF_SCOPE", domainErr.Code)
	f.shares.AssertNotCalled(t, "Save")
}

func TestRevokeShareDeactivatesParticipants(t *testing.T) {
	f := newShareTestFixture()

	supplierID := uuid.New()
	product := activeProduct(t, supplierID)
	group, _, _, unit := customerTree(t, "G1")
	share := approvedShare(t, product, group.ID)
	_, err := share.Join(unit.ID, uuid.New())
	require.NoError(t, err)
	share.ClearDomainEvents()

	f.shares.On("FindByID", mock.Anything, share.ID).Return(share, nil)
	f.shares.On("Save", mock.Anything, share).Return(nil)
	f.audits.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	actor := ShareActor{UserID: uuid.New(), SupplierID: &supplierID}
	resp, err := f.service.Revoke(context.Background(), share.ID, actor, RevokeShareRequest{Reason: "contract ended"})

	require.NoError(t, err)
	assert.Equal(t, catalog.ShareStatusRevoked.String(), resp.Status)
	assert.False(t, resp.Participants[0].Active)
	assert.NotNil(t, resp.Participants[0].LeftAt)
	assert.Equal(t, 0, share.ActiveParticipantCount())
}

func TestCanNodeOrderPublicProduct(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	require.NoError(t, product.MakePublic())

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	ok, err := f.service.CanNodeOrder(context.Background(), product.ID, uuid.New())

	require.NoError(t, err)
	assert.True(t, ok)
	f.shares.AssertNotCalled(t, "FindApprovedForParticipant")
}

func TestCanNodeOrderPrivateProduct(t *testing.T) {
	f := newShareTestFixture()

	product := activeProduct(t, uuid.New())
	group, _, _, unit := customerTree(t, "G1")
	share := approvedShare(t, product, group.ID)
	_, err := share.Join(unit.ID, uuid.New())
	require.NoError(t, err)

	outsider := uuid.New()

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	// The share targets the group; the unit is orderable purely through
	// its participant row.
	f.shares.On("FindApprovedForParticipant", mock.Anything, product.ID, unit.ID).Return(share, nil)
	f.shares.On("FindApprovedForParticipant", mock.Anything, product.ID, outsider).Return(nil, shared.ErrNotFound)

	ok, err := f.service.CanNodeOrder(context.Background(), product.ID, unit.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.CanNodeOrder(context.Background(), product.ID, outsider)
	require.NoError(t, err)
	assert.False(t, ok)
}
