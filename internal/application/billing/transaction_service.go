package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// gmvWindow is the rolling window used as the GMV basis for tier
// resolution.
const gmvWindow = 30 * 24 * time.Hour

// ClosedOrderInput carries the order facts needed to open a commission
// transaction
type ClosedOrderInput struct {
	OrderID     uuid.UUID
	OrderNumber string
	SupplierID  uuid.UUID
	NodeID      uuid.UUID
	OrderAmount decimal.Decimal
}

// TransactionService manages commission transactions
type TransactionService struct {
	transactions billing.TransactionRepository
	configs      billing.RateConfigRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactions billing.TransactionRepository,
	configs billing.RateConfigRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		configs:      configs,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateForClosedOrder opens a pending transaction for a closed order.
// With no effective rate config the transaction is created with a zero
// fee and picked up again by the settlement run. Creating twice for the
// same order returns the existing transaction, so the closed-order event
// handler can retry safely.
func (s *TransactionService) CreateForClosedOrder(ctx context.Context, input ClosedOrderInput) (*TransactionResponse, error) {
	existing, err := s.transactions.FindByOrder(ctx, input.OrderID)
	if err == nil {
		resp := ToTransactionResponse(existing)
		return &resp, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	config, err := s.configs.FindEffectiveForSupplier(ctx, input.SupplierID, now)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// The GMV basis counts non-void commission records only; an order
	// whose commission was voided no longer moves the supplier up a tier.
	gmv30d := decimal.Zero
	if config != nil {
		gmv30d, err = s.transactions.SumOrderAmountBySupplier(ctx, input.SupplierID, now.Add(-gmvWindow), now)
		if err != nil {
			return nil, err
		}
	}

	tx, err := billing.NewTransaction(input.OrderID, input.OrderNumber, input.SupplierID, input.NodeID, input.OrderAmount, config, gmv30d, now)
	if err != nil {
		return nil, err
	}

	if err := s.transactions.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx)

	s.logger.Info("billing transaction created",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("order_number", tx.OrderNumber),
		zap.String("rate_source", string(tx.RateSource)),
		zap.Bool("rate_config_missing", tx.RateConfigMissing),
	)

	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// Void cancels a pending transaction
func (s *TransactionService) Void(ctx context.Context, id uuid.UUID, req VoidTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Void(req.Reason); err != nil {
		return nil, err
	}
	if err := s.transactions.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx)

	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// GetByID returns a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// GetByOrder returns the transaction opened for an order
func (s *TransactionService) GetByOrder(ctx context.Context, orderID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// List returns transactions matching the filter
func (s *TransactionService) List(ctx context.Context, filter TransactionListFilter) (*shared.Paginated[TransactionResponse], error) {
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
		transactions []billing.Transaction
		total        int64
		err          error
	)
	if filter.SupplierID != nil {
		transactions, total, err = s.transactions.FindBySupplier(ctx, *filter.SupplierID, f)
	} else {
		transactions, err = s.transactions.FindAll(ctx, f)
		if err == nil {
			total, err = s.transactions.Count(ctx, f)
		}
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToTransactionResponses(transactions), total, f.Page, f.PageSize)
	return &result, nil
}

// Summary reports transaction counts per status
func (s *TransactionService) Summary(ctx context.Context) (*BillingSummaryResponse, error) {
	counts, err := s.transactions.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &BillingSummaryResponse{
		Pending: counts[billing.TransactionStatusPending],
		Settled: counts[billing.TransactionStatusSettled],
		Void:    counts[billing.TransactionStatusVoid],
	}, nil
}

func (s *TransactionService) publishEvents(ctx context.Context, tx *billing.Transaction) {
	events := tx.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish transaction events",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err),
		)
	}
	tx.ClearDomainEvents()
}
