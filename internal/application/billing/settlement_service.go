package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/scheduler"
	"github.com/orderhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SettlementService settles pending transactions into per-supplier
// statements. It implements the scheduler's job executor, one job per
// supplier per run.
type SettlementService struct {
	transactions billing.TransactionRepository
	statements   billing.StatementRepository
	configs      billing.RateConfigRepository
	publisher    shared.EventPublisher
	metrics      *telemetry.BusinessMetrics
	logger       *zap.Logger
}

// NewSettlementService creates a new SettlementService. Metrics may be
// nil when telemetry is disabled.
func NewSettlementService(
	transactions billing.TransactionRepository,
	statements billing.StatementRepository,
	configs billing.RateConfigRepository,
	publisher shared.EventPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		transactions: transactions,
		statements:   statements,
		configs:      configs,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute settles one supplier's pending transactions for the job period
func (s *SettlementService) Execute(ctx context.Context, job *scheduler.Job) error {
	started := time.Now()
	err := s.SettleSupplier(ctx, job.SupplierID, job.PeriodStart, job.PeriodEnd)
	if s.metrics != nil {
		s.metrics.RecordSettlementRun(ctx, job.SupplierID.String(), time.Since(started), err == nil)
	}
	return err
}

// SettleSupplier settles the supplier's pending transactions into a
// statement for the given period. Transactions still missing a rate
// config after a reprice attempt stay pending for the next run.
func (s *SettlementService) SettleSupplier(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) error {
	pending, err := s.transactions.FindPendingBySupplier(ctx, supplierID, periodEnd)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	gmv30d, err := s.transactions.SumOrderAmountBySupplier(ctx, supplierID, periodEnd.Add(-gmvWindow), periodEnd)
	if err != nil {
		return err
	}

	// Reprice pass first. A run that can settle nothing must not open a
	// statement, so the draft is only created once a settleable
	// transaction exists.
	settleable := make([]*billing.Transaction, 0, len(pending))
	skipped := 0
	for i := range pending {
		tx := &pending[i]
		if tx.RateConfigMissing {
			config, err := s.configs.FindEffectiveForSupplier(ctx, supplierID, periodEnd)
			if errors.Is(err, shared.ErrNotFound) {
				skipped++
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Reprice(config, gmv30d, periodEnd); err != nil {
				return err
			}
		}
		settleable = append(settleable, tx)
	}

	if len(settleable) == 0 {
		s.logger.Info("settlement run settled nothing",
			zap.String("supplier_id", supplierID.String()),
			zap.Int("skipped", skipped),
		)
		return nil
	}

	statement, err := s.openStatement(ctx, supplierID, periodStart, periodEnd)
	if err != nil {
		return err
	}

	for _, tx := range settleable {
		if err := tx.Settle(statement.ID); err != nil {
			return err
		}
		if err := statement.Attach(tx); err != nil {
			return err
		}
		if err := s.transactions.Save(ctx, tx); err != nil {
			return err
		}
		s.publishTransactionEvents(ctx, tx)
		if s.metrics != nil {
			s.metrics.RecordCommissionFee(ctx, supplierID.String(), tx.FeeAmount)
		}
	}

	if err := statement.Finalize(); err != nil {
		return err
	}
	if err := s.statements.Save(ctx, statement); err != nil {
		return err
	}
	s.publishStatementEvents(ctx, statement)

	s.logger.Info("settlement run completed",
		zap.String("supplier_id", supplierID.String()),
		zap.String("statement_id", statement.ID.String()),
		zap.Int("settled", len(settleable)),
		zap.Int("skipped", skipped),
		zap.String("total_fee", statement.TotalFeeAmount.String()),
	)

	return nil
}

// openStatement reuses the draft statement for the supplier and period if
// one exists, so a retried job does not produce duplicates.
func (s *SettlementService) openStatement(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (*billing.Statement, error) {
	existing, err := s.statements.FindBySupplierAndPeriod(ctx, supplierID, periodStart)
	if err == nil {
		if existing.Status != billing.StatementStatusDraft {
			return nil, shared.NewDomainError("ALREADY_SETTLED", "Statement for this period is already finalized")
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	statement, err := billing.NewStatement(supplierID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if err := s.statements.Save(ctx, statement); err != nil {
		return nil, err
	}
	return statement, nil
}

// GetStatement returns a statement by ID
func (s *SettlementService) GetStatement(ctx context.Context, id uuid.UUID) (*StatementResponse, error) {
	statement, err := s.statements.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStatementResponse(statement)
	return &resp, nil
}

// ListStatements returns a supplier's statements
func (s *SettlementService) ListStatements(ctx context.Context, supplierID uuid.UUID, filter StatementListFilter) (*shared.Paginated[StatementResponse], error) {
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

	statements, total, err := s.statements.FindBySupplier(ctx, supplierID, f)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToStatementResponses(statements), total, f.Page, f.PageSize)
	return &result, nil
}

// GetStatementTransactions returns the transactions attached to a
// statement
func (s *SettlementService) GetStatementTransactions(ctx context.Context, statementID uuid.UUID) ([]TransactionResponse, error) {
	transactions, err := s.transactions.FindByStatement(ctx, statementID)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(transactions), nil
}

func (s *SettlementService) publishTransactionEvents(ctx context.Context, tx *billing.Transaction) {
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

func (s *SettlementService) publishStatementEvents(ctx context.Context, statement *billing.Statement) {
	events := statement.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish statement events",
			zap.String("statement_id", statement.ID.String()),
			zap.Error(err),
		)
	}
	statement.ClearDomainEvents()
}
