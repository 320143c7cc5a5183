package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/ports"
	"github.com/cashback-api/cashback-system/internal/metrics"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// TransactionService validates incoming sales and hands valid ones to the
// repository. It holds no per-call state and is safe for concurrent use.
type TransactionService struct {
	repo       ports.TransactionRepository
	categories domain.CategorySet
	dedup      DedupChecker
	logger     zerolog.Logger
}

// NewTransactionService wires the service. dedup may be nil to disable
// duplicate detection.
func NewTransactionService(
	repo ports.TransactionRepository,
	categories domain.CategorySet,
	dedup DedupChecker,
	logger zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		repo:       repo,
		categories: categories,
		dedup:      dedup,
		logger:     logger,
	}
}

// IngestJSON decodes a JSON document and ingests it.
func (s *TransactionService) IngestJSON(ctx context.Context, raw []byte) (*ports.IngestResult, error) {
	in, err := DecodeTransaction(raw)
	if err != nil {
		return nil, s.reject(err)
	}
	return s.Ingest(ctx, in)
}

// Ingest validates in and saves the resulting transaction. Validation
// failures are returned as *domain.ValidationError.
func (s *TransactionService) Ingest(ctx context.Context, in ports.TransactionInput) (*ports.IngestResult, error) {
	// 1. Presence of every required field, nested ones included.
	if err := domain.CheckPresence(in); err != nil {
		return nil, s.reject(err)
	}

	// 2. Business rules.
	tx, err := domain.NewCashBackTransaction(in.Fields(), s.categories)
	if err != nil {
		return nil, s.reject(err)
	}

	// 3. Idempotency check. A failing store does not block ingestion.
	key := dedupKey(tx)
	if s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("dedup_key", key).Msg("dedup check failed, processing anyway")
		} else if isDup {
			metrics.TransactionsDuplicateTotal.Inc()
			s.logger.Debug().Str("dedup_key", key).Msg("duplicate transaction skipped")
			return &ports.IngestResult{Duplicate: true}, nil
		}
	}

	// 4. Hand over to persistence.
	record := ports.TransactionRecord{
		ID:          uuid.NewString(),
		Transaction: tx,
		ReceivedAt:  time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("transaction_id", record.ID).Msg("failed to save transaction")
		return nil, fmt.Errorf("ingest transaction: %w", err)
	}

	// 5. Mark only after a successful save so a failed save can be retried.
	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("dedup_key", key).Msg("failed to set dedup key")
		}
	}

	metrics.TransactionsAcceptedTotal.Inc()
	metrics.ProductsPerTransaction.Observe(float64(len(tx.Products())))

	s.logger.Info().
		Str("transaction_id", record.ID).
		Int64("customer_cpf", tx.Customer().CPF()).
		Int("products", len(tx.Products())).
		Msg("transaction accepted")

	return &ports.IngestResult{ID: record.ID}, nil
}

func (s *TransactionService) reject(err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		metrics.TransactionsRejectedTotal.WithLabelValues(ve.Reason).Inc()
		s.logger.Info().Str("field", ve.Field).Str("reason", ve.Reason).Msg("transaction rejected")
	}
	return err
}

// dedupKey identifies a sale by customer, time of sale and total.
func dedupKey(tx domain.CashBackTransaction) string {
	return fmt.Sprintf("%d:%d:%s",
		tx.Customer().CPF(),
		tx.SoldAt().Unix(),
		strconv.FormatFloat(tx.Total(), 'f', -1, 64),
	)
}
