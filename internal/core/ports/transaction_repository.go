package ports

import (
	"context"
	"time"

	"github.com/cashback-api/cashback-system/internal/core/domain"
)

// TransactionRecord is a validated transaction as handed to persistence.
type TransactionRecord struct {
	ID          string
	Transaction domain.CashBackTransaction
	ReceivedAt  time.Time
}

// TransactionRepository is the persistence / cashback-calculation collaborator.
type TransactionRepository interface {
	Save(ctx context.Context, record TransactionRecord) error
}
