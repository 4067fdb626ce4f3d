package usecase

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// WalletRepository defines data access for wallets. Plain reads may be
// served from a bounded-TTL cache; GetByIDsForUpdate always reads
// authoritative state under a row lock and must only be called inside a
// transaction.
type WalletRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDWithOwner(ctx context.Context, id string) (*domain.Wallet, error)
	HasSufficientBalance(ctx context.Context, id string, amount domain.Money) (bool, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	DecrementBalance(ctx context.Context, tx Transaction, id string, amount domain.Money, updatedAt time.Time) error
	IncrementBalance(ctx context.Context, tx Transaction, id string, amount domain.Money, updatedAt time.Time) error
}

// TransferRepository defines data access for the append-only transfer
// ledger.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error)
}

// NotificationRepository defines data access for pending transfer
// notifications.
type NotificationRepository interface {
	Create(ctx context.Context, tx Transaction, notification *domain.TransferNotification) error
	GetDue(ctx context.Context, now time.Time, limit int) ([]*domain.TransferNotification, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	Reschedule(ctx context.Context, id string, attempts int, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
}

// Authorizer asks the external authorization service to approve a transfer.
// Transport failures after retries degrade to false.
type Authorizer interface {
	Authorize(ctx context.Context, payerID, payeeID string, amount domain.Money) bool
}

// Notifier informs the external notification service about a completed
// transfer. Transport failures after retries degrade to false.
type Notifier interface {
	Notify(ctx context.Context, payerID, payeeID string, amount domain.Money) bool
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures such as
// deadlocks.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
