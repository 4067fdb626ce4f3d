package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

const pgErrLockNotAvailable = "55P03"

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
	metrics     *metrics.Metrics
}

// NewWalletRepository creates a new WalletRepository. lockTimeout bounds how
// long a row lock acquisition may wait inside a transaction. metrics may be
// nil.
func NewWalletRepository(pool *pgxpool.Pool, lockTimeout time.Duration, m *metrics.Metrics) *WalletRepository {
	return &WalletRepository{
		pool:        pool,
		lockTimeout: lockTimeout,
		metrics:     m,
	}
}

const getWalletByID = `
SELECT id, user_id, balance_cents, currency, created_at, updated_at
FROM wallets
WHERE id = $1`

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx, getWalletByID, id)

	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewWalletNotFoundError(id, nil)
		}

		return nil, err
	}

	return wallet, nil
}

const getWalletByIDWithOwner = `
SELECT w.id, w.user_id, w.balance_cents, w.currency, w.created_at, w.updated_at,
       u.id, u.name, u.role
FROM wallets w
JOIN users u ON u.id = w.user_id
WHERE w.id = $1`

// GetByIDWithOwner retrieves a wallet by ID together with its owner.
func (r *WalletRepository) GetByIDWithOwner(ctx context.Context, id string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx, getWalletByIDWithOwner, id)

	var (
		wallet       domain.Wallet
		owner        domain.Owner
		balanceCents int64
		currency     string
		role         string
	)

	err := row.Scan(
		&wallet.ID, &wallet.OwnerID, &balanceCents, &currency, &wallet.CreatedAt, &wallet.UpdatedAt,
		&owner.ID, &owner.Name, &role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewWalletNotFoundError(id, nil)
		}

		return nil, err
	}

	balance, err := domain.NewMoney(balanceCents, currency)
	if err != nil {
		return nil, fmt.Errorf("stored balance for wallet %s: %w", wallet.ID, err)
	}

	wallet.Balance = balance
	owner.Role = domain.Role(role)
	wallet.Owner = &owner

	return &wallet, nil
}

// HasSufficientBalance checks the wallet balance against the requested
// amount without locking the row.
func (r *WalletRepository) HasSufficientBalance(ctx context.Context, id string, amount domain.Money) (bool, error) {
	wallet, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	return wallet.HasSufficientBalance(amount), nil
}

const getWalletsByIDsForUpdate = `
SELECT id, user_id, balance_cents, currency, created_at, updated_at
FROM wallets
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE`

// GetByIDsForUpdate retrieves wallets with FOR UPDATE locks, acquired in
// ascending id order. A lock wait beyond the configured timeout surfaces as
// domain.ErrLockTimeout.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	if r.lockTimeout > 0 {
		lockMillis := r.lockTimeout.Milliseconds()
		if _, err := pgxTx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", lockMillis)); err != nil {
			return nil, err
		}
	}

	rows, err := pgxTx.Query(ctx, getWalletsByIDsForUpdate, ids)
	if err != nil {
		return nil, r.mapLockError(err)
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0, len(ids))

	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}

		wallets = append(wallets, wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapLockError(err)
	}

	return wallets, nil
}

const decrementWalletBalance = `
UPDATE wallets
SET balance_cents = balance_cents - $2, updated_at = $3
WHERE id = $1`

// DecrementBalance subtracts the amount from the wallet balance. The caller
// must hold the row lock.
func (r *WalletRepository) DecrementBalance(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, decrementWalletBalance, id, amount.Cents(), updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.NewWalletNotFoundError(id, nil)
	}

	return nil
}

const incrementWalletBalance = `
UPDATE wallets
SET balance_cents = balance_cents + $2, updated_at = $3
WHERE id = $1`

// IncrementBalance adds the amount to the wallet balance. The caller must
// hold the row lock.
func (r *WalletRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, incrementWalletBalance, id, amount.Cents(), updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.NewWalletNotFoundError(id, nil)
	}

	return nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet       domain.Wallet
		balanceCents int64
		currency     string
	)

	err := row.Scan(&wallet.ID, &wallet.OwnerID, &balanceCents, &currency, &wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		return nil, err
	}

	balance, err := domain.NewMoney(balanceCents, currency)
	if err != nil {
		return nil, fmt.Errorf("stored balance for wallet %s: %w", wallet.ID, err)
	}

	wallet.Balance = balance

	return &wallet, nil
}

func (r *WalletRepository) mapLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrLockNotAvailable {
		if r.metrics != nil {
			r.metrics.LockTimeouts.Inc()
		}

		return domain.ErrLockTimeout
	}

	return err
}
