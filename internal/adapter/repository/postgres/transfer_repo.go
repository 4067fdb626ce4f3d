package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const createTransfer = `
INSERT INTO transfers (id, payer_wallet_id, payee_wallet_id, amount_cents, currency, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// Create appends a transfer record inside the given transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createTransfer,
		transfer.ID,
		transfer.PayerWalletID,
		transfer.PayeeWalletID,
		transfer.Amount.Cents(),
		transfer.Amount.Currency(),
		transfer.CreatedAt,
	)

	return err
}

const getTransferByID = `
SELECT id, payer_wallet_id, payee_wallet_id, amount_cents, currency, created_at
FROM transfers
WHERE id = $1`

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx, getTransferByID, id)

	transfer, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, id)
		}

		return nil, err
	}

	return transfer, nil
}

const listTransfersByWallet = `
SELECT id, payer_wallet_id, payee_wallet_id, amount_cents, currency, created_at
FROM transfers
WHERE payer_wallet_id = $1 OR payee_wallet_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

// ListByWallet lists transfers where the wallet is payer or payee, newest
// first.
func (r *TransferRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, listTransfersByWallet, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := make([]*domain.Transfer, 0, limit)

	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}

		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer    domain.Transfer
		amountCents int64
		currency    string
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.PayerWalletID,
		&transfer.PayeeWalletID,
		&amountCents,
		&currency,
		&transfer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	amount, err := domain.NewMoney(amountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("stored amount for transfer %s: %w", transfer.ID, err)
	}

	transfer.Amount = amount

	return &transfer, nil
}
