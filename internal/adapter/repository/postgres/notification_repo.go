package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// NotificationRepository implements usecase.NotificationRepository over the
// transfer_notifications outbox table.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const createNotification = `
INSERT INTO transfer_notifications
	(id, transfer_id, payer_wallet_id, payee_wallet_id, amount_cents, currency, status, attempts, next_attempt_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create queues a notification inside the transfer's transaction, so the
// outbox row commits or rolls back together with the transfer.
func (r *NotificationRepository) Create(ctx context.Context, tx usecase.Transaction, n *domain.TransferNotification) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createNotification,
		n.ID,
		n.TransferID,
		n.PayerWalletID,
		n.PayeeWalletID,
		n.Amount.Cents(),
		n.Amount.Currency(),
		string(n.Status),
		n.Attempts,
		n.NextAttemptAt,
		n.CreatedAt,
	)

	return err
}

const getDueNotifications = `
SELECT id, transfer_id, payer_wallet_id, payee_wallet_id, amount_cents, currency, status, attempts, next_attempt_at, created_at, sent_at
FROM transfer_notifications
WHERE status = 'pending' AND next_attempt_at <= $1
ORDER BY next_attempt_at
LIMIT $2`

// GetDue returns pending notifications whose next attempt is due. Delivery
// is at-least-once: a crash between Notify and MarkSent re-delivers.
func (r *NotificationRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*domain.TransferNotification, error) {
	rows, err := r.pool.Query(ctx, getDueNotifications, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*domain.TransferNotification, 0, limit)

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}

		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

const markNotificationSent = `
UPDATE transfer_notifications
SET status = 'sent', sent_at = $2
WHERE id = $1`

// MarkSent records a successful delivery.
func (r *NotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx, markNotificationSent, id, sentAt)
	return err
}

const rescheduleNotification = `
UPDATE transfer_notifications
SET attempts = $2, next_attempt_at = $3
WHERE id = $1`

// Reschedule pushes a failed delivery to a later attempt.
func (r *NotificationRepository) Reschedule(ctx context.Context, id string, attempts int, nextAttemptAt time.Time) error {
	_, err := r.pool.Exec(ctx, rescheduleNotification, id, attempts, nextAttemptAt)
	return err
}

const markNotificationFailed = `
UPDATE transfer_notifications
SET status = 'failed'
WHERE id = $1`

// MarkFailed gives up on a notification after the attempt budget ran out.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, markNotificationFailed, id)
	return err
}

func scanNotification(row pgx.Row) (*domain.TransferNotification, error) {
	var (
		n           domain.TransferNotification
		amountCents int64
		currency    string
		status      string
	)

	err := row.Scan(
		&n.ID,
		&n.TransferID,
		&n.PayerWalletID,
		&n.PayeeWalletID,
		&amountCents,
		&currency,
		&status,
		&n.Attempts,
		&n.NextAttemptAt,
		&n.CreatedAt,
		&n.SentAt,
	)
	if err != nil {
		return nil, err
	}

	amount, err := domain.NewMoney(amountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("stored amount for notification %s: %w", n.ID, err)
	}

	n.Amount = amount
	n.Status = domain.NotificationStatus(status)

	return &n, nil
}
