package domain

import "time"

// NotificationStatus tracks delivery of a transfer notification.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// TransferNotification is a pending call to the external notifier. It is
// written in the same transaction as the transfer and delivered by the
// dispatcher after commit, so notification availability never gates the
// transfer itself. Rows that exhaust their attempts stay in the failed
// state for out-of-band remediation.
type TransferNotification struct {
	CreatedAt     time.Time
	NextAttemptAt time.Time
	SentAt        *time.Time
	ID            string
	TransferID    string
	PayerWalletID string
	PayeeWalletID string
	Status        NotificationStatus
	Amount        Money
	Attempts      int
}
