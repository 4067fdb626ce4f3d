package domain

import "time"

// Transfer is the immutable record of a completed movement between two
// wallets. It is created exactly once, inside the same transaction as the
// balance mutation, and never updated.
type Transfer struct {
	CreatedAt     time.Time
	ID            string
	PayerWalletID string
	PayeeWalletID string
	Amount        Money
}

// Validate checks the structural invariants of a transfer record.
func (t *Transfer) Validate() error {
	if t.PayerWalletID == t.PayeeWalletID {
		return ErrSameWallet
	}

	if t.Amount.Cents() <= 0 {
		return ErrInvalidAmount
	}

	return nil
}
