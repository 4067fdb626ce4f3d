package domain

// TransferValidator checks transfer preconditions. The check order is
// fixed: wallet existence, then balance, then payer role. When several
// conditions fail at once the first one in that order wins, which keeps
// error precedence deterministic for callers.
type TransferValidator struct{}

// NewTransferValidator creates a new TransferValidator.
func NewTransferValidator() *TransferValidator {
	return &TransferValidator{}
}

// Validate runs all precondition checks against best-effort wallet reads.
// The payer and payee may be nil when their ids did not resolve; the
// original string ids are carried for error context.
func (v *TransferValidator) Validate(payer, payee *Wallet, amount Money, payerID, payeeID string) error {
	if err := v.validateWalletsExist(payer, payee, payerID, payeeID, amount); err != nil {
		return err
	}

	if err := v.validateSufficientBalance(payer, amount, payee); err != nil {
		return err
	}

	return v.validatePayerIsNotStoreKeeper(payer, payee, amount)
}

// ValidateBalanceAfterLock re-runs only the balance check against the
// post-lock, authoritative payer balance. This catches a payer who spent
// concurrently between the optimistic check and lock acquisition.
func (v *TransferValidator) ValidateBalanceAfterLock(lockedPayer *Wallet, amount Money, payee *Wallet) error {
	return v.validateSufficientBalance(lockedPayer, amount, payee)
}

func (v *TransferValidator) validateWalletsExist(payer, payee *Wallet, payerID, payeeID string, amount Money) error {
	if payer == nil {
		return NewWalletNotFoundError(payerID, map[string]any{
			"payer": payerID,
			"payee": payeeID,
			"value": amount.StringFixed(),
		})
	}

	if payee == nil {
		return NewWalletNotFoundError(payeeID, map[string]any{
			"payer": payerID,
			"payee": payeeID,
			"value": amount.StringFixed(),
		})
	}

	return nil
}

func (v *TransferValidator) validateSufficientBalance(payer *Wallet, amount Money, payee *Wallet) error {
	if payer.HasSufficientBalance(amount) {
		return nil
	}

	return NewInsufficientBalanceError(payer.Balance, amount, map[string]any{
		"payer_wallet_id": payer.ID,
		"payee_wallet_id": payee.ID,
	})
}

func (v *TransferValidator) validatePayerIsNotStoreKeeper(payer, payee *Wallet, amount Money) error {
	if !payer.IsStoreKeeper() {
		return nil
	}

	return NewStoreKeeperTransferError(map[string]any{
		"payer_wallet_id": payer.ID,
		"payer_owner_id":  payer.OwnerID,
		"payee_wallet_id": payee.ID,
		"value":           amount.StringFixed(),
	})
}
