package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

// TransferUseCase orchestrates a wallet-to-wallet transfer: precondition
// validation on best-effort reads, external authorization, locked balance
// mutation inside one transaction, and a notification handed to the
// dispatcher after commit.
type TransferUseCase struct {
	txManager        TransactionManager
	walletRepo       WalletRepository
	transferRepo     TransferRepository
	notificationRepo NotificationRepository
	authorizer       Authorizer
	retrier          Retrier
	idGen            IDGenerator
	validator        *domain.TransferValidator
	logger           zerolog.Logger
}

// NewTransferUseCase creates a new TransferUseCase. retrier may be nil when
// transient storage failures should not be retried.
func NewTransferUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	transferRepo TransferRepository,
	notificationRepo NotificationRepository,
	authorizer Authorizer,
	retrier Retrier,
	idGen IDGenerator,
	logger zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:        txManager,
		walletRepo:       walletRepo,
		transferRepo:     transferRepo,
		notificationRepo: notificationRepo,
		authorizer:       authorizer,
		retrier:          retrier,
		idGen:            idGen,
		validator:        domain.NewTransferValidator(),
		logger:           logger,
	}
}

// TransferInput represents input for executing a transfer.
type TransferInput struct {
	PayerWalletID string
	PayeeWalletID string
	Amount        domain.Money
}

func (in TransferInput) context() map[string]any {
	return map[string]any{
		"payer": in.PayerWalletID,
		"payee": in.PayeeWalletID,
		"value": in.Amount.StringFixed(),
	}
}

// Execute runs a single transfer. Business rule violations come back as
// classified errors with stable codes; everything unexpected is wrapped
// into the single TRANSFER_ERROR kind after being logged with full context.
func (uc *TransferUseCase) Execute(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	if input.PayerWalletID == input.PayeeWalletID {
		return nil, domain.ErrSameWallet
	}

	if input.Amount.Cents() <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// Optimistic reads, possibly cache-served. Only the post-lock re-check
	// is authoritative.
	payer, err := uc.loadWallet(ctx, input.PayerWalletID, true)
	if err != nil {
		return nil, uc.wrapUnexpected(err, input)
	}

	payee, err := uc.loadWallet(ctx, input.PayeeWalletID, false)
	if err != nil {
		return nil, uc.wrapUnexpected(err, input)
	}

	if err := uc.validator.Validate(payer, payee, input.Amount, input.PayerWalletID, input.PayeeWalletID); err != nil {
		return nil, err
	}

	// Authorization happens before the transaction opens, so a rejection
	// can never leave a partial mutation behind.
	if !uc.authorizer.Authorize(ctx, input.PayerWalletID, input.PayeeWalletID, input.Amount) {
		uc.logger.Warn().
			Str("payer_wallet_id", input.PayerWalletID).
			Str("payee_wallet_id", input.PayeeWalletID).
			Str("value", input.Amount.StringFixed()).
			Msg("transfer not authorized by third party")

		return nil, domain.NewTransferNotAuthorizedError(input.context())
	}

	var transfer *domain.Transfer

	run := func() error {
		var runErr error
		transfer, runErr = uc.runTransaction(ctx, input)
		return runErr
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}

	if err != nil {
		return nil, uc.wrapUnexpected(err, input)
	}

	uc.logger.Info().
		Str("transfer_id", transfer.ID).
		Str("payer_wallet_id", input.PayerWalletID).
		Str("payee_wallet_id", input.PayeeWalletID).
		Str("value", input.Amount.StringFixed()).
		Msg("transfer completed")

	return transfer, nil
}

// runTransaction performs the locked portion of the transfer: lock both
// wallets in ascending id order, re-check the payer balance against the
// locked state, append the ledger record, move the balances, and queue the
// notification, all inside one transaction.
func (uc *TransferUseCase) runTransaction(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := []string{input.PayerWalletID, input.PayeeWalletID}
	sort.Strings(ids)

	wallets, err := uc.walletRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	var payer, payee *domain.Wallet

	for _, w := range wallets {
		switch w.ID {
		case input.PayerWalletID:
			payer = w
		case input.PayeeWalletID:
			payee = w
		}
	}

	if payer == nil {
		return nil, domain.NewWalletNotFoundError(input.PayerWalletID, input.context())
	}

	if payee == nil {
		return nil, domain.NewWalletNotFoundError(input.PayeeWalletID, input.context())
	}

	if err := uc.validator.ValidateBalanceAfterLock(payer, input.Amount, payee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		PayerWalletID: payer.ID,
		PayeeWalletID: payee.ID,
		Amount:        input.Amount,
		CreatedAt:     now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.DecrementBalance(ctx, tx, payer.ID, input.Amount, now); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.IncrementBalance(ctx, tx, payee.ID, input.Amount, now); err != nil {
		return nil, err
	}

	notification := &domain.TransferNotification{
		ID:            uc.idGen.Generate(),
		TransferID:    transfer.ID,
		PayerWalletID: payer.ID,
		PayeeWalletID: payee.ID,
		Amount:        input.Amount,
		Status:        domain.NotificationPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}

	if err := uc.notificationRepo.Create(ctx, tx, notification); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// loadWallet reads a wallet for the optimistic check. An unresolved id
// comes back as a nil wallet so the validator can report it with the
// original id; any other failure propagates.
func (uc *TransferUseCase) loadWallet(ctx context.Context, id string, withOwner bool) (*domain.Wallet, error) {
	var (
		wallet *domain.Wallet
		err    error
	)

	if withOwner {
		wallet, err = uc.walletRepo.GetByIDWithOwner(ctx, id)
	} else {
		wallet, err = uc.walletRepo.GetByID(ctx, id)
	}

	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return wallet, nil
}

// wrapUnexpected lets classified business errors pass through untouched
// and folds everything else into the TRANSFER_ERROR kind, logged with full
// context.
func (uc *TransferUseCase) wrapUnexpected(err error, input TransferInput) error {
	if domain.IsClassified(err) ||
		errors.Is(err, domain.ErrSameWallet) ||
		errors.Is(err, domain.ErrInvalidAmount) {
		return err
	}

	uc.logger.Error().
		Err(err).
		Str("payer_wallet_id", input.PayerWalletID).
		Str("payee_wallet_id", input.PayeeWalletID).
		Str("value", input.Amount.StringFixed()).
		Msg("unexpected error during transfer")

	return domain.NewTransferFailedError(err, input.context())
}
