package usecase

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
)

// WalletUseCase handles wallet read operations.
type WalletUseCase struct {
	walletRepo   WalletRepository
	transferRepo TransferRepository
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(walletRepo WalletRepository, transferRepo TransferRepository) *WalletUseCase {
	return &WalletUseCase{
		walletRepo:   walletRepo,
		transferRepo: transferRepo,
	}
}

// GetWallet retrieves a wallet with its owner.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByIDWithOwner(ctx, id)
}

// GetTransfer retrieves a single transfer record.
func (uc *WalletUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersInput represents input for listing a wallet's transfers.
type ListTransfersInput struct {
	WalletID string
	Limit    int
	Offset   int
}

// ListTransfers lists transfers where the wallet is payer or payee.
func (uc *WalletUseCase) ListTransfers(ctx context.Context, input ListTransfersInput) ([]*domain.Transfer, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.transferRepo.ListByWallet(ctx, input.WalletID, input.Limit, input.Offset)
}
