package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransferRequest represents a request to move money between wallets.
type TransferRequest struct {
	Payer string          `json:"payer"`
	Payee string          `json:"payee"`
	Value decimal.Decimal `json:"value"`
}

// ToUseCaseInput converts to use case input, validating the amount against
// the configured bounds.
func (r *TransferRequest) ToUseCaseInput(minCents, maxCents int64) (usecase.TransferInput, error) {
	amount, err := domain.MoneyFromDecimalInRange(r.Value, domain.DefaultCurrency, minCents, maxCents)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		PayerWalletID: r.Payer,
		PayeeWalletID: r.Payee,
		Amount:        amount,
	}, nil
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
