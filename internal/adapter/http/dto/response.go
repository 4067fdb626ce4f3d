package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID        string          `json:"id"`
	Payer     string          `json:"payer"`
	Payee     string          `json:"payee"`
	Value     decimal.Decimal `json:"value"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:        t.ID,
		Payer:     t.PayerWalletID,
		Payee:     t.PayeeWalletID,
		Value:     t.Amount.Decimal(),
		Currency:  t.Amount.Currency(),
		CreatedAt: t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// OwnerResponse represents a wallet owner in API responses.
type OwnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Owner     *OwnerResponse  `json:"owner,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	resp := &WalletResponse{
		ID:        w.ID,
		Balance:   w.Balance.Decimal(),
		Currency:  w.Balance.Currency(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.Owner != nil {
		resp.Owner = &OwnerResponse{
			ID:   w.Owner.ID,
			Name: w.Owner.Name,
			Role: string(w.Owner.Role),
		}
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
