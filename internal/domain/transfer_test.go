package domain

import (
	"errors"
	"testing"
)

func TestTransfer_Validate(t *testing.T) {
	amount, _ := NewMoney(10000, "BRL")

	tests := []struct {
		name      string
		transfer  Transfer
		errorType error
	}{
		{
			name:     "valid transfer",
			transfer: Transfer{ID: "trf-1", PayerWalletID: "wal-1", PayeeWalletID: "wal-2", Amount: amount},
		},
		{
			name:      "same wallet",
			transfer:  Transfer{ID: "trf-2", PayerWalletID: "wal-1", PayeeWalletID: "wal-1", Amount: amount},
			errorType: ErrSameWallet,
		},
		{
			name:      "zero amount",
			transfer:  Transfer{ID: "trf-3", PayerWalletID: "wal-1", PayeeWalletID: "wal-2", Amount: ZeroMoney("BRL")},
			errorType: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transfer.Validate()

			if tt.errorType == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}
