package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type walletServiceStub struct {
	getFn         func(ctx context.Context, id string) (*domain.Wallet, error)
	getTransferFn func(ctx context.Context, id string) (*domain.Transfer, error)
	listFn        func(ctx context.Context, input usecase.ListTransfersInput) ([]*domain.Transfer, error)
}

func (s *walletServiceStub) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return s.getFn(ctx, id)
}

func (s *walletServiceStub) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return s.getTransferFn(ctx, id)
}

func (s *walletServiceStub) ListTransfers(ctx context.Context, input usecase.ListTransfersInput) ([]*domain.Transfer, error) {
	return s.listFn(ctx, input)
}

func requestWithID(method, target, id string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestWalletHandler_Get_Success(t *testing.T) {
	balance, _ := domain.NewMoney(123456, "BRL")
	wallet := &domain.Wallet{
		ID:      "w-1",
		OwnerID: "u-1",
		Balance: balance,
		Owner:   &domain.Owner{ID: "u-1", Name: "Alice", Role: domain.RoleCustomer},
	}

	h := NewWalletHandler(&walletServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Wallet, error) {
			if id != "w-1" {
				t.Fatalf("expected id w-1, got %s", id)
			}
			return wallet, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, requestWithID(http.MethodGet, "/api/v1/wallets/w-1", "w-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "w-1" || resp.Currency != "BRL" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Owner == nil || resp.Owner.Role != "customer" {
		t.Fatalf("expected customer owner, got %+v", resp.Owner)
	}
	if !resp.Balance.Equal(balance.Decimal()) {
		t.Fatalf("expected balance %s, got %s", balance.Decimal(), resp.Balance)
	}
}

func TestWalletHandler_Get_NotFound(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Wallet, error) {
			return nil, domain.NewWalletNotFoundError(id, nil)
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, requestWithID(http.MethodGet, "/api/v1/wallets/w-x", "w-x"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Code != domain.CodeWalletNotFound {
		t.Fatalf("expected code %s, got %s", domain.CodeWalletNotFound, resp.Code)
	}
}

func TestWalletHandler_ListTransfers(t *testing.T) {
	amount, _ := domain.NewMoney(500, "BRL")

	var captured usecase.ListTransfersInput
	h := NewWalletHandler(&walletServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransfersInput) ([]*domain.Transfer, error) {
			captured = input
			return []*domain.Transfer{
				{ID: "t-1", PayerWalletID: "w-1", PayeeWalletID: "w-2", Amount: amount},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.ListTransfers(rec, requestWithID(http.MethodGet, "/api/v1/wallets/w-1/transfers?limit=5&offset=10", "w-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if captured.WalletID != "w-1" || captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp []*dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "t-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_GetTransfer_Success(t *testing.T) {
	amount, _ := domain.NewMoney(2500, "BRL")

	h := NewWalletHandler(&walletServiceStub{
		getTransferFn: func(ctx context.Context, id string) (*domain.Transfer, error) {
			if id != "t-1" {
				t.Errorf("expected transfer id t-1, got %s", id)
			}
			return &domain.Transfer{ID: "t-1", PayerWalletID: "w-1", PayeeWalletID: "w-2", Amount: amount}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.GetTransfer(rec, requestWithID(http.MethodGet, "/api/v1/transfers/t-1", "t-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "t-1" || resp.Value.String() != "25" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_GetTransfer_NotFound(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		getTransferFn: func(ctx context.Context, id string) (*domain.Transfer, error) {
			return nil, domain.ErrTransferNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.GetTransfer(rec, requestWithID(http.MethodGet, "/api/v1/transfers/missing", "missing"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
