package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

type transferService interface {
	Execute(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
}

// TransferHandler handles transfer HTTP requests.
type TransferHandler struct {
	svc      transferService
	metrics  *metrics.Metrics
	minCents int64
	maxCents int64
}

// NewTransferHandler creates a new TransferHandler. metrics may be nil.
func NewTransferHandler(svc transferService, m *metrics.Metrics, minCents, maxCents int64) *TransferHandler {
	return &TransferHandler{
		svc:      svc,
		metrics:  m,
		minCents: minCents,
		maxCents: maxCents,
	}
}

// Create executes a wallet-to-wallet transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Payer == "" || req.Payee == "" {
		writeError(w, http.StatusBadRequest, "invalid request body", "payer and payee are required")
		return
	}

	input, err := req.ToUseCaseInput(h.minCents, h.maxCents)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	start := time.Now()

	transfer, err := h.svc.Execute(r.Context(), input)
	if err != nil {
		if h.metrics != nil {
			h.metrics.TransferErrors.WithLabelValues(errorCode(err)).Inc()
		}

		writeDomainError(w, err)

		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCompleted.Inc()
		h.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		h.metrics.TransferAmount.Observe(transfer.Amount.Decimal().InexactFloat64())
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}
