package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

// Notifier implements usecase.Notifier against the external notification
// service.
type Notifier struct {
	client *Client
	url    string
	logger zerolog.Logger
}

// NewNotifier creates a Notifier calling the given endpoint.
func NewNotifier(client *Client, endpoint string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		client: client,
		url:    endpoint,
		logger: logger,
	}
}

type notificationPayload struct {
	Payer string `json:"payer"`
	Payee string `json:"payee"`
	Value string `json:"value"`
}

// Notify tells the external service about a completed transfer. Returns
// false when the service is unreachable or refuses the notification; the
// dispatcher reschedules on false.
func (n *Notifier) Notify(ctx context.Context, payerID, payeeID string, amount domain.Money) bool {
	payload, err := json.Marshal(notificationPayload{
		Payer: payerID,
		Payee: payeeID,
		Value: amount.StringFixed(),
	})
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to encode notification payload")
		return false
	}

	resp, err := n.client.doWithRetry(func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		return req, nil
	})
	if err != nil {
		n.logger.Error().Err(err).Msg("notification service unreachable")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn().Int("status", resp.StatusCode).Msg("notification rejected")
		return false
	}

	return true
}
