package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// Authorizer implements usecase.Authorizer against the external
// authorization service.
type Authorizer struct {
	client  *Client
	url     string
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewAuthorizer creates an Authorizer calling the given endpoint. metrics
// may be nil.
func NewAuthorizer(client *Client, endpoint string, m *metrics.Metrics, logger zerolog.Logger) *Authorizer {
	return &Authorizer{
		client:  client,
		url:     endpoint,
		metrics: m,
		logger:  logger,
	}
}

func (a *Authorizer) countOutcome(outcome string) {
	if a.metrics != nil {
		a.metrics.AuthorizationRequests.WithLabelValues(outcome).Inc()
	}
}

type authorizationResponse struct {
	Status string `json:"status"`
	Data   struct {
		Authorization bool `json:"authorization"`
	} `json:"data"`
}

// Authorize asks the external service to approve the transfer. A declined
// or unreachable service means false; the caller treats false as a denial.
func (a *Authorizer) Authorize(ctx context.Context, payerID, payeeID string, amount domain.Money) bool {
	resp, err := a.client.doWithRetry(func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
		if err != nil {
			return nil, err
		}

		q := url.Values{}
		q.Set("payer", payerID)
		q.Set("payee", payeeID)
		q.Set("value", amount.StringFixed())
		req.URL.RawQuery = q.Encode()

		return req, nil
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("authorization service unreachable")
		a.countOutcome("error")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn().Int("status", resp.StatusCode).Msg("authorization declined")
		a.countOutcome("denied")
		return false
	}

	var body authorizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		a.logger.Error().Err(err).Msg("malformed authorization response")
		a.countOutcome("error")
		return false
	}

	if body.Data.Authorization {
		a.countOutcome("approved")
	} else {
		a.countOutcome("denied")
	}
	return body.Data.Authorization
}
