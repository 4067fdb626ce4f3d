// Package gateway talks to the external authorization and notification
// services. Both calls degrade to a boolean: transport failures are retried
// a fixed number of times, answered requests are taken at face value.
package gateway

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Config holds the shared transport settings and retry policy.
type Config struct {
	Timeout            time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration
	InsecureSkipVerify bool
}

// Client is the shared HTTP transport for both external services.
type Client struct {
	httpClient    *http.Client
	retryAttempts int
	retryDelay    time.Duration
	logger        zerolog.Logger
}

// NewClient creates a Client. InsecureSkipVerify is meant for non-production
// environments where the services run behind self-signed certificates.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		retryAttempts: attempts,
		retryDelay:    cfg.RetryDelay,
		logger:        logger,
	}
}

// doWithRetry executes newRequest until a response arrives or the attempts
// run out. Only transport errors are retried; any answered request, whatever
// its status, ends the loop.
func (c *Client) doWithRetry(newRequest func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response

	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(c.retryDelay),
		uint64(c.retryAttempts-1),
	)

	err := backoff.Retry(func() error {
		req, err := newRequest()
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("external service unreachable, retrying")
			return err
		}

		return nil
	}, policy)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
