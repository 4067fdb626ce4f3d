// Package notifier drains the notification outbox. Rows are written inside
// the transfer transaction; this dispatcher delivers them after commit, with
// a growing delay between attempts and a hard attempt budget.
package notifier

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// Config tunes the dispatcher.
type Config struct {
	Interval    time.Duration
	MaxAttempts int
	RetryBase   time.Duration
	BatchSize   int
}

// Dispatcher polls for due notifications and delivers them.
type Dispatcher struct {
	repo     usecase.NotificationRepository
	notifier usecase.Notifier
	cfg      Config
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// New creates a Dispatcher. metrics may be nil.
func New(repo usecase.NotificationRepository, n usecase.Notifier, cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	return &Dispatcher{
		repo:     repo,
		notifier: n,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	d.logger.Info().
		Dur("interval", d.cfg.Interval).
		Int("max_attempts", d.cfg.MaxAttempts).
		Msg("notification dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("notification dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.Dispatch(ctx); err != nil {
				d.logger.Error().Err(err).Msg("notification dispatch failed")
			}
		}
	}
}

// Dispatch delivers one batch of due notifications. Delivery is
// at-least-once: a crash between Notify and MarkSent re-delivers on the
// next pass.
func (d *Dispatcher) Dispatch(ctx context.Context) error {
	now := time.Now().UTC()

	due, err := d.repo.GetDue(ctx, now, d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, n := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		d.deliver(ctx, n)
	}

	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *domain.TransferNotification) {
	if d.notifier.Notify(ctx, n.PayerWalletID, n.PayeeWalletID, n.Amount) {
		if err := d.repo.MarkSent(ctx, n.ID, time.Now().UTC()); err != nil {
			d.logger.Error().Err(err).Str("notification_id", n.ID).Msg("failed to mark notification sent")
			return
		}

		if d.metrics != nil {
			d.metrics.NotificationsSent.Inc()
		}

		d.logger.Info().
			Str("notification_id", n.ID).
			Str("transfer_id", n.TransferID).
			Msg("notification delivered")

		return
	}

	attempts := n.Attempts + 1

	if attempts >= d.cfg.MaxAttempts {
		if err := d.repo.MarkFailed(ctx, n.ID); err != nil {
			d.logger.Error().Err(err).Str("notification_id", n.ID).Msg("failed to mark notification failed")
			return
		}

		if d.metrics != nil {
			d.metrics.NotificationsFailed.Inc()
		}

		d.logger.Error().
			Str("notification_id", n.ID).
			Str("transfer_id", n.TransferID).
			Int("attempts", attempts).
			Msg("notification abandoned")

		return
	}

	// Delay doubles with each failed attempt.
	next := time.Now().UTC().Add(d.cfg.RetryBase << (attempts - 1))

	if err := d.repo.Reschedule(ctx, n.ID, attempts, next); err != nil {
		d.logger.Error().Err(err).Str("notification_id", n.ID).Msg("failed to reschedule notification")
		return
	}

	if d.metrics != nil {
		d.metrics.NotificationRetries.Inc()
	}

	d.logger.Warn().
		Str("notification_id", n.ID).
		Int("attempts", attempts).
		Time("next_attempt_at", next).
		Msg("notification delivery failed, rescheduled")
}
