package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// CachedWalletRepository decorates a WalletRepository with a read-through
// Redis cache. Lookups that miss fall through to the inner repository and
// populate the cache; balance mutations invalidate. Locked reads always
// bypass the cache, so the transactional path never sees stale state.
type CachedWalletRepository struct {
	inner   usecase.WalletRepository
	cache   usecase.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewCachedWalletRepository wraps inner with a cache holding entries for ttl.
// metrics may be nil.
func NewCachedWalletRepository(inner usecase.WalletRepository, cache usecase.Cache, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *CachedWalletRepository {
	return &CachedWalletRepository{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

type cachedWallet struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"owner_id"`
	BalanceCents int64        `json:"balance_cents"`
	Currency     string       `json:"currency"`
	Owner        *cachedOwner `json:"owner,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type cachedOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func walletKey(id string) string      { return "wallet:" + id }
func walletOwnerKey(id string) string { return "wallet:" + id + ":owner" }

// GetByID reads the wallet through the cache.
func (r *CachedWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if wallet, ok := r.lookup(ctx, walletKey(id)); ok {
		return wallet, nil
	}

	wallet, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, walletKey(id), wallet)

	return wallet, nil
}

// GetByIDWithOwner reads the wallet and its owner through the cache. The
// owner variant is cached under its own key because role data is needed for
// validation but absent from the plain entry.
func (r *CachedWalletRepository) GetByIDWithOwner(ctx context.Context, id string) (*domain.Wallet, error) {
	if wallet, ok := r.lookup(ctx, walletOwnerKey(id)); ok {
		return wallet, nil
	}

	wallet, err := r.inner.GetByIDWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, walletOwnerKey(id), wallet)

	return wallet, nil
}

// HasSufficientBalance checks against the cached wallet when present.
func (r *CachedWalletRepository) HasSufficientBalance(ctx context.Context, id string, amount domain.Money) (bool, error) {
	wallet, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	return wallet.HasSufficientBalance(amount), nil
}

// GetByIDsForUpdate always hits the inner repository; locked reads must see
// committed state, never a cache entry.
func (r *CachedWalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	return r.inner.GetByIDsForUpdate(ctx, tx, ids)
}

// DecrementBalance mutates through the inner repository and invalidates.
func (r *CachedWalletRepository) DecrementBalance(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error {
	if err := r.inner.DecrementBalance(ctx, tx, id, amount, updatedAt); err != nil {
		return err
	}

	r.invalidate(ctx, id)

	return nil
}

// IncrementBalance mutates through the inner repository and invalidates.
func (r *CachedWalletRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error {
	if err := r.inner.IncrementBalance(ctx, tx, id, amount, updatedAt); err != nil {
		return err
	}

	r.invalidate(ctx, id)

	return nil
}

func (r *CachedWalletRepository) lookup(ctx context.Context, key string) (*domain.Wallet, bool) {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			r.logger.Warn().Err(err).Str("key", key).Msg("wallet cache read failed")
		}

		r.countMiss()
		return nil, false
	}

	var entry cachedWallet
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("corrupt wallet cache entry")
		r.countMiss()
		return nil, false
	}

	balance, err := domain.NewMoney(entry.BalanceCents, entry.Currency)
	if err != nil {
		r.countMiss()
		return nil, false
	}

	wallet := &domain.Wallet{
		ID:        entry.ID,
		OwnerID:   entry.OwnerID,
		Balance:   balance,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if entry.Owner != nil {
		wallet.Owner = &domain.Owner{
			ID:   entry.Owner.ID,
			Name: entry.Owner.Name,
			Role: domain.Role(entry.Owner.Role),
		}
	}

	r.countHit()
	return wallet, true
}

func (r *CachedWalletRepository) countHit() {
	if r.metrics != nil {
		r.metrics.WalletCacheHits.Inc()
	}
}

func (r *CachedWalletRepository) countMiss() {
	if r.metrics != nil {
		r.metrics.WalletCacheMisses.Inc()
	}
}

func (r *CachedWalletRepository) store(ctx context.Context, key string, wallet *domain.Wallet) {
	entry := cachedWallet{
		ID:           wallet.ID,
		OwnerID:      wallet.OwnerID,
		BalanceCents: wallet.Balance.Cents(),
		Currency:     wallet.Balance.Currency(),
		CreatedAt:    wallet.CreatedAt,
		UpdatedAt:    wallet.UpdatedAt,
	}
	if wallet.Owner != nil {
		entry.Owner = &cachedOwner{
			ID:   wallet.Owner.ID,
			Name: wallet.Owner.Name,
			Role: string(wallet.Owner.Role),
		}
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := r.cache.Set(ctx, key, string(raw), r.ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("wallet cache write failed")
	}
}

func (r *CachedWalletRepository) invalidate(ctx context.Context, id string) {
	for _, key := range []string{walletKey(id), walletOwnerKey(id)} {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("wallet cache invalidation failed")
		}
	}
}
