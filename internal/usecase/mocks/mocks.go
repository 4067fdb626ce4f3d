package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	GetByIDFunc              func(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDWithOwnerFunc     func(ctx context.Context, id string) (*domain.Wallet, error)
	HasSufficientBalanceFunc func(ctx context.Context, id string, amount domain.Money) (bool, error)
	GetByIDsForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error)
	DecrementBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error
	IncrementBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// Put seeds a wallet into the mock's backing map.
func (m *MockWalletRepository) Put(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, domain.NewWalletNotFoundError(id, nil)
}

func (m *MockWalletRepository) GetByIDWithOwner(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDWithOwnerFunc != nil {
		return m.GetByIDWithOwnerFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockWalletRepository) HasSufficientBalance(ctx context.Context, id string, amount domain.Money) (bool, error) {
	if m.HasSufficientBalanceFunc != nil {
		return m.HasSufficientBalanceFunc(ctx, id, amount)
	}
	w, err := m.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return w.HasSufficientBalance(amount), nil
}

func (m *MockWalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, id := range ids {
		if w, ok := m.wallets[id]; ok {
			wallets = append(wallets, w)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) DecrementBalance(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error {
	if m.DecrementBalanceFunc != nil {
		return m.DecrementBalanceFunc(ctx, tx, id, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return domain.NewWalletNotFoundError(id, nil)
	}
	balance, err := w.Balance.Sub(amount)
	if err != nil {
		return err
	}
	w.Balance = balance
	w.UpdatedAt = updatedAt
	return nil
}

func (m *MockWalletRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, id string, amount domain.Money, updatedAt time.Time) error {
	if m.IncrementBalanceFunc != nil {
		return m.IncrementBalanceFunc(ctx, tx, id, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return domain.NewWalletNotFoundError(id, nil)
	}
	balance, err := w.Balance.Add(amount)
	if err != nil {
		return err
	}
	w.Balance = balance
	w.UpdatedAt = updatedAt
	return nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Transfer, error)
	ListByWalletFunc func(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

// Count returns the number of recorded transfers.
func (m *MockTransferRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transfers)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, id)
}

func (m *MockTransferRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transfer
	for _, t := range m.transfers {
		if t.PayerWalletID == walletID || t.PayeeWalletID == walletID {
			result = append(result, t)
		}
	}
	return result, nil
}

// MockNotificationRepository is a mock implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*domain.TransferNotification

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, notification *domain.TransferNotification) error
	GetDueFunc     func(ctx context.Context, now time.Time, limit int) ([]*domain.TransferNotification, error)
	MarkSentFunc   func(ctx context.Context, id string, sentAt time.Time) error
	RescheduleFunc func(ctx context.Context, id string, attempts int, nextAttemptAt time.Time) error
	MarkFailedFunc func(ctx context.Context, id string) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make(map[string]*domain.TransferNotification),
	}
}

func (m *MockNotificationRepository) Create(ctx context.Context, tx usecase.Transaction, notification *domain.TransferNotification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, notification)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[notification.ID] = notification
	return nil
}

func (m *MockNotificationRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*domain.TransferNotification, error) {
	if m.GetDueFunc != nil {
		return m.GetDueFunc(ctx, now, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []*domain.TransferNotification
	for _, n := range m.notifications {
		if n.Status == domain.NotificationPending && !n.NextAttemptAt.After(now) {
			due = append(due, n)
		}
		if len(due) >= limit {
			break
		}
	}
	return due, nil
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, id, sentAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notifications[id]; ok {
		n.Status = domain.NotificationSent
		n.SentAt = &sentAt
	}
	return nil
}

func (m *MockNotificationRepository) Reschedule(ctx context.Context, id string, attempts int, nextAttemptAt time.Time) error {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, id, attempts, nextAttemptAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notifications[id]; ok {
		n.Attempts = attempts
		n.NextAttemptAt = nextAttemptAt
	}
	return nil
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notifications[id]; ok {
		n.Status = domain.NotificationFailed
	}
	return nil
}

// Get returns a stored notification by id.
func (m *MockNotificationRepository) Get(id string) *domain.TransferNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notifications[id]
}

// All returns every stored notification.
func (m *MockNotificationRepository) All() []*domain.TransferNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []*domain.TransferNotification
	for _, n := range m.notifications {
		all = append(all, n)
	}
	return all
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	LastTx *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.LastTx = &MockTransaction{}
	return m.LastTx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}
