package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func pendingNotification(t *testing.T, id string) *domain.TransferNotification {
	t.Helper()
	amount, err := domain.NewMoney(10000, domain.DefaultCurrency)
	if err != nil {
		t.Fatalf("NewMoney: %v", err)
	}
	now := time.Now().UTC()
	return &domain.TransferNotification{
		ID:            id,
		TransferID:    "t-" + id,
		PayerWalletID: "w-1",
		PayeeWalletID: "w-2",
		Amount:        amount,
		Status:        domain.NotificationPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}

func newDispatcher(repo *mocks.MockNotificationRepository, n *mocks.MockNotifier) *Dispatcher {
	return New(repo, n, Config{
		Interval:    time.Millisecond,
		MaxAttempts: 3,
		RetryBase:   time.Minute,
		BatchSize:   10,
	}, nil, zerolog.Nop())
}

func TestDispatcherMarksSentOnDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository()
	repo.Create(context.Background(), nil, pendingNotification(t, "n-1"))

	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Notify(gomock.Any(), "w-1", "w-2", gomock.Any()).Return(true)

	d := newDispatcher(repo, n)
	if err := d.Dispatch(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	got := repo.Get("n-1")
	if got.Status != domain.NotificationSent {
		t.Errorf("expected sent, got %s", got.Status)
	}
	if got.SentAt == nil {
		t.Error("expected SentAt to be recorded")
	}
}

func TestDispatcherReschedulesWithGrowingDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository()
	repo.Create(context.Background(), nil, pendingNotification(t, "n-1"))

	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false).Times(2)

	d := newDispatcher(repo, n)

	before := time.Now().UTC()
	if err := d.Dispatch(context.Background()); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	got := repo.Get("n-1")
	if got.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", got.Attempts)
	}
	if got.Status != domain.NotificationPending {
		t.Fatalf("expected pending, got %s", got.Status)
	}

	firstDelay := got.NextAttemptAt.Sub(before)
	if firstDelay < 50*time.Second || firstDelay > 70*time.Second {
		t.Errorf("expected roughly one minute delay, got %s", firstDelay)
	}

	// Force the next attempt to be due now.
	got.NextAttemptAt = time.Now().UTC().Add(-time.Second)

	if err := d.Dispatch(context.Background()); err != nil {
		t.Fatalf("second dispatch: %v", err)
	}

	got = repo.Get("n-1")
	if got.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", got.Attempts)
	}

	secondDelay := got.NextAttemptAt.Sub(time.Now().UTC())
	if secondDelay < 110*time.Second || secondDelay > 130*time.Second {
		t.Errorf("expected roughly two minute delay, got %s", secondDelay)
	}
}

func TestDispatcherAbandonsAfterAttemptBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository()
	n2 := pendingNotification(t, "n-1")
	n2.Attempts = 2
	repo.Create(context.Background(), nil, n2)

	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false)

	d := newDispatcher(repo, n)
	if err := d.Dispatch(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	got := repo.Get("n-1")
	if got.Status != domain.NotificationFailed {
		t.Errorf("expected failed, got %s", got.Status)
	}
}

func TestDispatcherSkipsFutureNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository()
	future := pendingNotification(t, "n-1")
	future.NextAttemptAt = time.Now().UTC().Add(time.Hour)
	repo.Create(context.Background(), nil, future)

	n := mocks.NewMockNotifier(ctrl)
	// Notify must not be called.

	d := newDispatcher(repo, n)
	if err := d.Dispatch(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	got := repo.Get("n-1")
	if got.Status != domain.NotificationPending || got.Attempts != 0 {
		t.Errorf("expected untouched notification, got %+v", got)
	}
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository()
	n := mocks.NewMockNotifier(ctrl)

	d := newDispatcher(repo, n)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}
}
