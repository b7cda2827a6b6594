package wallet

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"
	"sfstore/internal/repositories/repotest"
	"sfstore/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type fixture struct {
	svc    Service
	store  repositories.Store
	userID uint
}

func newFixture(t *testing.T, seed models.Wallet) *fixture {
	t.Helper()
	store, _ := repotest.NewStore(t)
	ctx := context.Background()

	user := &models.User{Username: "player", Email: "player@example.com", IsActive: true}
	require.NoError(t, store.Users().Create(ctx, user))

	seed.UserID = user.ID
	if seed.LastEarningReset.IsZero() {
		seed.LastEarningReset = testNow
	}
	require.NoError(t, store.Wallets().Create(ctx, &seed))

	svc := NewService(store, nil, Config{Clock: func() time.Time { return testNow }}, nil)
	return &fixture{svc: svc, store: store, userID: user.ID}
}

func (f *fixture) wallet(t *testing.T) *models.Wallet {
	t.Helper()
	w, err := f.store.Wallets().GetByUserID(context.Background(), f.userID)
	require.NoError(t, err)
	return w
}

func (f *fixture) entries(t *testing.T) []models.WalletTransaction {
	t.Helper()
	w := f.wallet(t)
	entries, err := f.store.Ledger().ListChronological(context.Background(), w.ID)
	require.NoError(t, err)
	return entries
}

func TestWalletService_EarnDailyLimit(t *testing.T) {
	f := newFixture(t, models.Wallet{SfCoins: 100, DailyEarnings: 450, DailyEarningLimit: 500})
	ctx := context.Background()

	_, err := f.svc.Earn(ctx, f.userID, 60, "")
	assert.True(t, errors.Is(err, apperrors.ErrDailyLimitExceeded))
	assert.Equal(t, apperrors.KindLimitExceeded, apperrors.KindOf(err))

	w := f.wallet(t)
	assert.Equal(t, int64(100), w.SfCoins)
	assert.Equal(t, int64(450), w.DailyEarnings)
	assert.Empty(t, f.entries(t))

	res, err := f.svc.Earn(ctx, f.userID, 50, "quest")
	require.NoError(t, err)
	assert.Equal(t, int64(150), res.Wallet.SfCoins)
	assert.Equal(t, int64(500), res.Wallet.DailyEarnings)
	assert.Equal(t, int64(50), res.Wallet.TotalCoinsEarned)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TransactionEarn, entries[0].TransactionType)
	assert.Equal(t, int64(100), entries[0].BalanceBefore)
	assert.Equal(t, int64(150), entries[0].BalanceAfter)
	assert.Equal(t, "quest", entries[0].Description)
}

func TestWalletService_EarnRollsDailyWindow(t *testing.T) {
	f := newFixture(t, models.Wallet{
		DailyEarnings:     500,
		DailyEarningLimit: 500,
		LastEarningReset:  testNow.Add(-24 * time.Hour),
	})

	res, err := f.svc.Earn(context.Background(), f.userID, 100, "")
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Wallet.DailyEarnings)
	assert.True(t, res.Wallet.LastEarningReset.Equal(testNow))
}

func TestWalletService_BonusAndGrantBypassDailyLimit(t *testing.T) {
	f := newFixture(t, models.Wallet{DailyEarnings: 500, DailyEarningLimit: 500})
	ctx := context.Background()

	_, err := f.svc.Earn(ctx, f.userID, 1, "")
	require.Error(t, err)

	res, err := f.svc.AwardBonus(ctx, f.userID, 200, "first win")
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.Wallet.SfCoins)
	assert.Equal(t, models.TransactionBonus, res.Entry.TransactionType)

	res, err = f.svc.Grant(ctx, f.userID, models.SfCoins, 300, "support ticket")
	require.NoError(t, err)
	assert.Equal(t, int64(500), res.Wallet.SfCoins)
	assert.Equal(t, int64(500), res.Wallet.TotalCoinsEarned)
	assert.Equal(t, int64(500), res.Wallet.DailyEarnings)

	res, err = f.svc.Grant(ctx, f.userID, models.PremiumGems, 25, "")
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Wallet.PremiumGems)
	assert.Equal(t, int64(500), res.Wallet.TotalCoinsEarned)

	_, err = f.svc.AwardBonus(ctx, f.userID, 0, "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
}

func TestWalletService_Spend(t *testing.T) {
	f := newFixture(t, models.Wallet{SfCoins: 30, PremiumGems: 10})
	ctx := context.Background()

	_, err := f.svc.Spend(ctx, f.userID, models.SfCoins, 31, "")
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	assert.Equal(t, int64(30), f.wallet(t).SfCoins)
	assert.Empty(t, f.entries(t))

	_, err = f.svc.Spend(ctx, f.userID, models.SfCoins, -5, "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))

	_, err = f.svc.Spend(ctx, f.userID, models.CurrencyUnknown, 5, "")
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedCurrency))

	res, err := f.svc.Spend(ctx, f.userID, models.SfCoins, 30, "")
	require.NoError(t, err)
	assert.Zero(t, res.Wallet.SfCoins)
	assert.Equal(t, int64(30), res.Wallet.TotalCoinsSpent)

	res, err = f.svc.Spend(ctx, f.userID, models.PremiumGems, 4, "")
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Wallet.PremiumGems)
	assert.Equal(t, int64(30), res.Wallet.TotalCoinsSpent, "only sf_coins count as spent")
}

func TestWalletService_RefundAgainstSpend(t *testing.T) {
	f := newFixture(t, models.Wallet{SfCoins: 100})
	ctx := context.Background()

	spend, err := f.svc.Spend(ctx, f.userID, models.SfCoins, 40, "")
	require.NoError(t, err)
	spendID := spend.Entry.ID

	res, err := f.svc.Refund(ctx, RefundRequest{UserID: f.userID, Currency: models.SfCoins, Amount: 30, AgainstTransactionID: &spendID})
	require.NoError(t, err)
	assert.Equal(t, int64(90), res.Wallet.SfCoins)
	assert.Equal(t, models.ReferenceWalletTransaction, res.Entry.ReferenceType)
	require.NotNil(t, res.Entry.ReferenceID)
	assert.Equal(t, spendID, *res.Entry.ReferenceID)

	_, err = f.svc.Refund(ctx, RefundRequest{UserID: f.userID, Currency: models.SfCoins, Amount: 20, AgainstTransactionID: &spendID})
	assert.True(t, errors.Is(err, apperrors.ErrRefundExceedsOriginal))
	assert.Equal(t, apperrors.KindLimitReached, apperrors.KindOf(err))

	res, err = f.svc.Refund(ctx, RefundRequest{UserID: f.userID, Currency: models.SfCoins, Amount: 10, AgainstTransactionID: &spendID})
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Wallet.SfCoins)
	assert.Zero(t, res.Wallet.TotalCoinsSpent)

	_, err = f.svc.Refund(ctx, RefundRequest{UserID: f.userID, Currency: models.PremiumGems, Amount: 1, AgainstTransactionID: &spendID})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidRefundReference))

	missing := uint(9999)
	_, err = f.svc.Refund(ctx, RefundRequest{UserID: f.userID, Currency: models.SfCoins, Amount: 1, AgainstTransactionID: &missing})
	assert.True(t, errors.Is(err, apperrors.ErrTransactionNotFound))
}

func TestWalletService_UnreferencedRefundIsUnconditional(t *testing.T) {
	f := newFixture(t, models.Wallet{SfCoins: 0, TotalCoinsSpent: 10})

	res, err := f.svc.Refund(context.Background(), RefundRequest{UserID: f.userID, Currency: models.SfCoins, Amount: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Wallet.SfCoins)
	assert.Zero(t, res.Wallet.TotalCoinsSpent, "total spent never drops below zero")
	assert.Equal(t, "Refund", res.Entry.Description)
}

func TestWalletService_WalletNotFound(t *testing.T) {
	f := newFixture(t, models.Wallet{})

	_, err := f.svc.Earn(context.Background(), f.userID+100, 5, "")
	assert.True(t, errors.Is(err, apperrors.ErrWalletNotFound))

	_, err = f.svc.GetWallet(context.Background(), f.userID+100)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestWalletService_ResetDailyTracker(t *testing.T) {
	f := newFixture(t, models.Wallet{DailyEarnings: 300, LastEarningReset: testNow.Add(-20 * time.Hour)})
	ctx := context.Background()

	w, reset, err := f.svc.ResetDailyTracker(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, reset)
	assert.Zero(t, w.DailyEarnings)

	_, err = f.svc.Earn(ctx, f.userID, 40, "")
	require.NoError(t, err)

	w, reset, err = f.svc.ResetDailyTracker(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, reset, "second reset on the same day is a no-op")
	assert.Equal(t, int64(40), w.DailyEarnings)
	assert.Equal(t, int64(40), f.wallet(t).DailyEarnings)
}

func TestWalletService_ConcurrentSpendsNeverOverdraw(t *testing.T) {
	f := newFixture(t, models.Wallet{SfCoins: 100})
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Spend(ctx, f.userID, models.SfCoins, 10, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Zero(t, f.wallet(t).SfCoins)
	assert.Len(t, f.entries(t), 10)
}

func TestWalletService_RandomSequenceReconciles(t *testing.T) {
	f := newFixture(t, models.Wallet{DailyEarningLimit: 400})
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	currencies := models.Currencies()

	for i := 0; i < 200; i++ {
		amount := int64(rng.Intn(80)) + 1
		currency := currencies[rng.Intn(len(currencies))]
		var err error
		switch rng.Intn(5) {
		case 0:
			_, err = f.svc.Earn(ctx, f.userID, amount, "")
		case 1:
			_, err = f.svc.Spend(ctx, f.userID, currency, amount, "")
		case 2:
			_, err = f.svc.Refund(ctx, RefundRequest{UserID: f.userID, Currency: currency, Amount: amount})
		case 3:
			_, err = f.svc.Grant(ctx, f.userID, currency, amount, "")
		case 4:
			_, err = f.svc.AwardBonus(ctx, f.userID, amount, "")
		}
		if err != nil {
			kind := apperrors.KindOf(err)
			require.Contains(t, []apperrors.Kind{apperrors.KindInsufficientFunds, apperrors.KindLimitExceeded}, kind, err.Error())
		}

		w := f.wallet(t)
		for _, c := range currencies {
			bal, _ := w.Balance(c)
			require.GreaterOrEqual(t, bal, int64(0))
		}
		require.LessOrEqual(t, w.DailyEarnings, w.DailyEarningLimit)
	}

	for _, e := range f.entries(t) {
		assert.NoError(t, ledger.CheckSign(e.TransactionType, e.Amount, e.BalanceBefore, e.BalanceAfter))
	}

	report, err := f.svc.Reconcile(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, report.Consistent(), "%v", report.Problems)
}

func TestWalletService_History(t *testing.T) {
	f := newFixture(t, models.Wallet{SfCoins: 10})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Grant(ctx, f.userID, models.SfCoins, int64(i+1), "")
		require.NoError(t, err)
	}

	entries, total, err := f.svc.History(ctx, f.userID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(5), entries[0].Amount, "newest first")

	entries, _, err = f.svc.History(ctx, f.userID, 2, 4)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Amount)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	w, _ := args.Get(0).(*models.Wallet)
	return w, args.Error(1)
}

func (m *MockCache) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *MockCache) InvalidateWallet(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func TestWalletService_CacheThrough(t *testing.T) {
	f := newFixture(t, models.Wallet{SfCoins: 70})
	cache := new(MockCache)
	svc := NewService(f.store, cache, Config{Clock: func() time.Time { return testNow }}, nil)
	ctx := context.Background()

	cache.On("GetWallet", ctx, f.userID).Return(nil, nil).Once()
	cache.On("CacheWallet", ctx, mock.MatchedBy(func(w *models.Wallet) bool { return w.SfCoins == 70 })).Return(nil).Once()

	w, err := svc.GetWallet(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(70), w.SfCoins)

	cache.On("GetWallet", ctx, f.userID).Return(&models.Wallet{UserID: f.userID, SfCoins: 70}, nil).Once()
	bal, err := svc.GetBalance(ctx, f.userID, models.SfCoins)
	require.NoError(t, err)
	assert.Equal(t, int64(70), bal)

	cache.On("InvalidateWallet", ctx, f.userID).Return(errors.New("redis down")).Once()
	_, err = svc.Spend(ctx, f.userID, models.SfCoins, 20, "")
	require.NoError(t, err, "cache failures never fail a committed mutation")

	cache.AssertExpectations(t)
}

func TestMutate(t *testing.T) {
	t.Run("earn only in sf_coins", func(t *testing.T) {
		w := &models.Wallet{DailyEarningLimit: 100, LastEarningReset: testNow}
		_, err := mutate(w, Mutation{Type: models.TransactionEarn, Currency: models.PremiumGems, Amount: 5}, testNow)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedCurrency))
	})

	t.Run("unknown transaction type", func(t *testing.T) {
		w := &models.Wallet{}
		_, err := mutate(w, Mutation{Type: models.TransactionTransfer, Currency: models.SfCoins, Amount: 5}, testNow)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedTransactionType))
		assert.Zero(t, w.SfCoins)
	})

	t.Run("penalty debits without counting as spent", func(t *testing.T) {
		w := &models.Wallet{SfCoins: 50}
		entry, err := mutate(w, Mutation{Type: models.TransactionPenalty, Currency: models.SfCoins, Amount: 20}, testNow)
		require.NoError(t, err)
		assert.Equal(t, int64(30), w.SfCoins)
		assert.Zero(t, w.TotalCoinsSpent)
		assert.Equal(t, int64(50), entry.BalanceBefore)
		assert.True(t, entry.CreatedAt.Equal(testNow))
	})

	t.Run("overflow is rejected", func(t *testing.T) {
		w := &models.Wallet{PremiumGems: 1<<63 - 10}
		_, err := mutate(w, Mutation{Type: models.TransactionAdminGrant, Currency: models.PremiumGems, Amount: 20}, testNow)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
	})
}
