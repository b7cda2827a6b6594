package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"
	"sfstore/internal/repositories/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

type fixture struct {
	svc   Service
	store repositories.Store
	db    *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, db := repotest.NewStore(t)
	return &fixture{
		svc:   NewService(store, nil, nil, func() time.Time { return testNow }),
		store: store,
		db:    db,
	}
}

func (f *fixture) user(t *testing.T, name string, seed models.Wallet) uint {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Username: name, Email: name + "@example.com", IsActive: true}
	require.NoError(t, f.store.Users().Create(ctx, u))
	seed.UserID = u.ID
	seed.LastEarningReset = testNow
	require.NoError(t, f.store.Wallets().Create(ctx, &seed))
	return u.ID
}

func (f *fixture) product(t *testing.T, p models.VirtualProduct) *models.VirtualProduct {
	t.Helper()
	if p.Name == "" {
		p.Name = "Item"
	}
	if p.ProductType == "" {
		p.ProductType = "cosmetic"
	}
	if p.CurrencyType == models.CurrencyUnknown {
		p.CurrencyType = models.SfCoins
	}
	p.IsActive = true
	p.MinUserLevel = 1
	require.NoError(t, f.store.Products().Create(context.Background(), &p))
	return &p
}

func (f *fixture) wallet(t *testing.T, userID uint) *models.Wallet {
	t.Helper()
	w, err := f.store.Wallets().GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	return w
}

func TestPurchase_TimedProduct(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "buyer", models.Wallet{SfCoins: 50})
	p := f.product(t, models.VirtualProduct{Name: "XP Booster", Price: decimal.NewFromInt(50), DurationDays: intPtr(30)})

	receipt, err := f.svc.Purchase(context.Background(), Request{UserID: userID, ProductID: p.ID})
	require.NoError(t, err)

	expires := testNow.AddDate(0, 0, 30)
	assert.Equal(t, int64(0), receipt.Wallet.SfCoins)
	assert.Equal(t, models.PurchaseCompleted, receipt.Purchase.Status)
	assert.True(t, receipt.Purchase.IsDelivered)
	assert.Equal(t, int64(50), receipt.Purchase.AmountPaid)
	require.NotNil(t, receipt.Purchase.TransactionID)
	assert.Equal(t, receipt.Entry.ID, *receipt.Purchase.TransactionID)
	require.NotNil(t, receipt.Item.ExpiresAt)
	assert.True(t, receipt.Item.ExpiresAt.Equal(expires))
	assert.False(t, receipt.Item.IsConsumed)
	assert.Equal(t, 1, receipt.Item.Quantity)

	assert.Equal(t, models.TransactionPurchase, receipt.Entry.TransactionType)
	assert.Equal(t, models.ReferenceProduct, receipt.Entry.ReferenceType)
	require.NotNil(t, receipt.Entry.ReferenceID)
	assert.Equal(t, p.ID, *receipt.Entry.ReferenceID)

	w := f.wallet(t, userID)
	assert.Equal(t, int64(0), w.SfCoins)
	assert.Equal(t, int64(50), w.TotalCoinsSpent)

	item, err := f.store.Inventory().GetByID(context.Background(), receipt.Item.ID)
	require.NoError(t, err)
	require.NotNil(t, item.ExpiresAt)
	assert.True(t, item.ExpiresAt.Equal(expires))
	assert.Equal(t, models.ItemActiveUnequipped, item.State())
}

func TestPurchase_InsufficientFundsWritesNothing(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "broke", models.Wallet{PremiumGems: 10})
	p := f.product(t, models.VirtualProduct{CurrencyType: models.PremiumGems, Price: decimal.NewFromInt(150), StockQuantity: intPtr(3)})

	_, err := f.svc.Purchase(context.Background(), Request{UserID: userID, ProductID: p.ID})
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))

	assertNothingBought(t, f, userID, p.ID, 3)
	assert.Equal(t, int64(10), f.wallet(t, userID).PremiumGems)
}

func TestPurchase_RollsBackWhenLaterStepFails(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "unlucky", models.Wallet{SfCoins: 500})
	p := f.product(t, models.VirtualProduct{Price: decimal.NewFromInt(200), StockQuantity: intPtr(2)})

	svc := NewService(failingInventoryStore{f.store}, nil, nil, func() time.Time { return testNow })
	_, err := svc.Purchase(context.Background(), Request{UserID: userID, ProductID: p.ID})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	w := f.wallet(t, userID)
	assert.Equal(t, int64(500), w.SfCoins)
	assert.Zero(t, w.TotalCoinsSpent)
	entries, err := f.store.Ledger().ListChronological(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assertNothingBought(t, f, userID, p.ID, 2)
}

func assertNothingBought(t *testing.T, f *fixture, userID, productID uint, stock int) {
	t.Helper()
	ctx := context.Background()
	purchases, err := f.store.Purchases().ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
	items, err := f.store.Inventory().ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
	p, err := f.store.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, p.StockQuantity)
	assert.Equal(t, stock, *p.StockQuantity)
}

func TestPurchase_LastUnitSoldOnce(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, models.VirtualProduct{Name: "Founder Badge", Price: decimal.NewFromInt(10), StockQuantity: intPtr(1)})

	const buyers = 6
	users := make([]uint, buyers)
	for i := range users {
		users[i] = f.user(t, fmt.Sprintf("buyer%d", i), models.Wallet{SfCoins: 100})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		soldOut   int
	)
	for _, id := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := f.svc.Purchase(context.Background(), Request{UserID: userID, ProductID: p.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				completed++
			case errors.Is(err, apperrors.ErrOutOfStock):
				soldOut++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, completed)
	assert.Equal(t, buyers-1, soldOut)

	got, err := f.store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *got.StockQuantity)

	var count int64
	require.NoError(t, f.db.Model(&models.ProductPurchase{}).Where("status = ?", models.PurchaseCompleted).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPurchase_MaxPurchases(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "collector", models.Wallet{SfCoins: 10000})
	p := f.product(t, models.VirtualProduct{Price: decimal.NewFromInt(100), MaxPurchases: intPtr(1)})
	ctx := context.Background()

	_, err := f.svc.Purchase(ctx, Request{UserID: userID, ProductID: p.ID})
	require.NoError(t, err)

	_, err = f.svc.Purchase(ctx, Request{UserID: userID, ProductID: p.ID})
	assert.True(t, errors.Is(err, apperrors.ErrPurchaseLimitReached))
	assert.Equal(t, apperrors.KindLimitReached, apperrors.KindOf(err))
	assert.Equal(t, int64(9900), f.wallet(t, userID).SfCoins)

	other := f.user(t, "friend", models.Wallet{SfCoins: 100})
	_, err = f.svc.Purchase(ctx, Request{UserID: other, ProductID: p.ID})
	assert.NoError(t, err, "the limit is per user")
}

func TestPurchase_ZeroDurationAndCapMeanUnlimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.user(t, "buyer", models.Wallet{SfCoins: 100})
	p := f.product(t, models.VirtualProduct{
		Name:         "Pass",
		Price:        decimal.NewFromInt(10),
		DurationDays: intPtr(0),
		MaxPurchases: intPtr(0),
	})

	for i := 0; i < 3; i++ {
		receipt, err := f.svc.Purchase(ctx, Request{UserID: userID, ProductID: p.ID})
		require.NoError(t, err, "purchase %d", i+1)
		assert.Nil(t, receipt.Purchase.ExpiresAt)
		assert.Nil(t, receipt.Item.ExpiresAt)
		assert.False(t, receipt.Item.ExpiryDue(testNow.Add(365*24*time.Hour)))
	}
	assert.Equal(t, int64(70), f.wallet(t, userID).SfCoins)
}

func TestPurchase_Rejections(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "picky", models.Wallet{SfCoins: 1000})
	ctx := context.Background()

	_, err := f.svc.Purchase(ctx, Request{UserID: userID, ProductID: 999})
	assert.True(t, errors.Is(err, apperrors.ErrProductNotFound))

	ended := testNow.Add(-time.Minute)
	expired := f.product(t, models.VirtualProduct{Price: decimal.NewFromInt(1), AvailableTo: &ended})
	_, err = f.svc.Purchase(ctx, Request{UserID: userID, ProductID: expired.ID})
	assert.True(t, errors.Is(err, apperrors.ErrProductUnavailable))

	gated := f.product(t, models.VirtualProduct{Price: decimal.NewFromInt(1), RequiredAchievements: models.StringSet{"dragon_slayer"}})
	level := 20
	_, err = f.svc.Purchase(ctx, Request{UserID: userID, ProductID: gated.ID, UserLevel: &level})
	assert.True(t, errors.Is(err, apperrors.ErrRequirementsNotMet))
	_, err = f.svc.Purchase(ctx, Request{UserID: userID, ProductID: gated.ID, UserLevel: &level, Achievements: []string{"dragon_slayer"}})
	assert.NoError(t, err)

	orphan := f.product(t, models.VirtualProduct{Price: decimal.NewFromInt(1)})
	_, err = f.svc.Purchase(ctx, Request{UserID: 4242, ProductID: orphan.ID})
	assert.True(t, errors.Is(err, apperrors.ErrWalletNotFound))
}

func TestPurchase_FreeProductSkipsLedger(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "freebie", models.Wallet{})
	p := f.product(t, models.VirtualProduct{Name: "Starter Frame", Price: decimal.Zero})

	receipt, err := f.svc.Purchase(context.Background(), Request{UserID: userID, ProductID: p.ID})
	require.NoError(t, err)
	assert.Nil(t, receipt.Entry)
	assert.Nil(t, receipt.Purchase.TransactionID)
	assert.Nil(t, receipt.Item.ExpiresAt)
}

func TestRefundPurchase(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "regret", models.Wallet{PremiumGems: 350})
	p := f.product(t, models.VirtualProduct{CurrencyType: models.PremiumGems, Price: decimal.NewFromInt(150)})
	ctx := context.Background()

	receipt, err := f.svc.Purchase(ctx, Request{UserID: userID, ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(200), receipt.Wallet.PremiumGems)

	refund, err := f.svc.RefundPurchase(ctx, receipt.Purchase.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseRefunded, refund.Purchase.Status)
	assert.Equal(t, int64(350), refund.Wallet.PremiumGems)
	assert.Equal(t, models.TransactionRefund, refund.Entry.TransactionType)
	assert.Equal(t, models.ReferencePurchase, refund.Entry.ReferenceType)
	assert.Equal(t, receipt.Purchase.ID, *refund.Entry.ReferenceID)

	item, err := f.store.Inventory().GetByID(ctx, receipt.Item.ID)
	require.NoError(t, err)
	assert.False(t, item.IsActive)
	assert.Equal(t, models.ItemInactive, item.State())

	_, err = f.svc.RefundPurchase(ctx, receipt.Purchase.ID, "again")
	assert.True(t, errors.Is(err, apperrors.ErrPurchaseNotRefundable))
	assert.Equal(t, int64(350), f.wallet(t, userID).PremiumGems)

	_, err = f.svc.RefundPurchase(ctx, 777, "")
	assert.True(t, errors.Is(err, apperrors.ErrPurchaseNotFound))

	w := f.wallet(t, userID)
	refunded, err := f.store.Ledger().SumRefundsAgainst(ctx, w.ID, receipt.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), refunded)
}

func TestListPurchases(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "history", models.Wallet{SfCoins: 1000})
	timed := f.product(t, models.VirtualProduct{Name: "Day Pass", Price: decimal.NewFromInt(10), DurationDays: intPtr(1)})
	forever := f.product(t, models.VirtualProduct{Name: "Crown", Price: decimal.NewFromInt(20)})
	ctx := context.Background()

	_, err := f.svc.Purchase(ctx, Request{UserID: userID, ProductID: timed.ID})
	require.NoError(t, err)
	_, err = f.svc.Purchase(ctx, Request{UserID: userID, ProductID: forever.ID})
	require.NoError(t, err)

	later := NewService(f.store, nil, nil, func() time.Time { return testNow.Add(48 * time.Hour) })
	records, err := later.ListPurchases(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	active := map[string]bool{}
	for _, r := range records {
		require.NotNil(t, r.Product)
		active[r.Product.Name] = r.IsActive
	}
	assert.False(t, active["Day Pass"])
	assert.True(t, active["Crown"])
}

type failingInventoryStore struct {
	repositories.Store
}

func (s failingInventoryStore) Inventory() repositories.InventoryRepository {
	return failingInventory{s.Store.Inventory()}
}

func (s failingInventoryStore) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return fn(failingInventoryStore{tx})
	})
}

type failingInventory struct {
	repositories.InventoryRepository
}

func (failingInventory) Create(context.Context, *models.UserInventory) error {
	return errors.New("inventory table unavailable")
}
