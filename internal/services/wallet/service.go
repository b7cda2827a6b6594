package wallet

import (
	"context"
	"errors"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"
	"sfstore/internal/services/ledger"

	log "github.com/sirupsen/logrus"
)

type service struct {
	store   repositories.Store
	cache   Cache
	config  Config
	metrics MetricsCollector
}

// NewService creates a new wallet service
func NewService(store repositories.Store, cache Cache, config Config, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if config.DefaultDailyLimit <= 0 {
		config.DefaultDailyLimit = models.DefaultDailyEarningLimit
	}
	if config.MaxHistoryLimit <= 0 {
		config.MaxHistoryLimit = DefaultMaxHistory
	}
	if config.Clock == nil {
		config.Clock = func() time.Time { return time.Now().UTC() }
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) now() time.Time {
	return s.config.Clock()
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if cached, err := s.cache.GetWallet(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("wallet cache read failed")
	} else if cached != nil {
		s.metrics.RecordCacheHit("wallet")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("wallet")

	w, err := s.store.Wallets().GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrWalletNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.cache.CacheWallet(ctx, w); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("wallet cache write failed")
	}
	return w, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint, currency models.Currency) (int64, error) {
	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return w.Balance(currency)
}

func (s *service) History(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > s.config.MaxHistoryLimit {
		limit = s.config.MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	w, err := s.store.Wallets().GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, 0, apperrors.ErrWalletNotFound
	}
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	entries, total, err := s.store.Ledger().ListByWallet(ctx, w.ID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return entries, total, nil
}

// Reconcile checks the ledger against a locked snapshot of the wallet.
func (s *service) Reconcile(ctx context.Context, userID uint) (*ledger.Report, error) {
	var report *ledger.Report
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		w, err := LockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		entries, err := tx.Ledger().ListChronological(ctx, w.ID)
		if err != nil {
			return err
		}
		report = ledger.Reconcile(w, entries)
		return nil
	})
	if err != nil {
		return nil, s.fail(opReconcile, log.Fields{"user_id": userID}, err)
	}

	if !report.Consistent() {
		log.WithFields(log.Fields{
			"operation": opReconcile,
			"user_id":   userID,
			"wallet_id": report.WalletID,
			"problems":  len(report.Problems),
		}).Warn("ledger does not reconcile")
	}
	return report, nil
}

func (s *service) Earn(ctx context.Context, userID uint, amount int64, description string) (*Result, error) {
	return s.apply(ctx, opEarn, userID, Mutation{
		Type:        models.TransactionEarn,
		Currency:    models.SfCoins,
		Amount:      amount,
		Description: orDefault(description, "Earned SF Coins"),
	})
}

func (s *service) Spend(ctx context.Context, userID uint, currency models.Currency, amount int64, description string) (*Result, error) {
	return s.apply(ctx, opSpend, userID, Mutation{
		Type:        models.TransactionSpend,
		Currency:    currency,
		Amount:      amount,
		Description: orDefault(description, "Spent "+currency.String()),
	})
}

func (s *service) Grant(ctx context.Context, userID uint, currency models.Currency, amount int64, description string) (*Result, error) {
	return s.apply(ctx, opGrant, userID, Mutation{
		Type:        models.TransactionAdminGrant,
		Currency:    currency,
		Amount:      amount,
		Description: orDefault(description, "Admin grant"),
	})
}

func (s *service) AwardBonus(ctx context.Context, userID uint, amount int64, description string) (*Result, error) {
	return s.apply(ctx, opBonus, userID, Mutation{
		Type:        models.TransactionBonus,
		Currency:    models.SfCoins,
		Amount:      amount,
		Description: orDefault(description, "Achievement bonus"),
	})
}

func (s *service) Refund(ctx context.Context, req RefundRequest) (*Result, error) {
	m := Mutation{Type: models.TransactionRefund, Currency: req.Currency, Amount: req.Amount}
	return s.run(ctx, opRefund, req.UserID, m, func(tx repositories.Store, w *models.Wallet, now time.Time) (*models.WalletTransaction, error) {
		return ApplyRefund(ctx, tx, w, req, now)
	})
}

func (s *service) apply(ctx context.Context, op string, userID uint, m Mutation) (*Result, error) {
	return s.run(ctx, op, userID, m, func(tx repositories.Store, w *models.Wallet, now time.Time) (*models.WalletTransaction, error) {
		return Apply(ctx, tx, w, m, now)
	})
}

type applyFunc func(tx repositories.Store, w *models.Wallet, now time.Time) (*models.WalletTransaction, error)

// run locks the wallet, applies fn and commits, then refreshes the cache and
// metrics. Validation that needs no row happens before the transaction opens.
func (s *service) run(ctx context.Context, op string, userID uint, m Mutation, fn applyFunc) (*Result, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(op, time.Since(start)) }()

	fields := log.Fields{
		"operation": op,
		"user_id":   userID,
		"currency":  m.Currency.String(),
		"amount":    m.Amount,
	}
	if m.Amount <= 0 {
		return nil, s.fail(op, fields, apperrors.ErrInvalidAmount)
	}
	if !m.Currency.Valid() {
		return nil, s.fail(op, fields, apperrors.ErrUnsupportedCurrency)
	}

	var result Result
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		w, err := LockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		fields["wallet_id"] = w.ID

		entry, err := fn(tx, w, s.now())
		if err != nil {
			return err
		}
		result = Result{Wallet: w, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, s.fail(op, fields, err)
	}

	s.invalidate(ctx, userID)
	s.metrics.RecordTransaction(string(result.Entry.TransactionType), m.Currency.String(), m.Amount)
	log.WithFields(fields).WithFields(log.Fields{
		"balance_before": result.Entry.BalanceBefore,
		"balance_after":  result.Entry.BalanceAfter,
	}).Debug("wallet mutation applied")
	return &result, nil
}

func (s *service) ResetDailyTracker(ctx context.Context, userID uint) (*models.Wallet, bool, error) {
	var (
		wallet *models.Wallet
		reset  bool
	)
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		w, err := LockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		wallet = w
		if reset = rollDailyWindow(w, s.now()); !reset {
			return nil
		}
		return tx.Wallets().Update(ctx, w)
	})
	if err != nil {
		return nil, false, s.fail(opResetDaily, log.Fields{"user_id": userID}, err)
	}
	if reset {
		s.invalidate(ctx, userID)
	}
	return wallet, reset, nil
}

// ResetAllDailyTrackers resets every wallet whose tracker predates today.
// Cached snapshots keep their old daily_earnings until they expire.
func (s *service) ResetAllDailyTrackers(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := s.store.Wallets().ResetDailyEarnings(ctx, startOfDay(now), now)
	if err != nil {
		return 0, s.fail(opResetDaily, log.Fields{"scope": "all"}, err)
	}
	log.WithFields(log.Fields{"operation": opResetDaily, "wallets": n}).Info("daily earning trackers reset")
	return n, nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("wallet cache invalidation failed")
	}
}

// fail records a failed operation. Business rejections are returned as they
// are; anything else is logged with the attempted mutation and reported as
// internal.
func (s *service) fail(op string, fields log.Fields, err error) error {
	if de, ok := apperrors.As(err); ok && de.Kind != apperrors.KindInternal {
		s.metrics.RecordError(op, de.Code)
		log.WithFields(fields).WithField("code", de.Code).Debug("wallet operation rejected")
		return err
	}
	s.metrics.RecordError(op, apperrors.ErrInternal.Code)
	log.WithFields(fields).WithError(err).Error("wallet operation failed")
	return apperrors.Internal(err)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
