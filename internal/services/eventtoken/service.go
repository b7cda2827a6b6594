package eventtoken

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"

	log "github.com/sirupsen/logrus"
)

type AddRequest struct {
	UserID  uint
	EventID string
	Amount  int64
	// ExpiresAt is only applied when the balance is first created.
	ExpiresAt *time.Time
}

type Service interface {
	List(ctx context.Context, userID uint) ([]models.EventTokenBalance, error)
	AddTokens(ctx context.Context, req AddRequest) (*models.EventTokenBalance, error)
	SpendTokens(ctx context.Context, userID uint, eventID string, amount int64) (*models.EventTokenBalance, error)
}

type MetricsCollector interface {
	RecordEventTokenOperation(operation string)
	RecordError(operation, code string)
}

type noopMetrics struct{}

func (noopMetrics) RecordEventTokenOperation(string) {}
func (noopMetrics) RecordError(string, string)       {}

type service struct {
	store   repositories.Store
	metrics MetricsCollector
	now     func() time.Time
}

func NewService(store repositories.Store, metrics MetricsCollector, clock func() time.Time) Service {
	if store == nil {
		panic("store is required")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{store: store, metrics: metrics, now: clock}
}

func (s *service) List(ctx context.Context, userID uint) ([]models.EventTokenBalance, error) {
	balances, err := s.store.EventTokens().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return balances, nil
}

func (s *service) AddTokens(ctx context.Context, req AddRequest) (*models.EventTokenBalance, error) {
	const op = "add_event_tokens"
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		return nil, s.fail(op, req.UserID, eventID, apperrors.ErrInvalidEvent)
	}

	var balance *models.EventTokenBalance
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		b, err := s.lockOrCreate(ctx, tx, req.UserID, eventID, req.ExpiresAt)
		if err != nil {
			return err
		}
		if err := Add(b, req.Amount, s.now()); err != nil {
			return err
		}
		balance = b
		return tx.EventTokens().Update(ctx, b)
	})
	if err != nil {
		return nil, s.fail(op, req.UserID, eventID, err)
	}

	s.metrics.RecordEventTokenOperation(op)
	return balance, nil
}

func (s *service) SpendTokens(ctx context.Context, userID uint, eventID string, amount int64) (*models.EventTokenBalance, error) {
	const op = "spend_event_tokens"

	var balance *models.EventTokenBalance
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		b, err := tx.EventTokens().GetForUpdate(ctx, userID, eventID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrEventBalanceNotFound
		}
		if err != nil {
			return err
		}
		if err := Spend(b, amount, s.now()); err != nil {
			return err
		}
		balance = b
		return tx.EventTokens().Update(ctx, b)
	})
	if err != nil {
		return nil, s.fail(op, userID, eventID, err)
	}

	s.metrics.RecordEventTokenOperation(op)
	return balance, nil
}

// lockOrCreate returns the locked balance row, creating it on first use.
func (s *service) lockOrCreate(ctx context.Context, tx repositories.Store, userID uint, eventID string, expiresAt *time.Time) (*models.EventTokenBalance, error) {
	b, err := tx.EventTokens().GetForUpdate(ctx, userID, eventID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	w, err := tx.Wallets().GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	fresh := &models.EventTokenBalance{
		UserID:    userID,
		WalletID:  w.ID,
		EventID:   eventID,
		ExpiresAt: expiresAt,
	}
	if err := tx.EventTokens().CreateIfAbsent(ctx, fresh); err != nil {
		return nil, err
	}
	return tx.EventTokens().GetForUpdate(ctx, userID, eventID)
}

func (s *service) fail(op string, userID uint, eventID string, err error) error {
	fields := log.Fields{"operation": op, "user_id": userID, "event_id": eventID}
	if de, ok := apperrors.As(err); ok && de.Kind != apperrors.KindInternal {
		s.metrics.RecordError(op, de.Code)
		return err
	}
	s.metrics.RecordError(op, apperrors.ErrInternal.Code)
	log.WithFields(fields).WithError(err).Error("event token operation failed")
	return apperrors.Internal(err)
}
