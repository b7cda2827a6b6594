package inventory

import (
	"context"
	"errors"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"

	log "github.com/sirupsen/logrus"
)

type Service interface {
	ListInventory(ctx context.Context, userID uint) ([]models.UserInventory, error)
	ListEquipped(ctx context.Context, userID uint) ([]models.UserInventory, error)
	GetItem(ctx context.Context, userID, itemID uint) (*models.UserInventory, error)
	Equip(ctx context.Context, userID, itemID uint) (*models.UserInventory, error)
	Unequip(ctx context.Context, userID, itemID uint) (*models.UserInventory, error)
	UseConsumable(ctx context.Context, userID, itemID uint, amount int) (*models.UserInventory, error)
}

type MetricsCollector interface {
	RecordItemTransition(state string)
	RecordError(operation, code string)
}

type noopMetrics struct{}

func (noopMetrics) RecordItemTransition(string) {}
func (noopMetrics) RecordError(string, string)  {}

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

// ListInventory returns every item the user owns, expiring overdue ones first.
func (s *service) ListInventory(ctx context.Context, userID uint) ([]models.UserInventory, error) {
	var items []models.UserInventory
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		if items, err = tx.Inventory().ListByUser(ctx, userID); err != nil {
			return err
		}
		return s.expireAll(ctx, tx, items)
	})
	if err != nil {
		return nil, s.fail("list_inventory", userID, 0, err)
	}
	return items, nil
}

// ListEquipped returns the items the user has equipped and that are still valid.
func (s *service) ListEquipped(ctx context.Context, userID uint) ([]models.UserInventory, error) {
	var equipped []models.UserInventory
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		items, err := tx.Inventory().ListEquipped(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.expireAll(ctx, tx, items); err != nil {
			return err
		}
		equipped = make([]models.UserInventory, 0, len(items))
		for _, item := range items {
			if item.IsEquipped {
				equipped = append(equipped, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("list_equipped", userID, 0, err)
	}
	return equipped, nil
}

func (s *service) GetItem(ctx context.Context, userID, itemID uint) (*models.UserInventory, error) {
	var item *models.UserInventory
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		i, err := tx.Inventory().GetByID(ctx, itemID)
		if errors.Is(err, repositories.ErrNotFound) || (err == nil && i.UserID != userID) {
			return apperrors.ErrItemNotFound
		}
		if err != nil {
			return err
		}
		item = i
		if !Expire(i, s.now()) {
			return nil
		}
		s.metrics.RecordItemTransition(string(models.ItemExpired))
		return tx.Inventory().Update(ctx, i)
	})
	if err != nil {
		return nil, s.fail("get_item", userID, itemID, err)
	}
	return item, nil
}

func (s *service) Equip(ctx context.Context, userID, itemID uint) (*models.UserInventory, error) {
	return s.transition(ctx, "equip", userID, itemID, func(_ repositories.Store, item *models.UserInventory, now time.Time) error {
		return Equip(item, now)
	})
}

func (s *service) Unequip(ctx context.Context, userID, itemID uint) (*models.UserInventory, error) {
	return s.transition(ctx, "unequip", userID, itemID, func(_ repositories.Store, item *models.UserInventory, _ time.Time) error {
		Unequip(item)
		return nil
	})
}

func (s *service) UseConsumable(ctx context.Context, userID, itemID uint, amount int) (*models.UserInventory, error) {
	return s.transition(ctx, "use_consumable", userID, itemID, func(tx repositories.Store, item *models.UserInventory, now time.Time) error {
		product, err := tx.Products().GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		item.Product = product
		return Consume(item, product, amount, now)
	})
}

type transitionFunc func(tx repositories.Store, item *models.UserInventory, now time.Time) error

// transition locks an item and applies fn to it. An overdue item is marked
// expired and saved even though fn is then refused, so the expiry outlives
// the failed call.
func (s *service) transition(ctx context.Context, op string, userID, itemID uint, fn transitionFunc) (*models.UserInventory, error) {
	var (
		item    *models.UserInventory
		verdict error
	)
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		now := s.now()
		i, err := tx.Inventory().GetByIDForUpdate(ctx, itemID)
		if errors.Is(err, repositories.ErrNotFound) || (err == nil && i.UserID != userID) {
			return apperrors.ErrItemNotFound
		}
		if err != nil {
			return err
		}
		item = i

		if Expire(i, now) {
			if err := tx.Inventory().Update(ctx, i); err != nil {
				return err
			}
			s.metrics.RecordItemTransition(string(models.ItemExpired))
			verdict = apperrors.ErrItemExpired
			return nil
		}

		before := i.State()
		if err := fn(tx, i, now); err != nil {
			return err
		}
		if err := tx.Inventory().Update(ctx, i); err != nil {
			return err
		}
		if after := i.State(); after != before {
			s.metrics.RecordItemTransition(string(after))
		}
		return nil
	})
	if err == nil {
		err = verdict
	}
	if err != nil {
		return nil, s.fail(op, userID, itemID, err)
	}

	log.WithFields(log.Fields{
		"operation": op,
		"user_id":   userID,
		"item_id":   itemID,
		"state":     item.State(),
	}).Debug("inventory item updated")
	return item, nil
}

func (s *service) expireAll(ctx context.Context, tx repositories.Store, items []models.UserInventory) error {
	now := s.now()
	for i := range items {
		if !Expire(&items[i], now) {
			continue
		}
		if err := tx.Inventory().Update(ctx, &items[i]); err != nil {
			return err
		}
		s.metrics.RecordItemTransition(string(models.ItemExpired))
	}
	return nil
}

func (s *service) fail(op string, userID, itemID uint, err error) error {
	if de, ok := apperrors.As(err); ok && de.Kind != apperrors.KindInternal {
		s.metrics.RecordError(op, de.Code)
		return err
	}
	s.metrics.RecordError(op, apperrors.ErrInternal.Code)
	log.WithFields(log.Fields{
		"operation": op,
		"user_id":   userID,
		"item_id":   itemID,
	}).WithError(err).Error("inventory operation failed")
	return apperrors.Internal(err)
}
