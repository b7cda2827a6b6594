// Package purchase buys catalog products with wallet currency. The product
// lock, the wallet debit, the purchase record, the inventory grant and the
// stock decrement commit together or not at all.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"
	"sfstore/internal/services/catalog"
	"sfstore/internal/services/wallet"

	log "github.com/sirupsen/logrus"
)

const (
	opPurchase = "purchase"
	opRefund   = "refund_purchase"
)

type service struct {
	store   repositories.Store
	cache   WalletCache
	metrics MetricsCollector
	now     func() time.Time
}

func NewService(store repositories.Store, cache WalletCache, metrics MetricsCollector, clock func() time.Time) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{store: store, cache: cache, metrics: metrics, now: clock}
}

func (s *service) Purchase(ctx context.Context, req Request) (*Receipt, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opPurchase, time.Since(start)) }()

	fields := log.Fields{
		"operation":  opPurchase,
		"user_id":    req.UserID,
		"product_id": req.ProductID,
	}

	var (
		receipt Receipt
		product *models.VirtualProduct
	)
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		now := s.now()

		p, err := tx.Products().GetByIDForUpdate(ctx, req.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrProductNotFound
		}
		if err != nil {
			return err
		}
		product = p
		if err := catalog.CheckAvailable(p, now); err != nil {
			return err
		}
		if req.UserLevel != nil && !catalog.MeetsRequirements(p, *req.UserLevel, req.Achievements) {
			return apperrors.ErrRequirementsNotMet.Withf(
				"product %q requires level %d and achievements %v", p.Name, p.MinUserLevel, []string(p.RequiredAchievements))
		}

		w, err := wallet.LockWallet(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		fields["wallet_id"] = w.ID

		if limit, ok := catalog.PurchaseCap(p); ok {
			count, err := tx.Purchases().CountByUserAndProduct(ctx, req.UserID, p.ID, models.CountedPurchaseStatuses)
			if err != nil {
				return err
			}
			if count >= int64(limit) {
				return apperrors.ErrPurchaseLimitReached.Withf(
					"product %q can be bought at most %d times", p.Name, limit)
			}
		}

		price, currency, err := catalog.Price(p)
		if err != nil {
			return err
		}
		fields["currency"] = currency.String()
		fields["amount"] = price

		var txID *uint
		if price > 0 {
			entry, err := wallet.Apply(ctx, tx, w, wallet.Mutation{
				Type:          models.TransactionPurchase,
				Currency:      currency,
				Amount:        price,
				Description:   fmt.Sprintf("Purchase: %s", p.Name),
				ReferenceType: models.ReferenceProduct,
				ReferenceID:   &p.ID,
			}, now)
			if err != nil {
				return err
			}
			receipt.Entry = entry
			txID = &entry.ID
		}

		var expiresAt *time.Time
		if days, ok := catalog.Lifetime(p); ok {
			t := now.AddDate(0, 0, days)
			expiresAt = &t
		}

		purchase := &models.ProductPurchase{
			UserID:        req.UserID,
			ProductID:     p.ID,
			CurrencyType:  currency,
			AmountPaid:    price,
			Status:        models.PurchaseCompleted,
			PurchasedAt:   now,
			ExpiresAt:     expiresAt,
			TransactionID: txID,
		}
		if err := tx.Purchases().Create(ctx, purchase); err != nil {
			return err
		}

		item := &models.UserInventory{
			UserID:     req.UserID,
			ProductID:  p.ID,
			PurchaseID: &purchase.ID,
			Quantity:   1,
			AcquiredAt: now,
			ExpiresAt:  expiresAt,
			IsActive:   true,
		}
		if err := tx.Inventory().Create(ctx, item); err != nil {
			return err
		}

		if p.StockQuantity != nil {
			ok, err := tx.Products().DecrementStock(ctx, p.ID)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.ErrOutOfStock.Withf("product %q is out of stock", p.Name)
			}
			left := *p.StockQuantity - 1
			p.StockQuantity = &left
		}

		purchase.IsDelivered = true
		purchase.DeliveredAt = &now
		if err := tx.Purchases().Update(ctx, purchase); err != nil {
			return err
		}

		purchase.Product = p
		item.Product = p
		receipt.Purchase = purchase
		receipt.Item = item
		receipt.Wallet = w
		return nil
	})
	if err != nil {
		return nil, s.fail(opPurchase, fields, err)
	}

	s.invalidate(ctx, req.UserID)
	s.metrics.RecordPurchase(product.ProductType, receipt.Purchase.CurrencyType.String(), string(receipt.Purchase.Status))
	if receipt.Entry != nil {
		s.metrics.RecordTransaction(string(receipt.Entry.TransactionType), receipt.Entry.CurrencyType.String(), receipt.Entry.Amount)
	}
	log.WithFields(fields).WithField("purchase_id", receipt.Purchase.ID).Info("product purchased")
	return &receipt, nil
}

// RefundPurchase returns the price of a completed purchase to the buyer and
// withdraws the items it granted.
func (s *service) RefundPurchase(ctx context.Context, purchaseID uint, reason string) (*RefundReceipt, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opRefund, time.Since(start)) }()

	fields := log.Fields{"operation": opRefund, "purchase_id": purchaseID}
	if reason == "" {
		reason = "Purchase refund"
	}

	var (
		receipt     RefundReceipt
		productType string
	)
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		now := s.now()

		p, err := tx.Purchases().GetByIDForUpdate(ctx, purchaseID)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrPurchaseNotFound
		}
		if err != nil {
			return err
		}
		fields["user_id"] = p.UserID
		if p.Status != models.PurchaseCompleted {
			return apperrors.ErrPurchaseNotRefundable.Withf("purchase %d is %s", p.ID, p.Status)
		}

		product, err := tx.Products().GetByID(ctx, p.ProductID)
		if err != nil {
			return err
		}
		productType = product.ProductType

		w, err := wallet.LockWallet(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		fields["wallet_id"] = w.ID

		if p.AmountPaid > 0 {
			entry, err := wallet.ApplyRefund(ctx, tx, w, wallet.RefundRequest{
				UserID:               p.UserID,
				Currency:             p.CurrencyType,
				Amount:               p.AmountPaid,
				Reason:               reason,
				AgainstTransactionID: p.TransactionID,
				ReferenceType:        models.ReferencePurchase,
				ReferenceID:          &p.ID,
			}, now)
			if err != nil {
				return err
			}
			receipt.Entry = entry
		}

		p.Status = models.PurchaseRefunded
		if err := tx.Purchases().Update(ctx, p); err != nil {
			return err
		}

		items, err := tx.Inventory().ListByPurchase(ctx, p.ID)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].IsEquipped = false
			items[i].IsActive = false
			if err := tx.Inventory().Update(ctx, &items[i]); err != nil {
				return err
			}
		}

		receipt.Purchase = p
		receipt.Wallet = w
		return nil
	})
	if err != nil {
		return nil, s.fail(opRefund, fields, err)
	}

	s.invalidate(ctx, receipt.Purchase.UserID)
	s.metrics.RecordPurchase(productType, receipt.Purchase.CurrencyType.String(), string(models.PurchaseRefunded))
	if receipt.Entry != nil {
		s.metrics.RecordTransaction(string(receipt.Entry.TransactionType), receipt.Entry.CurrencyType.String(), receipt.Entry.Amount)
	}
	log.WithFields(fields).Info("purchase refunded")
	return &receipt, nil
}

// ListPurchases returns a user's purchases, newest first.
func (s *service) ListPurchases(ctx context.Context, userID uint) ([]Record, error) {
	purchases, err := s.store.Purchases().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	now := s.now()
	records := make([]Record, len(purchases))
	for i := range purchases {
		records[i] = Record{ProductPurchase: purchases[i], IsActive: purchases[i].IsActiveAt(now)}
	}
	return records, nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("wallet cache invalidation failed")
	}
}

func (s *service) fail(op string, fields log.Fields, err error) error {
	if de, ok := apperrors.As(err); ok && de.Kind != apperrors.KindInternal {
		s.metrics.RecordError(op, de.Code)
		log.WithFields(fields).WithField("code", de.Code).Debug("purchase rejected")
		return err
	}
	s.metrics.RecordError(op, apperrors.ErrInternal.Code)
	log.WithFields(fields).WithError(err).Error("purchase failed")
	return apperrors.Internal(err)
}
