// Package catalog answers whether a product can be bought right now and by
// whom, and stores the product catalog.
package catalog

import (
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
)

// CheckAvailable explains why a product cannot be purchased at now, or
// returns nil when it can.
func CheckAvailable(p *models.VirtualProduct, now time.Time) error {
	if !p.IsActive {
		return apperrors.ErrProductUnavailable.Withf("product %q is not active", p.Name)
	}
	if p.AvailableFrom != nil && now.Before(*p.AvailableFrom) {
		return apperrors.ErrProductUnavailable.Withf("product %q is not on sale yet", p.Name)
	}
	if p.AvailableTo != nil && now.After(*p.AvailableTo) {
		return apperrors.ErrProductUnavailable.Withf("product %q is no longer on sale", p.Name)
	}
	if p.StockQuantity != nil && *p.StockQuantity <= 0 {
		return apperrors.ErrOutOfStock.Withf("product %q is out of stock", p.Name)
	}
	return nil
}

func IsAvailable(p *models.VirtualProduct, now time.Time) bool {
	return CheckAvailable(p, now) == nil
}

// inWindow ignores stock; listings show sold-out products.
func inWindow(p *models.VirtualProduct, now time.Time) bool {
	if p.AvailableFrom != nil && now.Before(*p.AvailableFrom) {
		return false
	}
	return p.AvailableTo == nil || !now.After(*p.AvailableTo)
}

// MeetsRequirements reports whether a user of the given level holding the
// given achievements may buy p.
func MeetsRequirements(p *models.VirtualProduct, userLevel int, achievements []string) bool {
	return userLevel >= p.MinUserLevel && p.RequiredAchievements.SubsetOf(achievements)
}

// Price is the integer amount charged for p in its currency.
func Price(p *models.VirtualProduct) (int64, models.Currency, error) {
	if !p.CurrencyType.Valid() {
		return 0, models.CurrencyUnknown, apperrors.ErrUnsupportedCurrency.Withf(
			"product %q is priced in an unsupported currency", p.Name)
	}
	return p.Price.Floor().IntPart(), p.CurrencyType, nil
}

// Lifetime returns how many days an item bought from p stays valid. Zero and
// unset both mean the item never expires.
func Lifetime(p *models.VirtualProduct) (int, bool) {
	if p.DurationDays == nil || *p.DurationDays <= 0 {
		return 0, false
	}
	return *p.DurationDays, true
}

// PurchaseCap returns how many times one user may buy p. Zero and unset both
// mean unlimited.
func PurchaseCap(p *models.VirtualProduct) (int, bool) {
	if p.MaxPurchases == nil || *p.MaxPurchases <= 0 {
		return 0, false
	}
	return *p.MaxPurchases, true
}
