// Package inventory runs the lifecycle of owned items: equipping, using up
// consumables and lazy expiry.
//
// Predicates such as IsValid never write. Expiry is applied by Expire, which
// the service calls and persists whenever it loads an item.
package inventory

import (
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
)

// IsValid reports whether the item can still be equipped or used at now.
func IsValid(item *models.UserInventory, now time.Time) bool {
	return CheckUsable(item, now) == nil
}

// CheckUsable explains why an item cannot be used at now.
func CheckUsable(item *models.UserInventory, now time.Time) error {
	switch {
	case item.IsConsumed:
		return apperrors.ErrItemConsumed
	case item.Expired || item.ExpiryDue(now):
		return apperrors.ErrItemExpired
	case !item.IsActive:
		return apperrors.ErrItemInactive
	}
	return nil
}

// Expire moves an item whose expires_at has passed into the expired state.
// It reports whether the item changed and needs saving.
func Expire(item *models.UserInventory, now time.Time) bool {
	if !item.ExpiryDue(now) {
		return false
	}
	item.Expired = true
	item.IsActive = false
	item.IsEquipped = false
	return true
}

func Equip(item *models.UserInventory, now time.Time) error {
	if err := CheckUsable(item, now); err != nil {
		return err
	}
	item.IsEquipped = true
	return nil
}

func Unequip(item *models.UserInventory) {
	item.IsEquipped = false
}

// Consume spends amount uses of a consumable item. Uses come from
// remaining_uses when it is tracked and from quantity otherwise. An item with
// nothing left becomes consumed.
func Consume(item *models.UserInventory, product *models.VirtualProduct, amount int, now time.Time) error {
	if err := CheckUsable(item, now); err != nil {
		return err
	}
	if !product.Consumable {
		return apperrors.ErrItemNotConsumable.Withf("%s is not consumable", product.Name)
	}
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}

	left := &item.Quantity
	if item.RemainingUses != nil {
		left = item.RemainingUses
	}
	if amount > *left {
		return apperrors.ErrNotEnoughUses.Withf("only %d uses left", *left)
	}
	*left -= amount

	if *left == 0 {
		item.IsConsumed = true
		item.IsActive = false
		item.IsEquipped = false
	}
	return nil
}
