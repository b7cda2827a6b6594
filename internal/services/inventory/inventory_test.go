package inventory

import (
	"errors"
	"testing"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 7, 14, 18, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func TestConsumeLastUseThenEquipFails(t *testing.T) {
	potion := &models.VirtualProduct{Name: "Potion", Consumable: true}
	item := &models.UserInventory{Quantity: 1, RemainingUses: intPtr(1), IsActive: true}

	require.NoError(t, Consume(item, potion, 1, testNow))
	assert.True(t, item.IsConsumed)
	assert.False(t, item.IsActive)
	assert.Equal(t, 0, *item.RemainingUses)
	assert.False(t, IsValid(item, testNow))

	err := Equip(item, testNow)
	assert.True(t, errors.Is(err, apperrors.ErrItemConsumed))
	assert.False(t, item.IsEquipped)
}

func TestConsumeFallsBackToQuantity(t *testing.T) {
	potion := &models.VirtualProduct{Name: "Potion", Consumable: true}
	item := &models.UserInventory{Quantity: 3, IsActive: true, IsEquipped: true}

	require.NoError(t, Consume(item, potion, 2, testNow))
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.IsConsumed)
	assert.True(t, item.IsEquipped)

	assert.True(t, errors.Is(Consume(item, potion, 2, testNow), apperrors.ErrNotEnoughUses))
	assert.True(t, errors.Is(Consume(item, potion, 0, testNow), apperrors.ErrInvalidAmount))

	require.NoError(t, Consume(item, potion, 1, testNow))
	assert.Equal(t, models.ItemConsumed, item.State())
	assert.False(t, item.IsEquipped)
}

func TestConsumeRejectsNonConsumable(t *testing.T) {
	skin := &models.VirtualProduct{Name: "Skin"}
	item := &models.UserInventory{Quantity: 1, IsActive: true}

	err := Consume(item, skin, 1, testNow)
	assert.True(t, errors.Is(err, apperrors.ErrItemNotConsumable))
	assert.Equal(t, 1, item.Quantity)
}

func TestExpire(t *testing.T) {
	past := testNow.Add(-time.Second)
	item := &models.UserInventory{Quantity: 1, IsActive: true, IsEquipped: true, ExpiresAt: &past}

	assert.False(t, IsValid(item, testNow))
	assert.False(t, item.Expired, "IsValid does not write")

	assert.True(t, Expire(item, testNow))
	assert.Equal(t, models.ItemExpired, item.State())
	assert.False(t, item.IsEquipped)
	assert.False(t, Expire(item, testNow))

	future := testNow.Add(time.Hour)
	fresh := &models.UserInventory{Quantity: 1, IsActive: true, ExpiresAt: &future}
	assert.False(t, Expire(fresh, testNow))
	require.NoError(t, Equip(fresh, testNow))
	assert.Equal(t, models.ItemActiveEquipped, fresh.State())
	Unequip(fresh)
	assert.Equal(t, models.ItemActiveUnequipped, fresh.State())
}

func TestEquipInactiveItem(t *testing.T) {
	item := &models.UserInventory{Quantity: 1}
	assert.True(t, errors.Is(Equip(item, testNow), apperrors.ErrItemInactive))
}
