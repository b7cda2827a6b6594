package handlers

import (
	"sfstore/internal/models"
	"sfstore/internal/services/inventory"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	inventory inventory.Service
}

func NewInventoryHandler(inventoryService inventory.Service) *InventoryHandler {
	return &InventoryHandler{inventory: inventoryService}
}

type useItemRequest struct {
	Amount int `json:"amount" validate:"gte=0"`
}

func itemResponse(item *models.UserInventory) fiber.Map {
	return fiber.Map{
		"item":  item,
		"state": item.State(),
	}
}

func (h *InventoryHandler) List(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	items, err := h.inventory.ListInventory(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"items": items})
}

func (h *InventoryHandler) ListEquipped(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	items, err := h.inventory.ListEquipped(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"items": items})
}

func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	userID, itemID, ok := itemParams(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user or item id")
	}

	item, err := h.inventory.GetItem(c.UserContext(), userID, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, itemResponse(item))
}

func (h *InventoryHandler) Equip(c *fiber.Ctx) error {
	userID, itemID, ok := itemParams(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user or item id")
	}

	item, err := h.inventory.Equip(c.UserContext(), userID, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, itemResponse(item))
}

func (h *InventoryHandler) Unequip(c *fiber.Ctx) error {
	userID, itemID, ok := itemParams(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user or item id")
	}

	item, err := h.inventory.Unequip(c.UserContext(), userID, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, itemResponse(item))
}

func (h *InventoryHandler) Use(c *fiber.Ctx) error {
	userID, itemID, ok := itemParams(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user or item id")
	}
	req := useItemRequest{Amount: 1}
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
	}

	item, err := h.inventory.UseConsumable(c.UserContext(), userID, itemID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, itemResponse(item))
}

func itemParams(c *fiber.Ctx) (userID, itemID uint, ok bool) {
	if userID, ok = idParam(c, "user_id"); !ok {
		return 0, 0, false
	}
	itemID, ok = idParam(c, "item_id")
	return userID, itemID, ok
}
