package handlers

import (
	"sfstore/internal/services/purchase"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	purchases purchase.Service
}

func NewPurchaseHandler(purchases purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

type purchaseRequest struct {
	UserID       uint     `json:"user_id" validate:"required"`
	UserLevel    *int     `json:"user_level" validate:"omitempty,gte=0"`
	Achievements []string `json:"achievements"`
}

type refundPurchaseRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

func (h *PurchaseHandler) Purchase(c *fiber.Ctx) error {
	productID, ok := idParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid product id")
	}
	var req purchaseRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	receipt, err := h.purchases.Purchase(c.UserContext(), purchase.Request{
		UserID:       req.UserID,
		ProductID:    productID,
		UserLevel:    req.UserLevel,
		Achievements: req.Achievements,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, receipt)
}

func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	records, err := h.purchases.ListPurchases(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"purchases": records})
}

func (h *PurchaseHandler) Refund(c *fiber.Ctx) error {
	purchaseID, ok := idParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid purchase id")
	}
	var req refundPurchaseRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
	}

	receipt, err := h.purchases.RefundPurchase(c.UserContext(), purchaseID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, receipt)
}
