package handlers

import (
	"sfstore/internal/services/user"
	"sfstore/internal/services/wallet"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AdminHandler serves the operations reserved for admin tokens.
type AdminHandler struct {
	walletService wallet.Service
	users         user.Service
}

func NewAdminHandler(walletService wallet.Service, users user.Service) *AdminHandler {
	return &AdminHandler{
		walletService: walletService,
		users:         users,
	}
}

type grantRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"max=255"`
}

func (h *AdminHandler) Grant(c *fiber.Ctx) error {
	var req grantRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	currency, err := currencyOrDefault(req.Currency)
	if err != nil {
		return respondError(c, err)
	}
	if req.Description == "" {
		req.Description = "Admin grant"
	}

	res, err := h.walletService.Grant(c.UserContext(), req.UserID, currency, req.Amount, req.Description)
	if err != nil {
		return respondError(c, err)
	}

	if claims, ok := utils.ClaimsFrom(c); ok {
		log.WithFields(log.Fields{
			"admin_id": claims.UserID,
			"user_id":  req.UserID,
			"currency": currency.String(),
			"amount":   req.Amount,
		}).Info("admin grant issued")
	}
	return utils.Success(c, mutationResponse(res))
}

func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	report, err := h.walletService.Reconcile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"consistent": report.Consistent(),
		"report":     report,
	})
}

func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	u, err := h.users.Deactivate(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"user": u})
}
