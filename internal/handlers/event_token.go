package handlers

import (
	"time"

	"sfstore/internal/services/eventtoken"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type EventTokenHandler struct {
	eventTokens eventtoken.Service
	now         func() time.Time
}

func NewEventTokenHandler(eventTokens eventtoken.Service) *EventTokenHandler {
	return &EventTokenHandler{
		eventTokens: eventTokens,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type addTokensRequest struct {
	UserID    uint       `json:"user_id" validate:"required"`
	EventID   string     `json:"event_id" validate:"required,max=100"`
	Amount    int64      `json:"amount" validate:"gt=0"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type spendTokensRequest struct {
	UserID  uint   `json:"user_id" validate:"required"`
	EventID string `json:"event_id" validate:"required,max=100"`
	Amount  int64  `json:"amount" validate:"gt=0"`
}

func (h *EventTokenHandler) List(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	balances, err := h.eventTokens.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	now := h.now()
	events := make([]fiber.Map, 0, len(balances))
	for i := range balances {
		b := &balances[i]
		events = append(events, fiber.Map{
			"event_id":     b.EventID,
			"balance":      b.Balance,
			"earned_total": b.EarnedTotal,
			"spent_total":  b.SpentTotal,
			"is_expired":   eventtoken.IsExpired(b, now),
			"expires_at":   b.ExpiresAt,
		})
	}
	return utils.Success(c, fiber.Map{"user_id": userID, "events": events})
}

func (h *EventTokenHandler) Add(c *fiber.Ctx) error {
	var req addTokensRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	balance, err := h.eventTokens.AddTokens(c.UserContext(), eventtoken.AddRequest{
		UserID:    req.UserID,
		EventID:   req.EventID,
		Amount:    req.Amount,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"balance": balance})
}

func (h *EventTokenHandler) Spend(c *fiber.Ctx) error {
	var req spendTokensRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	balance, err := h.eventTokens.SpendTokens(c.UserContext(), req.UserID, req.EventID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"balance": balance})
}
