package handlers

import (
	"sfstore/internal/models"
	"sfstore/internal/services/wallet"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

type earnRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"max=255"`
}

type spendRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"max=255"`
}

type refundRequest struct {
	UserID                 uint   `json:"user_id" validate:"required"`
	Currency               string `json:"currency"`
	Amount                 int64  `json:"amount" validate:"gt=0"`
	Reason                 string `json:"reason" validate:"max=255"`
	ReferenceTransactionID *uint  `json:"reference_transaction_id"`
}

type achievementRequest struct {
	UserID          uint   `json:"user_id" validate:"required"`
	Amount          int64  `json:"amount" validate:"gt=0"`
	AchievementName string `json:"achievement_name" validate:"max=100"`
}

// currencyOrDefault parses a request currency; empty means sf_coins.
func currencyOrDefault(s string) (models.Currency, error) {
	if s == "" {
		return models.SfCoins, nil
	}
	return models.ParseCurrency(s)
}

func mutationResponse(res *wallet.Result) fiber.Map {
	return fiber.Map{
		"wallet":      res.Wallet,
		"transaction": res.Entry,
	}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	w, err := h.walletService.GetWallet(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	page := utils.ParsePage(c, wallet.DefaultHistoryLimit, wallet.DefaultMaxHistory)
	entries, total, err := h.walletService.History(c.UserContext(), userID, page.Size, page.Offset())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, utils.Paged{Items: entries, Page: page.WithTotal(total)})
}

func (h *WalletHandler) Earn(c *fiber.Ctx) error {
	var req earnRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.Description == "" {
		req.Description = "Earned coins"
	}

	res, err := h.walletService.Earn(c.UserContext(), req.UserID, req.Amount, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, mutationResponse(res))
}

func (h *WalletHandler) Spend(c *fiber.Ctx) error {
	var req spendRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	currency, err := currencyOrDefault(req.Currency)
	if err != nil {
		return respondError(c, err)
	}
	if req.Description == "" {
		req.Description = "Spent coins"
	}

	res, err := h.walletService.Spend(c.UserContext(), req.UserID, currency, req.Amount, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, mutationResponse(res))
}

func (h *WalletHandler) Refund(c *fiber.Ctx) error {
	var req refundRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	currency, err := currencyOrDefault(req.Currency)
	if err != nil {
		return respondError(c, err)
	}

	res, err := h.walletService.Refund(c.UserContext(), wallet.RefundRequest{
		UserID:               req.UserID,
		Currency:             currency,
		Amount:               req.Amount,
		Reason:               req.Reason,
		AgainstTransactionID: req.ReferenceTransactionID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, mutationResponse(res))
}

func (h *WalletHandler) AwardAchievement(c *fiber.Ctx) error {
	var req achievementRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	name := req.AchievementName
	if name == "" {
		name = "Achievement"
	}

	res, err := h.walletService.AwardBonus(c.UserContext(), req.UserID, req.Amount, "Achievement bonus: "+name)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, mutationResponse(res))
}

// ResetDaily starts a new earning day for the wallet. It only acts when the
// tracker was last reset before today (UTC) and reports "reset": false
// otherwise, so it never changes more than the next earn would. Coins earned
// earlier today keep counting against the cap.
func (h *WalletHandler) ResetDaily(c *fiber.Ctx) error {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	w, reset, err := h.walletService.ResetDailyTracker(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"reset":          reset,
		"daily_earnings": w.DailyEarnings,
		"last_reset":     w.LastEarningReset,
	})
}
