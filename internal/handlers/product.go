package handlers

import (
	"time"

	"sfstore/internal/services/catalog"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalog catalog.Service
}

func NewProductHandler(catalogService catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: catalogService}
}

type createProductRequest struct {
	Name                 string          `json:"name" validate:"required,max=100"`
	Description          string          `json:"description"`
	ProductType          string          `json:"product_type" validate:"required,max=50"`
	CurrencyType         string          `json:"currency_type" validate:"required"`
	Price                decimal.Decimal `json:"price"`
	DurationDays         *int            `json:"duration_days" validate:"omitempty,gte=0"`
	Consumable           bool            `json:"consumable"`
	MaxPurchases         *int            `json:"max_purchases" validate:"omitempty,gte=0"`
	StockQuantity        *int            `json:"stock_quantity" validate:"omitempty,gte=0"`
	MinUserLevel         int             `json:"min_user_level" validate:"gte=0"`
	RequiredAchievements []string        `json:"required_achievements"`
	IsActive             *bool           `json:"is_active"`
	AvailableFrom        *time.Time      `json:"available_from"`
	AvailableTo          *time.Time      `json:"available_to"`
	IconURL              string          `json:"icon_url" validate:"omitempty,url,max=255"`
	PreviewURL           string          `json:"preview_url" validate:"omitempty,url,max=255"`
}

// List returns the products on sale now, optionally narrowed by ?type=.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var (
		products interface{}
		err      error
	)
	if productType := c.Query("type"); productType != "" {
		products, err = h.catalog.ListByType(c.UserContext(), productType)
	} else {
		products, err = h.catalog.ListActiveProducts(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"products": products})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid product id")
	}

	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"product": product})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), catalog.CreateProductInput{
		Name:                 req.Name,
		Description:          req.Description,
		ProductType:          req.ProductType,
		Currency:             req.CurrencyType,
		Price:                req.Price,
		DurationDays:         req.DurationDays,
		Consumable:           req.Consumable,
		MaxPurchases:         req.MaxPurchases,
		StockQuantity:        req.StockQuantity,
		MinUserLevel:         req.MinUserLevel,
		RequiredAchievements: req.RequiredAchievements,
		IsActive:             req.IsActive,
		AvailableFrom:        req.AvailableFrom,
		AvailableTo:          req.AvailableTo,
		IconURL:              req.IconURL,
		PreviewURL:           req.PreviewURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, fiber.Map{"product": product})
}
