package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"

	"github.com/shopspring/decimal"
)

// CreateProductInput carries an admin's new catalog entry.
type CreateProductInput struct {
	Name                 string
	Description          string
	ProductType          string
	Currency             string
	Price                decimal.Decimal
	DurationDays         *int
	Consumable           bool
	MaxPurchases         *int
	StockQuantity        *int
	MinUserLevel         int
	RequiredAchievements []string
	IsActive             *bool
	AvailableFrom        *time.Time
	AvailableTo          *time.Time
	IconURL              string
	PreviewURL           string
}

type Service interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*models.VirtualProduct, error)
	GetProduct(ctx context.Context, id uint) (*models.VirtualProduct, error)
	ListActiveProducts(ctx context.Context) ([]models.VirtualProduct, error)
	ListByType(ctx context.Context, productType string) ([]models.VirtualProduct, error)
}

type service struct {
	store repositories.Store
	now   func() time.Time
}

func NewService(store repositories.Store, clock func() time.Time) Service {
	if store == nil {
		panic("store is required")
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{store: store, now: clock}
}

func (s *service) CreateProduct(ctx context.Context, in CreateProductInput) (*models.VirtualProduct, error) {
	product, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, apperrors.Internal(err)
	}
	return product, nil
}

func buildProduct(in CreateProductInput) (*models.VirtualProduct, error) {
	name := strings.TrimSpace(in.Name)
	productType := strings.TrimSpace(in.ProductType)
	if name == "" || productType == "" {
		return nil, apperrors.ErrInvalidProduct.Withf("name and product_type are required")
	}
	currency, err := models.ParseCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, apperrors.ErrInvalidProduct.Withf("price must not be negative")
	}
	for field, v := range map[string]*int{
		"duration_days":  in.DurationDays,
		"max_purchases":  in.MaxPurchases,
		"stock_quantity": in.StockQuantity,
	} {
		if v != nil && *v < 0 {
			return nil, apperrors.ErrInvalidProduct.Withf("%s must not be negative", field)
		}
	}
	if in.AvailableFrom != nil && in.AvailableTo != nil && in.AvailableTo.Before(*in.AvailableFrom) {
		return nil, apperrors.ErrInvalidProduct.Withf("available_to is before available_from")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	minLevel := in.MinUserLevel
	if minLevel < 1 {
		minLevel = 1
	}

	return &models.VirtualProduct{
		Name:                 name,
		Description:          in.Description,
		ProductType:          productType,
		CurrencyType:         currency,
		Price:                in.Price,
		DurationDays:         zeroAsUnset(in.DurationDays),
		Consumable:           in.Consumable,
		MaxPurchases:         zeroAsUnset(in.MaxPurchases),
		StockQuantity:        in.StockQuantity,
		MinUserLevel:         minLevel,
		RequiredAchievements: models.StringSet(in.RequiredAchievements),
		IsActive:             active,
		AvailableFrom:        in.AvailableFrom,
		AvailableTo:          in.AvailableTo,
		IconURL:              in.IconURL,
		PreviewURL:           in.PreviewURL,
	}, nil
}

// zeroAsUnset stores 0 as NULL. A zero duration or purchase cap means no
// limit, not an item that expires on purchase or a product nobody can buy.
func zeroAsUnset(v *int) *int {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

func (s *service) GetProduct(ctx context.Context, id uint) (*models.VirtualProduct, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return product, nil
}

// ListActiveProducts returns active products whose sale window contains now.
func (s *service) ListActiveProducts(ctx context.Context) ([]models.VirtualProduct, error) {
	products, err := s.store.Products().ListActive(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.filterWindow(products), nil
}

func (s *service) ListByType(ctx context.Context, productType string) ([]models.VirtualProduct, error) {
	products, err := s.store.Products().ListByType(ctx, productType)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.filterWindow(products), nil
}

func (s *service) filterWindow(products []models.VirtualProduct) []models.VirtualProduct {
	now := s.now()
	out := make([]models.VirtualProduct, 0, len(products))
	for i := range products {
		if inWindow(&products[i], now) {
			out = append(out, products[i])
		}
	}
	return out
}
