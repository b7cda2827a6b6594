// Package repositories provides data access layer implementations.
// All reads and writes of one business operation go through a single Store,
// which is either bound to the connection pool or to an open transaction.
package repositories

import (
	"context"
	"time"

	"sfstore/internal/models"

	"gorm.io/gorm"
)

// Store is the unit of work handed to every engine operation.
type Store interface {
	Users() UserRepository
	Wallets() WalletRepository
	Ledger() LedgerRepository
	EventTokens() EventTokenRepository
	Products() ProductRepository
	Purchases() PurchaseRepository
	Inventory() InventoryRepository

	// ExecuteInTransaction runs fn against a Store bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	// GetByUserIDForUpdate locks the wallet row until the transaction ends.
	GetByUserIDForUpdate(ctx context.Context, userID uint) (*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error
	// ResetDailyEarnings zeroes the daily tracker of every wallet last reset before cutoff.
	ResetDailyEarnings(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type LedgerRepository interface {
	Append(ctx context.Context, entry *models.WalletTransaction) error
	GetByID(ctx context.Context, id uint) (*models.WalletTransaction, error)
	ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.WalletTransaction, int64, error)
	// ListChronological returns every entry of a wallet in insertion order.
	ListChronological(ctx context.Context, walletID uint) ([]models.WalletTransaction, error)
	// SumRefundsAgainst totals the refunds recorded against a debit entry,
	// directly or through the purchase it paid for.
	SumRefundsAgainst(ctx context.Context, walletID, transactionID uint) (int64, error)
}

type EventTokenRepository interface {
	GetForUpdate(ctx context.Context, userID uint, eventID string) (*models.EventTokenBalance, error)
	// CreateIfAbsent inserts balance unless a row for the same user and event exists.
	CreateIfAbsent(ctx context.Context, balance *models.EventTokenBalance) error
	Update(ctx context.Context, balance *models.EventTokenBalance) error
	ListByUser(ctx context.Context, userID uint) ([]models.EventTokenBalance, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.VirtualProduct) error
	GetByID(ctx context.Context, id uint) (*models.VirtualProduct, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.VirtualProduct, error)
	ListActive(ctx context.Context) ([]models.VirtualProduct, error)
	ListByType(ctx context.Context, productType string) ([]models.VirtualProduct, error)
	// DecrementStock takes one unit of stock and reports false when none was left.
	DecrementStock(ctx context.Context, id uint) (bool, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.ProductPurchase) error
	Update(ctx context.Context, purchase *models.ProductPurchase) error
	GetByIDForUpdate(ctx context.Context, id uint) (*models.ProductPurchase, error)
	CountByUserAndProduct(ctx context.Context, userID, productID uint, statuses []models.PurchaseStatus) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.ProductPurchase, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, item *models.UserInventory) error
	Update(ctx context.Context, item *models.UserInventory) error
	GetByID(ctx context.Context, id uint) (*models.UserInventory, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.UserInventory, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserInventory, error)
	ListEquipped(ctx context.Context, userID uint) ([]models.UserInventory, error)
	ListByPurchase(ctx context.Context, purchaseID uint) ([]models.UserInventory, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository             { return &userRepository{db: s.db} }
func (s *gormStore) Wallets() WalletRepository         { return &walletRepository{db: s.db} }
func (s *gormStore) Ledger() LedgerRepository          { return &ledgerRepository{db: s.db} }
func (s *gormStore) EventTokens() EventTokenRepository { return &eventTokenRepository{db: s.db} }
func (s *gormStore) Products() ProductRepository       { return &productRepository{db: s.db} }
func (s *gormStore) Purchases() PurchaseRepository     { return &purchaseRepository{db: s.db} }
func (s *gormStore) Inventory() InventoryRepository    { return &inventoryRepository{db: s.db} }

func (s *gormStore) ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
