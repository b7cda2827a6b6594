// Command admin_seed prepares a development database: it creates the admin
// account, a demo player with a funded wallet and the sample catalog, then
// prints a bearer token for the admin routes.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sfstore/internal/config"
	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"
	"sfstore/internal/services/catalog"
	"sfstore/internal/services/user"
	"sfstore/internal/services/wallet"
	"sfstore/internal/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func intPtr(v int) *int { return &v }

var sampleProducts = []catalog.CreateProductInput{
	{
		Name:        "Premium Sword Skin",
		Description: "A legendary sword skin with particle effects",
		ProductType: "cosmetic",
		Currency:    "premium_gems",
		Price:       decimal.NewFromInt(150),
		IconURL:     "/assets/sword_skin.png",
	},
	{
		Name:         "XP Booster",
		Description:  "Double XP for 24 hours",
		ProductType:  "booster",
		Currency:     "sf_coins",
		Price:        decimal.NewFromInt(500),
		DurationDays: intPtr(1),
		IconURL:      "/assets/xp_booster.png",
	},
	{
		Name:        "Health Potion",
		Description: "Restores 100 HP",
		ProductType: "consumable",
		Currency:    "sf_coins",
		Price:       decimal.NewFromInt(50),
		Consumable:  true,
		IconURL:     "/assets/health_potion.png",
	},
	{
		Name:         "Premium Membership",
		Description:  "30 days of premium benefits",
		ProductType:  "subscription",
		Currency:     "premium_gems",
		Price:        decimal.NewFromInt(500),
		DurationDays: intPtr(30),
		MaxPurchases: intPtr(1),
		IconURL:      "/assets/premium.png",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetupLogging(cfg.AppLogLevel)

	db, err := repositories.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.WithError(err).Warn("Failed to close database connection")
		}
	}()
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	store := repositories.NewStore(db)
	users := user.NewService(store, user.Config{DefaultDailyLimit: cfg.WalletDefaultDailyLimit})
	wallets := wallet.NewService(store, nil, wallet.Config{DefaultDailyLimit: cfg.WalletDefaultDailyLimit}, nil)

	admin, _, err := ensureUser(ctx, store, users, config.GetEnv("ADMIN_USERNAME", "admin"), config.GetEnv("ADMIN_EMAIL", "admin@example.com"))
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	demo, created, err := ensureUser(ctx, store, users, "testuser", "test@example.com")
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	if created {
		if err := fundDemoWallet(ctx, wallets, demo.ID); err != nil {
			log.Fatalf("Failed to fund demo wallet: %v", err)
		}
		log.WithField("user_id", demo.ID).Info("Demo user created")
	}

	if err := seedCatalog(ctx, store, catalog.NewService(store, nil)); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	ttl := time.Duration(config.GetIntEnv("ADMIN_TOKEN_TTL_HOURS", 24)) * time.Hour
	token, err := utils.GenerateToken(admin.ID, models.RoleAdmin, cfg.Secret(), ttl)
	if err != nil {
		log.Fatalf("Failed to sign admin token: %v", err)
	}
	fmt.Printf("Admin token (valid %s):\n%s\n", ttl, token)
}

func ensureUser(ctx context.Context, store repositories.Store, users user.Service, username, email string) (*models.User, bool, error) {
	u, _, err := users.Signup(ctx, user.SignupInput{Username: username, Email: email})
	if err == nil {
		return u, true, nil
	}
	if !errors.Is(err, apperrors.ErrUserExists) {
		return nil, false, err
	}
	u, err = store.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, false, fmt.Errorf("user %q exists under another username or email: %w", username, err)
	}
	return u, false, nil
}

// fundDemoWallet brings a fresh wallet to 12450 sf_coins (15000 earned, 2550
// spent, 450 of them today), 350 premium_gems and 25 event_tokens, every
// change going through the ledger.
func fundDemoWallet(ctx context.Context, wallets wallet.Service, userID uint) error {
	steps := []func() (*wallet.Result, error){
		func() (*wallet.Result, error) {
			return wallets.Grant(ctx, userID, models.SfCoins, 14550, "Demo starting balance")
		},
		func() (*wallet.Result, error) { return wallets.Earn(ctx, userID, 450, "Demo quests") },
		func() (*wallet.Result, error) {
			return wallets.Spend(ctx, userID, models.SfCoins, 2550, "Demo purchases")
		},
		func() (*wallet.Result, error) {
			return wallets.Grant(ctx, userID, models.PremiumGems, 350, "Demo gems")
		},
		func() (*wallet.Result, error) {
			return wallets.Grant(ctx, userID, models.EventTokens, 25, "Demo event tokens")
		},
	}
	for _, step := range steps {
		if _, err := step(); err != nil {
			return err
		}
	}
	return nil
}

func seedCatalog(ctx context.Context, store repositories.Store, products catalog.Service) error {
	existing, err := store.Products().ListActive(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.WithField("products", len(existing)).Info("Catalog already seeded")
		return nil
	}
	for _, in := range sampleProducts {
		if _, err := products.CreateProduct(ctx, in); err != nil {
			return fmt.Errorf("%s: %w", in.Name, err)
		}
	}
	log.WithField("products", len(sampleProducts)).Info("Sample catalog created")
	return nil
}
