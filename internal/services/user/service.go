// Package user registers players. Every user gets exactly one wallet, created
// in the same transaction as the account.
package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type SignupInput struct {
	Username string
	Email    string
	// Password is optional; only its bcrypt hash is stored.
	Password string
}

type Service interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, *models.Wallet, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	Deactivate(ctx context.Context, id uint) (*models.User, error)
}

type Config struct {
	DefaultDailyLimit int64
	BcryptCost        int
}

type service struct {
	store  repositories.Store
	config Config
}

func NewService(store repositories.Store, config Config) Service {
	if store == nil {
		panic("store is required")
	}
	if config.DefaultDailyLimit <= 0 {
		config.DefaultDailyLimit = models.DefaultDailyEarningLimit
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &service{store: store, config: config}
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*models.User, *models.Wallet, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" {
		return nil, nil, apperrors.ErrInvalidUser
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, apperrors.ErrInvalidUser.Withf("%q is not a valid email address", email)
	}

	user := &models.User{Username: username, Email: email, IsActive: true}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.config.BcryptCost)
		if err != nil {
			return nil, nil, apperrors.ErrInvalidUser.Withf("password cannot be used: %v", err)
		}
		user.PasswordHash = string(hash)
	}

	var wallet *models.Wallet
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		exists, err := tx.Users().ExistsByUsernameOrEmail(ctx, username, email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrUserExists
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		wallet = &models.Wallet{UserID: user.ID, DailyEarningLimit: s.config.DefaultDailyLimit}
		return tx.Wallets().Create(ctx, wallet)
	})
	switch {
	case err == nil:
	case repositories.IsUniqueViolation(err):
		// lost a race with a concurrent signup
		return nil, nil, apperrors.ErrUserExists
	case errors.Is(err, apperrors.ErrUserExists):
		return nil, nil, err
	default:
		log.WithError(err).WithField("username", username).Error("signup failed")
		return nil, nil, apperrors.Internal(err)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "wallet_id": wallet.ID}).Info("user signed up")
	return user, wallet, nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// ListUsers pages through every account, active or not. limit is clamped to
// [1, MaxListLimit].
func (s *service) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := s.store.Users().List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return users, total, nil
}

// Deactivate switches the account off. The user and wallet rows stay.
func (s *service) Deactivate(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return user, nil
	}
	user.IsActive = false
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}
