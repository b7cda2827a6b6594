package user

import (
	"context"
	"errors"
	"testing"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/models"
	"sfstore/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) Service {
	t.Helper()
	store, _ := repotest.NewStore(t)
	return NewService(store, Config{DefaultDailyLimit: 750, BcryptCost: bcrypt.MinCost})
}

func TestSignupCreatesUserAndWallet(t *testing.T) {
	svc := newService(t)

	user, wallet, err := svc.Signup(context.Background(), SignupInput{
		Username: "  demo_player ",
		Email:    "Demo@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, "demo_player", user.Username)
	assert.Equal(t, "demo@example.com", user.Email)
	assert.True(t, user.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))

	assert.Equal(t, user.ID, wallet.UserID)
	assert.Equal(t, int64(750), wallet.DailyEarningLimit)
	for _, c := range []models.Currency{models.SfCoins, models.PremiumGems, models.EventTokens} {
		balance, err := wallet.Balance(c)
		require.NoError(t, err)
		assert.Zero(t, balance)
	}
}

func TestSignupRejectsDuplicates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, SignupInput{Username: "alice", Email: "other@example.com"})
	assert.True(t, errors.Is(err, apperrors.ErrUserExists))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, _, err = svc.Signup(ctx, SignupInput{Username: "alice2", Email: "ALICE@example.com"})
	assert.True(t, errors.Is(err, apperrors.ErrUserExists))
}

func TestSignupValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Email: "x@example.com"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidUser))

	_, _, err = svc.Signup(ctx, SignupInput{Username: "bob", Email: "not-an-email"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidUser))
}

func TestDeactivate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, SignupInput{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)

	deactivated, err := svc.Deactivate(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = svc.Deactivate(ctx, 999)
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
}

func TestListUsers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"ann", "ben", "cid"} {
		_, _, err := svc.Signup(ctx, SignupInput{Username: name, Email: name + "@example.com"})
		require.NoError(t, err)
	}
	deactivated, err := svc.Deactivate(ctx, 2)
	require.NoError(t, err)
	require.False(t, deactivated.IsActive)

	users, total, err := svc.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 3, "inactive accounts are listed too")
	assert.False(t, users[1].IsActive)

	users, _, err = svc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "cid", users[0].Username)
}
