// Package cache keeps read-only wallet snapshots in Redis. Nothing read from
// here is ever used to decide a balance mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sfstore/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sfstore"

// WalletKey is the key a user's wallet snapshot lives under.
func WalletKey(userID uint) string {
	return fmt.Sprintf("%s:wallet:%d", keyPrefix, userID)
}

type CacheService struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCacheService(client redis.Cmdable, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheService{client: client, ttl: ttl}
}

func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return errors.New("cannot cache nil wallet")
	}
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("encode wallet %d: %w", wallet.UserID, err)
	}
	return s.client.Set(ctx, WalletKey(wallet.UserID), data, s.ttl).Err()
}

// GetWallet returns nil without error on a cache miss. An entry that no
// longer decodes is dropped and reported as a miss.
func (s *CacheService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	key := WalletKey(userID)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet %d: %w", userID, err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		_ = s.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &wallet, nil
}

func (s *CacheService) InvalidateWallet(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, WalletKey(userID)).Err()
}
