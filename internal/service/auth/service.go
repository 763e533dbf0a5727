// Package auth validates refresh-token identity against the cache,
// enforcing a single active refresh token per account.
package auth

import (
	"context"

	myredis "lingua_tutor_server/internal/dao/redis"
)

// Service checks token identity against the cache.
type Service struct {
	cache myredis.CacheService
}

// NewAuthService creates the auth service on top of a cache.
func NewAuthService(cache myredis.CacheService) *Service {
	return &Service{
		cache: cache,
	}
}

// ValidateTokenID reports whether tokenID is the account's current refresh
// token. A later login overwrites the stored id, invalidating older tokens.
func (s *Service) ValidateTokenID(userID, tokenID string) (bool, error) {
	redisKey := "user_token:" + userID
	validTokenID, err := s.cache.Get(context.Background(), redisKey)
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}
