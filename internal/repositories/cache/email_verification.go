package cache

import (
	"context"
	"time"
)

func (s *CacheService) emailVerificationKey(token string) string {
	return s.GenerateKey("email", "verify", token)
}

// SetEmailVerification stores a verification token for a user with the
// given TTL.
func (s *CacheService) SetEmailVerification(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.SetWithTTL(ctx, s.emailVerificationKey(token), userID, ttl)
}

// GetEmailVerification returns the user a token belongs to, or (0, nil)
// when the token is unknown or expired.
func (s *CacheService) GetEmailVerification(ctx context.Context, token string) (uint, error) {
	var userID uint
	found, err := s.Get(ctx, s.emailVerificationKey(token), &userID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return userID, nil
}

// DeleteEmailVerification removes a consumed token.
func (s *CacheService) DeleteEmailVerification(ctx context.Context, token string) error {
	return s.Delete(ctx, s.emailVerificationKey(token))
}
