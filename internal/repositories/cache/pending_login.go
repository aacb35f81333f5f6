package cache

import (
	"context"
	"time"
)

// PendingLogin is the second-factor challenge context held between a
// successful credential check and code verification. No tokens exist until
// the challenge is completed.
type PendingLogin struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *CacheService) pendingLoginKey(token string) string {
	return s.GenerateKey("mfa", "pending", token)
}

// SetPendingLogin stores a challenge under its token with the given TTL.
func (s *CacheService) SetPendingLogin(ctx context.Context, token string, p *PendingLogin, ttl time.Duration) error {
	return s.SetWithTTL(ctx, s.pendingLoginKey(token), p, ttl)
}

// GetPendingLogin returns the challenge for a token, or (nil, nil) when the
// token is unknown or expired.
func (s *CacheService) GetPendingLogin(ctx context.Context, token string) (*PendingLogin, error) {
	var p PendingLogin
	found, err := s.Get(ctx, s.pendingLoginKey(token), &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

// DeletePendingLogin removes a challenge, completing or abandoning it.
func (s *CacheService) DeletePendingLogin(ctx context.Context, token string) error {
	return s.Delete(ctx, s.pendingLoginKey(token))
}
