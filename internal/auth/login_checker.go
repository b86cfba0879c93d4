package auth

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// LoginChecker resolves a session token to the owning user id.
type LoginChecker struct {
	redisClient *redis.Client
}

func NewLoginChecker(redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		redisClient: redisClient,
	}
}

// UserFromToken returns the user id for a live session token, or
// ErrNotLoggedIn when the token is unknown or expired.
func (lc *LoginChecker) UserFromToken(ctx context.Context, token string) (string, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := lc.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}

	userID := cmd.Val()
	if userID == "" {
		return "", ErrNotLoggedIn
	}

	return userID, nil
}
