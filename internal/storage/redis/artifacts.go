package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"oauthd/internal/domain/models"
	"time"
)

// Redis keys
// -- oauth_state: pending authorization request awaiting consent
// -- oauth_code: authorization code awaiting exchange
const (
	stateKey = "oauth_state"
	codeKey  = "oauth_code"
)

func stateCacheKey(state string) string {
	return fmt.Sprintf("%s:%s", stateKey, state)
}

func codeCacheKey(code string) string {
	return fmt.Sprintf("%s:%s", codeKey, code)
}

// SaveState stores models.AuthorizationState under its state token
func (c *Cache) SaveState(ctx context.Context, st *models.AuthorizationState, ttl time.Duration) error {
	const op = "storage.redis.SaveState"

	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.SetWithTTL(ctx, stateCacheKey(st.State), b, ttl)
}

// ConsumeState atomically takes models.AuthorizationState out of cache
func (c *Cache) ConsumeState(ctx context.Context, state string) (*models.AuthorizationState, error) {
	b, err := c.GetAndDelete(ctx, stateCacheKey(state))
	if err != nil {
		return nil, err
	}
	return decodeState(state, b)
}

// State reads pending models.AuthorizationState leaving it in place
func (c *Cache) State(ctx context.Context, state string) (*models.AuthorizationState, error) {
	b, err := c.Get(ctx, stateCacheKey(state))
	if err != nil {
		return nil, err
	}
	return decodeState(state, b)
}

func decodeState(state string, b []byte) (*models.AuthorizationState, error) {
	const op = "storage.redis.decodeState"

	var st models.AuthorizationState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st.State = state
	return &st, nil
}

// SaveAuthCode stores models.AuthorizationCode under its code
func (c *Cache) SaveAuthCode(ctx context.Context, code *models.AuthorizationCode, ttl time.Duration) error {
	const op = "storage.redis.SaveAuthCode"

	b, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.SetWithTTL(ctx, codeCacheKey(code.Code), b, ttl)
}

// ConsumeAuthCode atomically takes models.AuthorizationCode out of cache
func (c *Cache) ConsumeAuthCode(ctx context.Context, code string) (*models.AuthorizationCode, error) {
	const op = "storage.redis.ConsumeAuthCode"

	b, err := c.GetAndDelete(ctx, codeCacheKey(code))
	if err != nil {
		return nil, err
	}
	var authCode models.AuthorizationCode
	if err = json.Unmarshal(b, &authCode); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	authCode.Code = code
	return &authCode, nil
}

// RemoveAuthCode deletes authorization code
func (c *Cache) RemoveAuthCode(ctx context.Context, code string) error {
	return c.Delete(ctx, codeCacheKey(code))
}
