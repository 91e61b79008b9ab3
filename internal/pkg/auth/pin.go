// internal/pkg/auth/pin.go
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Cached PIN hashes outlive a shift but not a staff change.
const pinCacheTTL = 12 * time.Hour

// PinCache stores bcrypt hashes of recently used PINs in Redis so a user
// can re-unlock the terminal without a backend round trip. Only the hash is
// stored; the backend stays the authority at login time.
type PinCache struct {
	client *redis.Client
}

// NewPinCache creates a PIN cache on the given Redis client.
func NewPinCache(client *redis.Client) *PinCache {
	return &PinCache{client: client}
}

func (p *PinCache) key(username string) string {
	return fmt.Sprintf("pos:pin:%s", username)
}

// Store hashes and caches the PIN after a successful backend login.
func (p *PinCache) Store(ctx context.Context, username, pin string) error {
	if len(pin) < 4 {
		return fmt.Errorf("pin must be at least 4 digits")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}
	return p.client.Set(ctx, p.key(username), hash, pinCacheTTL).Err()
}

// Verify checks a PIN against the cached hash. An absent cache entry is an
// error; the caller falls back to a backend login.
func (p *PinCache) Verify(ctx context.Context, username, pin string) error {
	hash, err := p.client.Get(ctx, p.key(username)).Result()
	if err == redis.Nil {
		return fmt.Errorf("no cached pin for %s", username)
	} else if err != nil {
		return fmt.Errorf("failed to read cached pin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return fmt.Errorf("pin mismatch")
	}
	return nil
}

// Invalidate drops the cached hash, used on logout and failed re-auth.
func (p *PinCache) Invalidate(ctx context.Context, username string) error {
	return p.client.Del(ctx, p.key(username)).Err()
}
