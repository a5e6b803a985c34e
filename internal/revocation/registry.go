// Package revocation tracks bearer tokens that were logged out before their
// natural expiry. Entries live in a single Redis set that is cleared as a
// whole by the Sweeper; individual entries carry no expiry of their own.
package revocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis set holding revoked tokens.
const DefaultKey = "blacklist"

var (
	// ErrUnavailable is returned by every call on a registry that has no
	// connected store. Callers must not read it as "not revoked".
	ErrUnavailable = errors.New("revocation store not connected")
	// ErrAlreadyRevoked reports a token that is already in the registry.
	ErrAlreadyRevoked = errors.New("token already revoked")
)

// Registry is the Redis-backed revoked-token set.
type Registry struct {
	client *redis.Client
	key    string
}

// NewRegistry wraps a connected client. A nil client yields a registry in the
// not-connected state.
func NewRegistry(client *redis.Client) *Registry {
	return &Registry{client: client, key: DefaultKey}
}

// Connected reports whether the registry has a backing store.
func (r *Registry) Connected() bool {
	return r != nil && r.client != nil
}

// Add records token as revoked. added is false when the token was already
// present; the check and the insert are a single SADD.
func (r *Registry) Add(ctx context.Context, token string) (added bool, err error) {
	if !r.Connected() {
		return false, ErrUnavailable
	}
	n, err := r.client.SAdd(ctx, r.key, token).Result()
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return n == 1, nil
}

// Contains reports whether token has been revoked since the last sweep.
func (r *Registry) Contains(ctx context.Context, token string) (bool, error) {
	if !r.Connected() {
		return false, ErrUnavailable
	}
	ok, err := r.client.SIsMember(ctx, r.key, token).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return ok, nil
}

// Sweep drops every revocation at once. A token revoked before the sweep and
// still inside its signed expiry window is accepted again afterwards.
func (r *Registry) Sweep(ctx context.Context) error {
	if !r.Connected() {
		return ErrUnavailable
	}
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("reset revoked tokens: %w", err)
	}
	return nil
}

// Ping checks the backing store for health reporting.
func (r *Registry) Ping(ctx context.Context) error {
	if !r.Connected() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}
