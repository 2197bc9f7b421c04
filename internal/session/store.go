// Package session provides Redis-backed cookie session storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eduforums/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the name of the session cookie issued to clients.
const CookieName = "forum_session"

// ErrNotFound is returned when a token has no live session behind it,
// either because it never existed or because it expired from inactivity.
var ErrNotFound = errors.New("session not found or expired")

// Identity is the authenticated identity bound to a session token.
type Identity struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// Store persists sessions in Redis, keyed by an opaque token carried in an
// HttpOnly cookie. Each lookup refreshes the TTL so session lifetime is
// bounded by inactivity rather than by absolute age.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore creates a session store on an existing Redis client.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (s *Store) key(token string) string {
	return s.prefix + token
}

// Create establishes a new session for the identity and returns its token.
func (s *Store) Create(ctx context.Context, id Identity) (string, error) {
	data, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("marshal session identity: %w", err)
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Lookup resolves a token to its identity and slides the expiry forward.
func (s *Store) Lookup(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("lookup session: %w", err)
	}

	var id Identity
	if err := json.Unmarshal([]byte(data), &id); err != nil {
		return Identity{}, fmt.Errorf("unmarshal session identity: %w", err)
	}

	// Sliding inactivity window. Best effort: a failed refresh only means
	// the session expires a little earlier than it otherwise would.
	_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()

	return id, nil
}

// Destroy removes the session for the token. Returns ErrNotFound if there
// was no session to destroy.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotFound
	}
	deleted, err := s.client.Del(ctx, s.key(token)).Result()
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// TTL returns the configured inactivity timeout.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Ping checks if the session backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
