package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/aichef/internal/client/models"
)

// Cache keys. Both are opaque to the Repository; values are JSON.
const (
	KeyUser  = "ai-chef-user"
	KeyToken = "access-token"
)

// ErrCorrupt marks a cache entry that exists but cannot be decoded.
// Callers should discard the entry and continue without it.
var ErrCorrupt = errors.New("corrupt cache entry")

// Store is the typed view of the cache: the serialized user record snapshot
// and the current bearer credential.
type Store struct {
	repo Repository
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// LoadUser returns the cached user record, or (nil, nil) if none is cached.
// A present-but-undecodable entry returns an error wrapping ErrCorrupt.
func (s *Store) LoadUser(ctx context.Context) (*models.User, error) {
	data, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &u, nil
}

// SaveUser overwrites the cached user record snapshot.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to serialize user record: %w", err)
	}
	return s.repo.Set(ctx, KeyUser, data)
}

func (s *Store) DeleteUser(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyUser)
}

// LoadToken returns the cached bearer credential, or "" if none is cached.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	data, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, KeyToken, []byte(token))
}

func (s *Store) DeleteToken(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyToken)
}
