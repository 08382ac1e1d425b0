package state

import (
	"context"
	"encoding/json"
	"fmt"

	"wfmarket/checker/internal/domain"

	"github.com/redis/go-redis/v9"
)

// StateManager persists the per-client settings a browser would keep in local storage
type StateManager interface {
	GetRecent(ctx context.Context, clientID string) ([]string, error)
	SetRecent(ctx context.Context, clientID string, recent []string) error
	GetTheme(ctx context.Context, clientID string) (domain.Theme, error)
	SetTheme(ctx context.Context, clientID string, theme domain.Theme) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client, keyPrefix string) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (s *redisStateManager) recentKey(clientID string) string {
	return s.keyPrefix + "recent:" + clientID
}

func (s *redisStateManager) themeKey(clientID string) string {
	return s.keyPrefix + "theme:" + clientID
}

func (s *redisStateManager) GetRecent(ctx context.Context, clientID string) ([]string, error) {
	val, err := s.redisClient.Get(ctx, s.recentKey(clientID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []string{}, nil // Nothing searched yet
		}
		return nil, fmt.Errorf("failed to get recent searches for client %s: %w", clientID, err)
	}

	var recent []string
	if err := json.Unmarshal([]byte(val), &recent); err != nil {
		return nil, fmt.Errorf("failed to parse recent searches for client %s: %w", clientID, err)
	}

	return recent, nil
}

func (s *redisStateManager) SetRecent(ctx context.Context, clientID string, recent []string) error {
	if recent == nil {
		recent = []string{}
	}
	data, err := json.Marshal(recent)
	if err != nil {
		return fmt.Errorf("failed to encode recent searches: %w", err)
	}

	err = s.redisClient.Set(ctx, s.recentKey(clientID), data, 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set recent searches for client %s: %w", clientID, err)
	}
	return nil
}

func (s *redisStateManager) GetTheme(ctx context.Context, clientID string) (domain.Theme, error) {
	val, err := s.redisClient.Get(ctx, s.themeKey(clientID)).Result()
	if err != nil {
		if err == redis.Nil {
			return domain.ThemeLight, nil
		}
		return domain.ThemeLight, fmt.Errorf("failed to get theme for client %s: %w", clientID, err)
	}

	return domain.ParseTheme(val), nil
}

func (s *redisStateManager) SetTheme(ctx context.Context, clientID string, theme domain.Theme) error {
	err := s.redisClient.Set(ctx, s.themeKey(clientID), string(theme), 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set theme for client %s: %w", clientID, err)
	}
	return nil
}
