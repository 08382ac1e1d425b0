package state

import (
	"context"
	"sync"

	"wfmarket/checker/internal/domain"
)

type memoryStateManager struct {
	mu     sync.RWMutex
	recent map[string][]string
	themes map[string]domain.Theme
}

// NewMemoryStateManager keeps state in process memory, used when redis is disabled
func NewMemoryStateManager() StateManager {
	return &memoryStateManager{
		recent: make(map[string][]string),
		themes: make(map[string]domain.Theme),
	}
}

func (s *memoryStateManager) GetRecent(_ context.Context, clientID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.recent[clientID]...), nil
}

func (s *memoryStateManager) SetRecent(_ context.Context, clientID string, recent []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent[clientID] = append([]string{}, recent...)
	return nil
}

func (s *memoryStateManager) GetTheme(_ context.Context, clientID string) (domain.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if theme, ok := s.themes[clientID]; ok {
		return theme, nil
	}
	return domain.ThemeLight, nil
}

func (s *memoryStateManager) SetTheme(_ context.Context, clientID string, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.themes[clientID] = theme
	return nil
}
