package state

import (
	"context"
	"testing"

	"wfmarket/checker/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStateManager(t *testing.T) (StateManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStateManager(rdb, "wfmarket:"), mr
}

func exerciseStateManager(t *testing.T, s StateManager) {
	ctx := context.Background()

	recent, err := s.GetRecent(ctx, "tab-1")
	require.NoError(t, err)
	assert.Empty(t, recent)

	theme, err := s.GetTheme(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)

	require.NoError(t, s.SetRecent(ctx, "tab-1", []string{"Ash Prime Set", "Broken War Blade"}))
	require.NoError(t, s.SetTheme(ctx, "tab-1", domain.ThemeDark))

	recent, err = s.GetRecent(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ash Prime Set", "Broken War Blade"}, recent)

	theme, err = s.GetTheme(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)

	other, err := s.GetRecent(ctx, "tab-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRedisStateManager(t *testing.T) {
	s, mr := newRedisStateManager(t)
	exerciseStateManager(t, s)

	raw, err := mr.Get("wfmarket:recent:tab-1")
	require.NoError(t, err)
	assert.JSONEq(t, `["Ash Prime Set","Broken War Blade"]`, raw)

	raw, err = mr.Get("wfmarket:theme:tab-1")
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)
}

func TestRedisStateManagerCorruptRecent(t *testing.T) {
	s, mr := newRedisStateManager(t)
	require.NoError(t, mr.Set("wfmarket:recent:tab-1", "{broken"))

	_, err := s.GetRecent(context.Background(), "tab-1")
	assert.ErrorContains(t, err, "failed to parse recent searches")
}

func TestRedisStateManagerUnknownThemeIsLight(t *testing.T) {
	s, mr := newRedisStateManager(t)
	require.NoError(t, mr.Set("wfmarket:theme:tab-1", "sepia"))

	theme, err := s.GetTheme(context.Background(), "tab-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)
}

func TestMemoryStateManager(t *testing.T) {
	exerciseStateManager(t, NewMemoryStateManager())
}
