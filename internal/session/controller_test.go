package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"wfmarket/checker/internal/catalog"
	"wfmarket/checker/internal/domain"
	"wfmarket/checker/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionCatalog = []domain.CatalogItem{
	{URLName: "broken_war_blade", ItemName: "Broken_War_Blade"},
	{URLName: "broken_war_hilt", ItemName: "Broken War Hilt"},
	{URLName: "ash_prime_set", ItemName: "Ash Prime Set"},
}

type fakeSearcher struct {
	filter *catalog.Filter

	mu       sync.Mutex
	suggests []string
	resolves []string
	gates    map[string]chan struct{}
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{filter: catalog.NewFilter("en"), gates: map[string]chan struct{}{}}
}

// hold makes Resolve for slug block until release is called
func (f *fakeSearcher) hold(slug string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[slug] = make(chan struct{})
}

func (f *fakeSearcher) release(slug string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.gates[slug])
}

func (f *fakeSearcher) Suggest(query string) []domain.CatalogItem {
	f.mu.Lock()
	f.suggests = append(f.suggests, query)
	f.mu.Unlock()
	return f.filter.Apply(query, sessionCatalog)
}

func (f *fakeSearcher) Related(item domain.CatalogItem) []domain.CatalogItem {
	return catalog.Related(item, sessionCatalog)
}

func (f *fakeSearcher) Resolve(ctx context.Context, slug, display string) *domain.Resolution {
	f.mu.Lock()
	f.resolves = append(f.resolves, slug)
	gate := f.gates[slug]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if slug == "nobody_sells" {
		return domain.NoSellersResolution(display)
	}
	return &domain.Resolution{
		Results: []domain.SearchResult{{Item: display, Price: 40, Seller: slug}},
		History: []domain.ChartPoint{{Time: "t", Avg: 1}},
	}
}

func (f *fakeSearcher) calls() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.suggests...), append([]string{}, f.resolves...)
}

type recorder struct {
	mu    sync.Mutex
	views []View
}

func (r *recorder) listen(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *recorder) last() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return View{}
	}
	return r.views[len(r.views)-1]
}

func startController(t *testing.T, searcher Searcher, store state.StateManager) (*Controller, *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rec := &recorder{}
	c := NewController(ctx, searcher, store, Options{
		ClientID:    "tab",
		Debounce:    30 * time.Millisecond,
		RecentLimit: 5,
	}, rec.listen)
	go c.Run(ctx)
	return c, rec
}

func waitFor(t *testing.T, rec *recorder, cond func(View) bool) View {
	t.Helper()
	require.Eventually(t, func() bool { return cond(rec.last()) }, 2*time.Second, 5*time.Millisecond)
	return rec.last()
}

func TestInputIsDebounced(t *testing.T) {
	searcher := newFakeSearcher()
	c, rec := startController(t, searcher, state.NewMemoryStateManager())

	c.Input("w")
	c.Input("wa")
	c.Input("war")
	c.Input("war bl")

	v := waitFor(t, rec, func(v View) bool { return v.Phase == PhaseSuggesting })
	assert.Equal(t, []domain.CatalogItem{{URLName: "broken_war_blade", ItemName: "Broken_War_Blade"}}, v.Suggestions)
	assert.Equal(t, -1, v.Highlight)

	time.Sleep(60 * time.Millisecond)
	suggests, _ := searcher.calls()
	assert.Equal(t, []string{"war bl"}, suggests)
}

func TestShortInputHasNoSuggestions(t *testing.T) {
	searcher := newFakeSearcher()
	c, rec := startController(t, searcher, state.NewMemoryStateManager())

	c.Input("b")

	require.Eventually(t, func() bool {
		suggests, _ := searcher.calls()
		return len(suggests) == 1
	}, time.Second, 5*time.Millisecond)
	v := waitFor(t, rec, func(v View) bool { return v.Phase == PhaseIdle })
	assert.Empty(t, v.Suggestions)
}

func TestKeyboardSelectionSearchesAndRecords(t *testing.T) {
	searcher := newFakeSearcher()
	store := state.NewMemoryStateManager()
	c, rec := startController(t, searcher, store)

	c.Input("war bl")
	waitFor(t, rec, func(v View) bool { return len(v.Suggestions) == 1 })

	c.Key(KeyDown)
	c.Key(KeyEnter)

	v := waitFor(t, rec, func(v View) bool { return v.Phase == PhaseIdle && len(v.Results) == 1 })
	require.NotNil(t, v.Selected)
	assert.Equal(t, "broken_war_blade", v.Selected.URLName)
	assert.Equal(t, "Broken War Blade", v.Input)
	assert.Empty(t, v.Suggestions)
	assert.False(t, v.Loading)
	assert.Equal(t, "?t=broken_war_blade", v.DeepLink)
	assert.Equal(t, []string{"Broken War Blade"}, v.Recent)
	assert.Equal(t, []domain.CatalogItem{{URLName: "broken_war_hilt", ItemName: "Broken War Hilt"}}, v.Related)
	assert.Len(t, v.History, 1)

	persisted, err := store.GetRecent(context.Background(), "tab")
	require.NoError(t, err)
	assert.Equal(t, []string{"Broken War Blade"}, persisted)
}

func TestEnterWithoutHighlightSearchesRawText(t *testing.T) {
	searcher := newFakeSearcher()
	c, rec := startController(t, searcher, state.NewMemoryStateManager())

	c.Input("ash prime")
	waitFor(t, rec, func(v View) bool { return len(v.Suggestions) == 1 })
	c.Key(KeyEnter)

	v := waitFor(t, rec, func(v View) bool { return len(v.Results) == 1 })
	assert.Equal(t, "ash prime", v.Results[0].Item)
	_, resolves := searcher.calls()
	assert.Equal(t, []string{"ash_prime"}, resolves)
	assert.Empty(t, v.Recent)
}

func TestEscapeClearsSuggestions(t *testing.T) {
	c, rec := startController(t, newFakeSearcher(), state.NewMemoryStateManager())

	c.Input("broken")
	waitFor(t, rec, func(v View) bool { return len(v.Suggestions) == 2 })
	c.Key(KeyEscape)

	v := waitFor(t, rec, func(v View) bool { return len(v.Suggestions) == 0 })
	assert.Equal(t, "broken", v.Input)
}

func TestStaleSearchResultIsDropped(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.hold("ash_prime_set")
	c, rec := startController(t, searcher, state.NewMemoryStateManager())

	c.Open("ash_prime_set")
	waitFor(t, rec, func(v View) bool { return v.Loading })

	c.Select(domain.CatalogItem{URLName: "broken_war_blade", ItemName: "Broken_War_Blade"})
	v := waitFor(t, rec, func(v View) bool { return len(v.Results) == 1 })
	assert.Equal(t, "broken_war_blade", v.Results[0].Seller)

	searcher.release("ash_prime_set")
	time.Sleep(50 * time.Millisecond)

	v = rec.last()
	require.Len(t, v.Results, 1)
	assert.Equal(t, "broken_war_blade", v.Results[0].Seller)
	assert.Equal(t, []string{"Broken War Blade", "Ash Prime Set"}, v.Recent)
}

func TestTypingDropsPendingSearch(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.hold("ash_prime_set")
	c, rec := startController(t, searcher, state.NewMemoryStateManager())

	c.Open("ash_prime_set")
	waitFor(t, rec, func(v View) bool { return v.Loading })

	c.Input("x")
	waitFor(t, rec, func(v View) bool { return v.Input == "x" })
	searcher.release("ash_prime_set")
	time.Sleep(80 * time.Millisecond)

	v := rec.last()
	assert.Empty(t, v.Results)
	assert.Nil(t, v.Selected)
	assert.False(t, v.Loading)
}

func TestNoSellersErrorIsShown(t *testing.T) {
	c, rec := startController(t, newFakeSearcher(), state.NewMemoryStateManager())

	c.Open("nobody_sells")

	v := waitFor(t, rec, func(v View) bool { return len(v.Results) == 1 })
	assert.Equal(t, domain.ErrorKindNoSellers, v.Results[0].ErrorKind)
	assert.Equal(t, `No hay vendedores online para "Nobody Sells".`, v.Results[0].Error)
}

func TestRecentSearchesAreBoundedAndReselectable(t *testing.T) {
	store := state.NewMemoryStateManager()
	require.NoError(t, store.SetRecent(context.Background(), "tab", []string{"Old One"}))
	searcher := newFakeSearcher()
	c, rec := startController(t, searcher, store)

	waitFor(t, rec, func(v View) bool { return len(v.Recent) == 1 })

	for _, slug := range []string{"a_1", "a_2", "a_3", "a_4", "a_5", "a_6"} {
		c.Open(slug)
	}
	v := waitFor(t, rec, func(v View) bool { return len(v.Recent) == 5 && v.Recent[0] == "A 6" })
	assert.Equal(t, []string{"A 6", "A 5", "A 4", "A 3", "A 2"}, v.Recent)

	c.SelectRecent("A 3")
	v = waitFor(t, rec, func(v View) bool { return v.Recent[0] == "A 3" })
	assert.Equal(t, []string{"A 3", "A 6", "A 5", "A 4", "A 2"}, v.Recent)

	require.Eventually(t, func() bool {
		_, resolves := searcher.calls()
		return len(resolves) == 7
	}, time.Second, 5*time.Millisecond)

	c.ClearRecent()
	waitFor(t, rec, func(v View) bool { return len(v.Recent) == 0 })
	persisted, err := store.GetRecent(context.Background(), "tab")
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestToggleThemePersists(t *testing.T) {
	store := state.NewMemoryStateManager()
	c, rec := startController(t, newFakeSearcher(), store)

	c.ToggleTheme()
	waitFor(t, rec, func(v View) bool { return v.Theme == domain.ThemeDark })

	theme, err := store.GetTheme(context.Background(), "tab")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
}

func TestSearchWithBlankInputDoesNothing(t *testing.T) {
	searcher := newFakeSearcher()
	c, rec := startController(t, searcher, state.NewMemoryStateManager())

	c.Search()
	c.ToggleTheme()
	waitFor(t, rec, func(v View) bool { return v.Theme == domain.ThemeDark })

	_, resolves := searcher.calls()
	assert.Empty(t, resolves)
}
