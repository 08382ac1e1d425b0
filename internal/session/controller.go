package session

import (
	"context"
	"net/url"
	"strings"
	"time"

	"wfmarket/checker/internal/catalog"
	"wfmarket/checker/internal/domain"
	"wfmarket/checker/internal/state"

	log "github.com/sirupsen/logrus"
)

type Searcher interface {
	Suggest(query string) []domain.CatalogItem
	Related(item domain.CatalogItem) []domain.CatalogItem
	Resolve(ctx context.Context, slug, display string) *domain.Resolution
}

type Options struct {
	ClientID    string
	Debounce    time.Duration
	RecentLimit int
}

// Controller owns one client's input session. All state lives on the goroutine running Run;
// the exported methods only enqueue events for it.
type Controller struct {
	searcher Searcher
	store    state.StateManager
	opts     Options
	listener func(View)

	events chan func()
	done   chan struct{}
	ctx    context.Context

	view      View
	debounce  *Debouncer
	requestID uint64
}

// NewController reads the persisted recent searches and theme for the client
func NewController(ctx context.Context, searcher Searcher, store state.StateManager, opts Options, listener func(View)) *Controller {
	c := &Controller{
		searcher: searcher,
		store:    store,
		opts:     opts,
		listener: listener,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		ctx:      ctx,
		view:     newView(),
		debounce: NewDebouncer(opts.Debounce),
	}

	recent, err := store.GetRecent(ctx, opts.ClientID)
	if err != nil {
		log.Warnf("⚠️ Failed to read recent searches for %s: %v", opts.ClientID, err)
	} else {
		c.view.Recent = recent
	}

	theme, err := store.GetTheme(ctx, opts.ClientID)
	if err != nil {
		log.Warnf("⚠️ Failed to read theme for %s: %v", opts.ClientID, err)
	} else {
		c.view.Theme = theme
	}

	return c
}

// Run processes events until ctx is cancelled
func (c *Controller) Run(ctx context.Context) {
	c.ctx = ctx
	defer close(c.done)
	defer c.debounce.Stop()

	c.publish()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.events:
			fn()
		}
	}
}

func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *Controller) publish() {
	if c.listener != nil {
		c.listener(c.view.snapshot())
	}
}

// Input handles a change of the search box text
func (c *Controller) Input(text string) {
	c.post(func() {
		c.view.Input = text
		c.view.Selected = nil
		c.view.Results = nil
		c.view.History = nil
		c.view.Related = nil
		c.view.Loading = false
		c.view.DeepLink = ""
		c.view.Phase = PhaseTyping
		// the selection is gone, so a pending search must not land anymore
		c.requestID++

		c.debounce.Schedule(func(token uint64) {
			c.post(func() { c.suggest(token, text) })
		})
		c.publish()
	})
}

func (c *Controller) suggest(token uint64, text string) {
	if !c.debounce.Current(token) {
		return
	}

	c.view.Suggestions = c.searcher.Suggest(text)
	c.view.Highlight = -1
	if len(c.view.Suggestions) > 0 {
		c.view.Phase = PhaseSuggesting
	} else {
		c.view.Phase = PhaseIdle
	}
	c.publish()
}

func (c *Controller) Key(key Key) {
	c.post(func() {
		view, cmd := HandleKey(c.view, key)
		c.view = view

		switch cmd {
		case CommandSelect:
			c.selectItem(c.view.Suggestions[c.view.Highlight])
		case CommandSearchText:
			c.searchText()
		}
		c.publish()
	})
}

func (c *Controller) Select(item domain.CatalogItem) {
	c.post(func() {
		c.selectItem(item)
		c.publish()
	})
}

func (c *Controller) SelectRecent(name string) {
	c.post(func() {
		c.selectItem(catalog.ItemFromRecent(name))
		c.publish()
	})
}

// Open selects the item named by a shared link slug
func (c *Controller) Open(slug string) {
	c.post(func() {
		c.selectItem(catalog.ItemFromSlug(slug))
		c.publish()
	})
}

// Search runs a search for the raw input text
func (c *Controller) Search() {
	c.post(func() {
		c.searchText()
		c.publish()
	})
}

func (c *Controller) ClearRecent() {
	c.post(func() {
		c.view.Recent = []string{}
		c.persistRecent()
		c.publish()
	})
}

func (c *Controller) ToggleTheme() {
	c.post(func() {
		c.view.Theme = c.view.Theme.Toggle()
		if err := c.store.SetTheme(c.ctx, c.opts.ClientID, c.view.Theme); err != nil {
			log.Warnf("⚠️ Failed to persist theme for %s: %v", c.opts.ClientID, err)
		}
		c.publish()
	})
}

func (c *Controller) selectItem(item domain.CatalogItem) {
	title := catalog.TitleCase(item.DisplayName())

	c.debounce.Stop()
	c.view.Related = c.searcher.Related(item)
	c.view.Selected = &item
	c.view.Input = title
	c.view.Suggestions = nil
	c.view.Highlight = -1
	c.view.DeepLink = "?t=" + url.QueryEscape(item.URLName)
	c.view.Recent = state.PushRecent(c.view.Recent, title, c.opts.RecentLimit)
	c.persistRecent()

	c.startSearch(item.URLName, title)
}

func (c *Controller) searchText() {
	text := c.view.Input
	if strings.TrimSpace(text) == "" {
		return
	}

	c.debounce.Stop()
	c.view.Suggestions = nil
	c.view.Highlight = -1
	c.startSearch(catalog.SlugFromText(text), text)
}

func (c *Controller) startSearch(slug, display string) {
	c.requestID++
	id := c.requestID
	ctx := c.ctx

	c.view.Phase = PhaseSearching
	c.view.Loading = true
	c.view.Results = nil
	c.view.History = nil

	go func() {
		res := c.searcher.Resolve(ctx, slug, display)
		c.post(func() { c.finishSearch(id, slug, res) })
	}()
}

func (c *Controller) finishSearch(id uint64, slug string, res *domain.Resolution) {
	if id != c.requestID {
		log.Debugf("Dropping stale result for %s (request %d, latest %d)", slug, id, c.requestID)
		return
	}

	c.view.Results = res.Results
	c.view.History = res.History
	c.view.Loading = false
	c.view.Phase = PhaseIdle
	c.publish()
}

func (c *Controller) persistRecent() {
	if err := c.store.SetRecent(c.ctx, c.opts.ClientID, c.view.Recent); err != nil {
		log.Warnf("⚠️ Failed to persist recent searches for %s: %v", c.opts.ClientID, err)
	}
}
