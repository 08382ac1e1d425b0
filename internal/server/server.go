package server

import (
	"context"
	"net/http"
	"strings"

	"wfmarket/checker/internal/catalog"
	"wfmarket/checker/internal/domain"
	"wfmarket/checker/internal/session"
	"wfmarket/checker/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Searcher is what the HTTP handlers and the websocket sessions need from the service layer
type Searcher interface {
	session.Searcher
	SearchText(ctx context.Context, text string) *domain.Resolution
}

type Handler struct {
	searcher Searcher
	store    state.StateManager
	opts     session.Options
	upgrader websocket.Upgrader
}

type offersResponse struct {
	*domain.Resolution
	Related []domain.CatalogItem `json:"related"`
}

func NewHandler(searcher Searcher, store state.StateManager, opts session.Options) *Handler {
	return &Handler{
		searcher: searcher,
		store:    store,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// NewRouter builds the gin engine with CORS, health, REST and websocket routes
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", h.Session)

	api := r.Group("/api/v1")
	{
		api.GET("/suggestions", h.Suggestions)
		api.GET("/search", h.Search)
		api.GET("/items/:slug/offers", h.Offers)

		clients := api.Group("/clients/:client")
		{
			clients.GET("/recent", h.GetRecent)
			clients.DELETE("/recent", h.ClearRecent)
			clients.GET("/theme", h.GetTheme)
			clients.PUT("/theme", h.SetTheme)
		}
	}

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debugf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

func (h *Handler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, h.searcher.Suggest(c.Query("q")))
}

func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	c.JSON(http.StatusOK, h.searcher.SearchText(c.Request.Context(), q))
}

// Offers resolves a slug. The optional name parameter overrides the display name.
func (h *Handler) Offers(c *gin.Context) {
	item := catalog.ItemFromSlug(c.Param("slug"))
	if name := c.Query("name"); name != "" {
		item.ItemName = name
	}
	display := catalog.TitleCase(item.DisplayName())

	c.JSON(http.StatusOK, offersResponse{
		Resolution: h.searcher.Resolve(c.Request.Context(), item.URLName, display),
		Related:    h.searcher.Related(item),
	})
}

func (h *Handler) GetRecent(c *gin.Context) {
	recent, err := h.store.GetRecent(c.Request.Context(), c.Param("client"))
	if err != nil {
		log.Errorf("❌ Failed to read recent searches: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read recent searches"})
		return
	}

	c.JSON(http.StatusOK, recent)
}

func (h *Handler) ClearRecent(c *gin.Context) {
	if err := h.store.SetRecent(c.Request.Context(), c.Param("client"), []string{}); err != nil {
		log.Errorf("❌ Failed to clear recent searches: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear recent searches"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetTheme(c *gin.Context) {
	theme, err := h.store.GetTheme(c.Request.Context(), c.Param("client"))
	if err != nil {
		log.Errorf("❌ Failed to read theme: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read theme"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *Handler) SetTheme(c *gin.Context) {
	var body struct {
		Theme string `json:"theme" binding:"required,oneof=light dark"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	theme := domain.ParseTheme(body.Theme)
	if err := h.store.SetTheme(c.Request.Context(), c.Param("client"), theme); err != nil {
		log.Errorf("❌ Failed to store theme: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store theme"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
