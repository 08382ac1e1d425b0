package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"wfmarket/checker/internal/catalog"
	"wfmarket/checker/internal/client"
	"wfmarket/checker/internal/config"
	"wfmarket/checker/internal/proxy"
	"wfmarket/checker/internal/repository"
	"wfmarket/checker/internal/server"
	"wfmarket/checker/internal/service"
	"wfmarket/checker/internal/session"
	"wfmarket/checker/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.MarketClient
	Catalog      *catalog.Cache
	Repository   repository.SearchRepository
	StateManager state.StateManager

	Service *service.Service
	Server  *http.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// ConfigureLogging applies the log level and format from configuration
func ConfigureLogging(cfg config.LogConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("⚠️ Unknown log level %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// NewRelaySupplier builds the relay supplier, probing relays first when configured to
func NewRelaySupplier(ctx context.Context, cfg config.MarketConfig) proxy.RelaySupplier {
	if cfg.ValidateRelays && len(cfg.Relays) > 0 {
		return proxy.NewValidatedRelaySupplier(ctx, cfg.Relays, cfg.BaseURL+"/items")
	}
	return proxy.NewRelaySupplier(cfg.Relays)
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	relays := NewRelaySupplier(ctx, cfg.Market)
	container.Client = client.NewMarketClient(cfg.Market, relays)

	container.Catalog = catalog.NewCache(cfg.Catalog.Source)
	container.Catalog.Load(ctx)

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db

		searchRepo := repository.NewSearchRepository(db)
		if err := searchRepo.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to prepare search log: %w", err)
		}
		container.Repository = searchRepo
		log.Info("✅ Search log enabled")
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.StateManager = state.NewRedisStateManager(rdb, cfg.Redis.KeyPrefix)
	} else {
		container.StateManager = state.NewMemoryStateManager()
	}

	container.Service = service.NewService(
		container.Repository,
		container.Client,
		container.Catalog,
		catalog.NewFilter(cfg.Catalog.Locale),
		cfg.Market.AssetBase,
		cfg.Session.OfferLimit,
	)

	gin.SetMode(cfg.Server.Mode)
	handler := server.NewHandler(container.Service, container.StateManager, session.Options{
		Debounce:    cfg.Session.Debounce(),
		RecentLimit: cfg.Session.RecentLimit,
	})
	container.Server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: server.NewRouter(handler),
	}

	return container, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down gracefully
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
