package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"wfmarket/checker/internal/config"
	"wfmarket/checker/internal/domain"
	"wfmarket/checker/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type MarketClient interface {
	GetItems(ctx context.Context) ([]domain.CatalogItem, error)
	GetOrders(ctx context.Context, slug string) ([]domain.Order, error)
	GetItem(ctx context.Context, slug string) (*domain.ItemDetail, error)
}

type marketClient struct {
	rl         ratelimit.Limiter
	config     config.MarketConfig
	baseURL    string
	httpClient *resty.Client
	relays     proxy.RelaySupplier

	// Circuit breaker for 429 responses
	circuitBreakerMutex sync.RWMutex
	rateLimitedUntil    time.Time
	circuitBreakerDelay time.Duration
}

func NewMarketClient(cfg config.MarketConfig, relays proxy.RelaySupplier) MarketClient {
	client := resty.New().
		SetTimeout(cfg.RequestTimeout()).
		SetRetryCount(cfg.MaxRetries).
		SetHeader("Accept", "application/json").
		SetHeader("Platform", cfg.Platform).
		SetHeader("Language", cfg.Language)

	if relays == nil {
		relays = proxy.NewRelaySupplier(nil)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &marketClient{
		rl:                  rl,
		config:              cfg,
		baseURL:             cfg.BaseURL,
		httpClient:          client,
		relays:              relays,
		circuitBreakerDelay: cfg.Cooldown(),
	}
}

func (c *marketClient) GetItems(ctx context.Context) ([]domain.CatalogItem, error) {
	var resp domain.CatalogResponse
	if err := c.fetchJSON(ctx, c.baseURL+"/items", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch item list: %w", err)
	}

	log.Debugf("Fetched %d catalog items", len(resp.Payload.Items))
	return resp.Payload.Items, nil
}

func (c *marketClient) GetOrders(ctx context.Context, slug string) ([]domain.Order, error) {
	endpoint := fmt.Sprintf("%s/items/%s/orders", c.baseURL, url.PathEscape(slug))

	var resp domain.OrdersResponse
	if err := c.fetchJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch orders for %s: %w", slug, err)
	}
	if resp.Payload.Orders == nil {
		return nil, fmt.Errorf("failed to decode orders for %s: payload has no order list", slug)
	}

	log.Debugf("Fetched %d orders for %s", len(resp.Payload.Orders), slug)
	return resp.Payload.Orders, nil
}

func (c *marketClient) GetItem(ctx context.Context, slug string) (*domain.ItemDetail, error) {
	endpoint := fmt.Sprintf("%s/items/%s", c.baseURL, url.PathEscape(slug))

	var resp domain.ItemResponse
	if err := c.fetchJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch item detail for %s: %w", slug, err)
	}

	log.Debugf("Fetched detail for %s with %d set parts and %d history points",
		slug, len(resp.Payload.Item.ItemsInSet), len(resp.Payload.History))
	return &resp.Payload, nil
}

func (c *marketClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.rateLimitedUntil)
	wasTriggered := !c.rateLimitedUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		if !c.rateLimitedUntil.IsZero() && now.After(c.rateLimitedUntil) {
			c.rateLimitedUntil = time.Time{}
			log.Infof("✅ Circuit breaker automatically re-enabled - requests are now allowed")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *marketClient) triggerCircuitBreaker() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.rateLimitedUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Circuit breaker activated! Requests disabled until %v",
		c.rateLimitedUntil.Format("15:04:05"))
}

func (c *marketClient) getRemainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.rateLimitedUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *marketClient) fetchJSON(ctx context.Context, endpoint string, target any) error {
	if c.isCircuitBreakerOpen() {
		remaining := c.getRemainingCircuitBreakerTime()
		log.Debugf("🚫 Request blocked by circuit breaker. Remaining time: %v", remaining.Round(time.Second))
		return fmt.Errorf("%w - requests disabled for %v more", ErrCircuitOpen, remaining.Round(time.Second))
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.relays.Wrap(endpoint))

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		c.triggerCircuitBreaker()
		return fmt.Errorf("rate limited by marketplace: %s", resp.Status())
	}

	if resp.IsError() {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if err := decodePayload(resp.String(), target); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	return nil
}
