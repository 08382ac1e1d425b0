package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"wfmarket/checker/internal/domain"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Cache holds the item catalog. It is filled once by Load and only read afterwards.
type Cache struct {
	source string
	items  []domain.CatalogItem
}

func NewCache(source string) *Cache {
	return &Cache{source: source}
}

// NewStaticCache builds an already loaded cache
func NewStaticCache(items []domain.CatalogItem) *Cache {
	return &Cache{items: items}
}

// Load reads the catalog asset. Failures are logged and leave the catalog empty.
func (c *Cache) Load(ctx context.Context) []domain.CatalogItem {
	items, err := c.read(ctx)
	if err != nil {
		log.Warnf("⚠️ Failed to load item catalog from %s, suggestions disabled: %v", c.source, err)
		items = []domain.CatalogItem{}
	}

	c.items = items
	log.Infof("📦 Loaded %d catalog items", len(items))
	return items
}

func (c *Cache) Items() []domain.CatalogItem {
	return c.items
}

func (c *Cache) read(ctx context.Context) ([]domain.CatalogItem, error) {
	if c.source == "" {
		return nil, fmt.Errorf("no catalog source configured")
	}

	var raw []byte
	if strings.HasPrefix(c.source, "http://") || strings.HasPrefix(c.source, "https://") {
		client := resty.New().SetTimeout(30 * time.Second)
		defer client.Close()

		resp, err := client.R().
			SetContext(ctx).
			Get(c.source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
		}
		raw = []byte(resp.String())
	} else {
		data, err := os.ReadFile(c.source)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		raw = data
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return items, nil
}

// Save writes items as the two-space indented JSON asset Load expects
func Save(path string, items []domain.CatalogItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	return nil
}
