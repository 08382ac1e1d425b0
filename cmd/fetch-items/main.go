package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"wfmarket/checker/internal/catalog"
	"wfmarket/checker/internal/client"
	"wfmarket/checker/internal/config"
	"wfmarket/checker/internal/container"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// fetch-items refreshes the static catalog asset from the marketplace item list
func main() {
	out := flag.String("out", "", "output path, defaults to catalog.source")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	container.ConfigureLogging(cfg.Log)

	path := *out
	if path == "" {
		path = cfg.Catalog.Source
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	marketClient := client.NewMarketClient(cfg.Market, container.NewRelaySupplier(ctx, cfg.Market))
	items, err := marketClient.GetItems(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to fetch catalog: %v", err)
	}

	if err := catalog.Save(path, items); err != nil {
		log.Fatalf("❌ Failed to save catalog: %v", err)
	}

	log.Infof("✅ Saved %d items to %s", len(items), path)
}
