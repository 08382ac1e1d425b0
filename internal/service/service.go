package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wfmarket/checker/internal/catalog"
	"wfmarket/checker/internal/client"
	"wfmarket/checker/internal/domain"
	"wfmarket/checker/internal/repository"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

var ErrNoSellers = errors.New("no in-game sellers")

// defaultRecordTimeout bounds how long a search log insert may hold up a result
const defaultRecordTimeout = 2 * time.Second

type Service struct {
	repository repository.SearchRepository
	client     client.MarketClient
	catalog    *catalog.Cache
	filter     *catalog.Filter
	assetBase  string
	offerLimit int

	recordTimeout time.Duration
}

// NewService wires the resolver. repository may be nil when the search log is disabled.
func NewService(
	repository repository.SearchRepository,
	client client.MarketClient,
	cache *catalog.Cache,
	filter *catalog.Filter,
	assetBase string,
	offerLimit int,
) *Service {
	return &Service{
		repository: repository,
		client:     client,
		catalog:    cache,
		filter:     filter,
		assetBase:  assetBase,
		offerLimit: offerLimit,

		recordTimeout: defaultRecordTimeout,
	}
}

func (s *Service) Catalog() []domain.CatalogItem {
	return s.catalog.Items()
}

func (s *Service) Suggest(query string) []domain.CatalogItem {
	return s.filter.Apply(query, s.catalog.Items())
}

func (s *Service) Related(item domain.CatalogItem) []domain.CatalogItem {
	return catalog.Related(item, s.catalog.Items())
}

// SearchText resolves free text typed by the user without picking a suggestion
func (s *Service) SearchText(ctx context.Context, text string) *domain.Resolution {
	return s.Resolve(ctx, catalog.SlugFromText(text), text)
}

// Resolve always returns something displayable: up to offerLimit offers, or a single error entry.
func (s *Service) Resolve(ctx context.Context, slug, display string) *domain.Resolution {
	log.Infof("🔍 Resolving offers for %s", slug)

	res, err := s.resolve(ctx, slug, display)
	if err != nil {
		if errors.Is(err, ErrNoSellers) {
			log.Infof("🙈 No in-game sellers for %s", slug)
			return domain.NoSellersResolution(display)
		}

		log.Errorf("❌ Failed to resolve offers for %s: %v", slug, err)
		return domain.FailedResolution(display)
	}

	log.Infof("✅ Resolved %d offers for %s, best %v platinum", len(res.Results), slug, res.Results[0].Price)
	s.record(ctx, slug, display, res)

	return res
}

func (s *Service) resolve(ctx context.Context, slug, display string) (*domain.Resolution, error) {
	var (
		orders []domain.Order
		detail *domain.ItemDetail
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		o, err := s.client.GetOrders(gctx, slug)
		if err != nil {
			return err
		}
		orders = o
		return nil
	})

	g.Go(func() error {
		d, err := s.client.GetItem(gctx, slug)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sellers := SelectSellers(orders, s.offerLimit)
	if len(sellers) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSellers, slug)
	}

	icon, err := IconFor(slug, detail.Item.ItemsInSet)
	if err != nil {
		return nil, err
	}

	return &domain.Resolution{
		Results: BuildResults(display, s.assetBase+icon, sellers),
		History: BuildHistory(detail.History),
	}, nil
}

func (s *Service) record(ctx context.Context, slug, display string, res *domain.Resolution) {
	if s.repository == nil {
		return
	}

	record := repository.NewSearchRecord(slug, display, res, time.Now())
	if record == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.recordTimeout)
	defer cancel()

	if err := s.repository.SaveSearch(ctx, record); err != nil {
		log.Warnf("⚠️ Failed to record search for %s: %v", slug, err)
	}
}
