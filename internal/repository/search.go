package repository

import (
	"context"
	"fmt"
	"time"

	"wfmarket/checker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SearchRecord struct {
	Slug       string
	Display    string
	BestPrice  float64
	BestSeller string
	Offers     []domain.SearchResult
	SearchedAt time.Time
}

type SearchRepository interface {
	SaveSearch(ctx context.Context, record *SearchRecord) error
	EnsureSchema(ctx context.Context) error
}

type searchRepository struct {
	db *pgxpool.Pool
}

func NewSearchRepository(db *pgxpool.Pool) SearchRepository {
	return &searchRepository{
		db: db,
	}
}

func (r *searchRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS search_log (
		id          BIGSERIAL PRIMARY KEY,
		slug        TEXT NOT NULL,
		display     TEXT NOT NULL,
		best_price  DOUBLE PRECISION NOT NULL,
		best_seller TEXT NOT NULL,
		offers      JSONB NOT NULL,
		searched_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create search_log table: %w", err)
	}

	return nil
}

func (r *searchRepository) SaveSearch(ctx context.Context, record *SearchRecord) error {
	query := `
	INSERT INTO search_log (slug, display, best_price, best_seller, offers, searched_at)
	VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		record.Slug,
		record.Display,
		record.BestPrice,
		record.BestSeller,
		record.Offers,
		record.SearchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save search for %s: %w", record.Slug, err)
	}

	return nil
}

// NewSearchRecord summarises a successful resolution. It returns nil for error resolutions.
func NewSearchRecord(slug, display string, res *domain.Resolution, at time.Time) *SearchRecord {
	if res == nil || len(res.Results) == 0 || res.Failed() {
		return nil
	}

	best := res.Results[0]
	return &SearchRecord{
		Slug:       slug,
		Display:    display,
		BestPrice:  best.Price,
		BestSeller: best.Seller,
		Offers:     res.Results,
		SearchedAt: at,
	}
}
