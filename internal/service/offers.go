package service

import (
	"fmt"
	"slices"

	"wfmarket/checker/internal/domain"
)

// SelectSellers keeps sell orders from players currently in game, cheapest first.
// Equal prices keep their input order.
func SelectSellers(orders []domain.Order, limit int) []domain.Order {
	sellers := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.OrderType == domain.OrderTypeSell && o.User.Status == domain.UserStatusIngame {
			sellers = append(sellers, o)
		}
	}

	slices.SortStableFunc(sellers, func(a, b domain.Order) int {
		switch {
		case a.Platinum < b.Platinum:
			return -1
		case a.Platinum > b.Platinum:
			return 1
		default:
			return 0
		}
	})

	if len(sellers) > limit {
		sellers = sellers[:limit]
	}
	return sellers
}

// IconFor picks the set part matching slug, falling back to the first part
func IconFor(slug string, parts []domain.SetPart) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("item %s has no set parts", slug)
	}

	for _, p := range parts {
		if p.URLName == slug {
			return p.Icon, nil
		}
	}
	return parts[0].Icon, nil
}

func BuildResults(display, image string, sellers []domain.Order) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(sellers))
	for _, s := range sellers {
		results = append(results, domain.SearchResult{
			Item:    display,
			Price:   s.Platinum,
			Seller:  s.User.IngameName,
			Image:   image,
			Message: domain.TradeMessage(s.User.IngameName, display, s.Platinum),
		})
	}
	return results
}

func BuildHistory(points []domain.HistoryPoint) []domain.ChartPoint {
	history := make([]domain.ChartPoint, 0, len(points))
	for _, p := range points {
		history = append(history, domain.ChartPoint{Time: p.Datetime, Avg: p.AvgPrice})
	}
	return history
}
