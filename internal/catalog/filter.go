package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"

	"wfmarket/checker/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const MinQueryLength = 2

type Filter struct {
	tag language.Tag
}

func NewFilter(locale string) *Filter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Filter{tag: tag}
}

// Apply returns the catalog items whose display name contains every whitespace-separated
// term of query, ordered by item name under the locale's collation.
func (f *Filter) Apply(query string, items []domain.CatalogItem) []domain.CatalogItem {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []domain.CatalogItem{}
	}

	terms := strings.Fields(strings.ToLower(query))
	matches := make([]domain.CatalogItem, 0)
	for _, item := range items {
		if matchesAll(strings.ToLower(item.DisplayName()), terms) {
			matches = append(matches, item)
		}
	}

	// Collators keep scratch buffers, one per call keeps Apply safe for concurrent use
	col := collate.New(f.tag)
	slices.SortStableFunc(matches, func(a, b domain.CatalogItem) int {
		return col.CompareString(a.ItemName, b.ItemName)
	})

	return matches
}

func matchesAll(name string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(name, term) {
			return false
		}
	}
	return true
}

// Related lists the other items sharing the first word of item's name, in catalog order
func Related(item domain.CatalogItem, items []domain.CatalogItem) []domain.CatalogItem {
	words := strings.Fields(strings.ToLower(item.DisplayName()))
	related := make([]domain.CatalogItem, 0)
	if len(words) == 0 {
		return related
	}

	prefix := words[0]
	for _, candidate := range items {
		if candidate.URLName == item.URLName {
			continue
		}
		if strings.HasPrefix(strings.ToLower(candidate.DisplayName()), prefix) {
			related = append(related, candidate)
		}
	}
	return related
}
