package catalog

import (
	"strings"

	"wfmarket/checker/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase lowercases s and capitalises each word
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// SlugFromText derives a slug from free text the way users type item names
func SlugFromText(text string) string {
	slug := strings.ToLower(text)
	slug = strings.ReplaceAll(slug, " ", "_")
	return strings.ReplaceAll(slug, "'", "")
}

// ItemFromSlug rebuilds a catalog entry from a shared deep link slug
func ItemFromSlug(slug string) domain.CatalogItem {
	return domain.CatalogItem{
		URLName:  strings.ToLower(slug),
		ItemName: TitleCase(strings.ReplaceAll(slug, "_", " ")),
	}
}

// ItemFromRecent rebuilds a catalog entry from a recent search display name
func ItemFromRecent(name string) domain.CatalogItem {
	return domain.CatalogItem{
		URLName:  strings.ReplaceAll(strings.ToLower(name), " ", "_"),
		ItemName: name,
	}
}
