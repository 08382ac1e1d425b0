package domain

import "strings"

// CatalogItem is one tradable item of the static catalog asset
type CatalogItem struct {
	URLName  string `json:"url_name"`  // Slug, unique
	ItemName string `json:"item_name"` // Display name, may use underscores as separators
}

// DisplayName returns the item name with underscores replaced by spaces
func (i CatalogItem) DisplayName() string {
	return strings.ReplaceAll(i.ItemName, "_", " ")
}

type CatalogResponse struct {
	Payload struct {
		Items []CatalogItem `json:"items"`
	} `json:"payload"`
}
