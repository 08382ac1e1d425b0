package domain

// SetPart is one entry of an item's set, carrying the icon path relative to the asset base
type SetPart struct {
	URLName  string `json:"url_name"`
	ItemName string `json:"item_name,omitempty"`
	Icon     string `json:"icon"`
}

type HistoryPoint struct {
	Datetime string  `json:"datetime"`
	AvgPrice float64 `json:"avg_price"`
}

type ItemDetail struct {
	Item struct {
		ItemsInSet []SetPart `json:"items_in_set"`
	} `json:"item"`
	History []HistoryPoint `json:"history,omitempty"`
}

type ItemResponse struct {
	Payload ItemDetail `json:"payload"`
}
