package domain

import "fmt"

type ErrorKind string

const (
	ErrorKindNoSellers ErrorKind = "no_sellers" // Informational, nobody in game sells the item
	ErrorKindFailed    ErrorKind = "failed"     // Network or decoding failure
)

// SearchResult is either an offer or a single user-facing error entry
type SearchResult struct {
	Item      string    `json:"item,omitempty"`
	Price     float64   `json:"precio"`
	Seller    string    `json:"vendedor,omitempty"`
	Image     string    `json:"imagen,omitempty"`
	Message   string    `json:"mensaje,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

func (r SearchResult) IsError() bool {
	return r.Error != ""
}

// ChartPoint is a history point shaped for charting
type ChartPoint struct {
	Time string  `json:"time"`
	Avg  float64 `json:"avg"`
}

type Resolution struct {
	Results []SearchResult `json:"results"`
	History []ChartPoint   `json:"history"`
}

// Failed reports whether the resolution carries the single error entry
func (r *Resolution) Failed() bool {
	return len(r.Results) == 1 && r.Results[0].IsError()
}

func NoSellersResolution(display string) *Resolution {
	return &Resolution{
		Results: []SearchResult{{
			Error:     fmt.Sprintf("No hay vendedores online para \"%s\".", display),
			ErrorKind: ErrorKindNoSellers,
		}},
		History: []ChartPoint{},
	}
}

func FailedResolution(display string) *Resolution {
	return &Resolution{
		Results: []SearchResult{{
			Error:     fmt.Sprintf("Error al buscar \"%s\".", display),
			ErrorKind: ErrorKindFailed,
		}},
		History: []ChartPoint{},
	}
}

// TradeMessage composes the whisper players paste into the in-game chat
func TradeMessage(seller, item string, price float64) string {
	return fmt.Sprintf("/w %s Hi! I want to buy: \"%s\" for %v platinum. (warframe.market)", seller, item, price)
}
