package session

import "wfmarket/checker/internal/domain"

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseTyping     Phase = "typing"
	PhaseSuggesting Phase = "suggesting"
	PhaseSearching  Phase = "searching"
)

// View is the whole session state as the client renders it
type View struct {
	Phase       Phase                 `json:"phase"`
	Input       string                `json:"input"`
	Selected    *domain.CatalogItem   `json:"selected,omitempty"`
	Suggestions []domain.CatalogItem  `json:"suggestions"`
	Highlight   int                   `json:"highlight"`
	Loading     bool                  `json:"loading"`
	Results     []domain.SearchResult `json:"results"`
	History     []domain.ChartPoint   `json:"history"`
	Related     []domain.CatalogItem  `json:"related"`
	Recent      []string              `json:"recent"`
	Theme       domain.Theme          `json:"theme"`
	DeepLink    string                `json:"deep_link,omitempty"`
}

func newView() View {
	return View{
		Phase:       PhaseIdle,
		Suggestions: []domain.CatalogItem{},
		Highlight:   -1,
		Results:     []domain.SearchResult{},
		History:     []domain.ChartPoint{},
		Related:     []domain.CatalogItem{},
		Recent:      []string{},
		Theme:       domain.ThemeLight,
	}
}

// snapshot copies v so the listener never shares the selected item with the event loop
func (v View) snapshot() View {
	if v.Selected != nil {
		selected := *v.Selected
		v.Selected = &selected
	}
	if v.Suggestions == nil {
		v.Suggestions = []domain.CatalogItem{}
	}
	if v.Results == nil {
		v.Results = []domain.SearchResult{}
	}
	if v.History == nil {
		v.History = []domain.ChartPoint{}
	}
	if v.Related == nil {
		v.Related = []domain.CatalogItem{}
	}
	return v
}
