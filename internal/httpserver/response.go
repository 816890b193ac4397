package httpserver

import (
	"fmt"
	"net/url"

	"vibestation/internal/domain"
	"vibestation/internal/icon"
	"vibestation/internal/navigation"
)

const (
	faviconURLTemplate = "https://www.google.com/s2/favicons?domain=%s&sz=128"
	placeholderText    = "System Ready"
	nothingFound       = "Nothing found"
)

type categoryCard struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Icon          string               `json:"icon"`
	Theme         icon.Theme           `json:"theme"`
	Sector        string               `json:"sector"`
	AppCount      int                  `json:"appCount"`
	SubCategories []domain.SubCategory `json:"subCategories"`
}

type categoryListResponse struct {
	Categories []categoryCard `json:"categories"`
	Total      int            `json:"total"`
}

type categoryResponse struct {
	Category domain.Category `json:"category"`
	Warning  string          `json:"warning,omitempty"`
}

type subCategoryResponse struct {
	SubCategory domain.SubCategory `json:"subCategory"`
	Warning     string             `json:"warning,omitempty"`
}

type appCard struct {
	domain.AppEntry
	DisplayDescription string `json:"displayDescription"`
	FaviconURL         string `json:"faviconUrl"`
}

type appResponse struct {
	App     appCard `json:"app"`
	Warning string  `json:"warning,omitempty"`
}

type appListResponse struct {
	View       navigation.ViewState `json:"viewState"`
	Back       navigation.ViewState `json:"back"`
	Heading    string               `json:"heading"`
	Breadcrumb []string             `json:"breadcrumb"`
	CountLabel string               `json:"countLabel"`
	SearchTerm string               `json:"searchTerm"`
	Apps       []appCard            `json:"apps"`
	EmptyLabel string               `json:"emptyLabel,omitempty"`
}

func sectorLabel(name string) string {
	switch name {
	case "SKRM":
		return "Spirituality Sector"
	case "DEF":
		return "Academic Sector"
	default:
		return "Standard Sector"
	}
}

func toCategoryCards(cats []domain.Category, counts map[string]int) []categoryCard {
	out := make([]categoryCard, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryCard{
			ID:            c.ID,
			Name:          c.Name,
			Icon:          icon.Resolve(c.Icon),
			Theme:         icon.ThemeFor(c.Color),
			Sector:        sectorLabel(c.Name),
			AppCount:      counts[c.ID],
			SubCategories: c.SubCategories,
		})
	}
	return out
}

// faviconURL derives the favicon service URL from the app's host, or "" when
// the URL has none.
func faviconURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return fmt.Sprintf(faviconURLTemplate, url.QueryEscape(u.Hostname()))
}

func toAppCard(a domain.AppEntry) appCard {
	display := a.Description
	if display == "" {
		display = placeholderText
	}
	return appCard{
		AppEntry:           a,
		DisplayDescription: display,
		FaviconURL:         faviconURL(a.URL),
	}
}

func buildAppListResponse(nav *navigation.Navigator, names navigation.NameLookup, apps []domain.AppEntry, total int) appListResponse {
	cards := make([]appCard, 0, len(apps))
	for _, a := range apps {
		cards = append(cards, toAppCard(a))
	}

	view := nav.View()
	countLabel := fmt.Sprintf("%d in section", len(apps))
	if view.Kind == navigation.KindHome {
		countLabel = fmt.Sprintf("%d active units", total)
	}

	back := navigation.Resume(view, nav.SearchTerm())
	back.Back()

	resp := appListResponse{
		View:       view,
		Back:       back.View(),
		Heading:    nav.Heading(names),
		Breadcrumb: nav.Breadcrumb(names),
		CountLabel: countLabel,
		SearchTerm: nav.SearchTerm(),
		Apps:       cards,
	}
	if len(cards) == 0 && nav.SearchTerm() != "" {
		resp.EmptyLabel = nothingFound
	}
	return resp
}
