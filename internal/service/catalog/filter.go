package catalog

import (
	"strings"

	"vibestation/internal/domain"
	"vibestation/internal/navigation"
)

// FilteredApps projects the apps visible in view, narrowed by term when it is
// non-empty. Matching is a case-insensitive substring test on name or
// description. Insertion order is kept.
func (s *Service) FilteredApps(view navigation.ViewState, term string) []domain.AppEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filterApps(s.apps, view, term)
}

func filterApps(apps []domain.AppEntry, view navigation.ViewState, term string) []domain.AppEntry {
	needle := strings.ToLower(term)
	out := make([]domain.AppEntry, 0, len(apps))
	for _, a := range apps {
		switch view.Kind {
		case navigation.KindCategory:
			if a.CategoryID != view.CategoryID {
				continue
			}
		case navigation.KindSubCategory:
			if a.CategoryID != view.CategoryID || a.SubCategoryID != view.SubCategoryID {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Name), needle) &&
			!strings.Contains(strings.ToLower(a.Description), needle) {
			continue
		}
		out = append(out, a)
	}
	return out
}
