package navigation

// Navigator holds the active view and the search term. The term survives view
// changes and keeps filtering whatever view is active.
type Navigator struct {
	view ViewState
	term string
}

// NewNavigator starts on Home with no search term.
func NewNavigator() *Navigator {
	return &Navigator{view: Home()}
}

// Resume rebuilds a navigator from a previously parsed view and term.
func Resume(view ViewState, term string) *Navigator {
	return &Navigator{view: view, term: term}
}

func (n *Navigator) View() ViewState { return n.view }

func (n *Navigator) SearchTerm() string { return n.term }

func (n *Navigator) GoHome() { n.view = Home() }

func (n *Navigator) OpenSearch() { n.view = Search() }

func (n *Navigator) OpenCategory(categoryID string) { n.view = InCategory(categoryID) }

func (n *Navigator) OpenSubCategory(subCategoryID string) {
	if n.view.CategoryID == "" {
		return
	}
	n.view = InSubCategory(n.view.CategoryID, subCategoryID)
}

func (n *Navigator) SetSearchTerm(term string) { n.term = term }

func (n *Navigator) Back() { n.view = n.view.Parent() }

// NameLookup resolves category and subcategory ids to display names.
type NameLookup interface {
	CategoryName(id string) (string, bool)
	SubCategoryName(categoryID, subCategoryID string) (string, bool)
}

const (
	hubLabel    = "Hub"
	homeHeading = "Launchpad"
	searchLabel = "Search"
)

// Heading is the title shown above the grid.
func (n *Navigator) Heading(names NameLookup) string {
	switch n.view.Kind {
	case KindCategory, KindSubCategory:
		name, _ := names.CategoryName(n.view.CategoryID)
		return name
	case KindSearch:
		return searchLabel
	default:
		return homeHeading
	}
}

// Breadcrumb is the trail from the hub root to the active view.
func (n *Navigator) Breadcrumb(names NameLookup) []string {
	trail := []string{hubLabel}
	switch n.view.Kind {
	case KindCategory:
		name, _ := names.CategoryName(n.view.CategoryID)
		trail = append(trail, name)
	case KindSubCategory:
		name, _ := names.CategoryName(n.view.CategoryID)
		sub, _ := names.SubCategoryName(n.view.CategoryID, n.view.SubCategoryID)
		trail = append(trail, name, sub)
	case KindSearch:
		trail = append(trail, searchLabel)
	}
	return trail
}
