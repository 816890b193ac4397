package domain

// AppEntry is a single launcher shortcut.
type AppEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	CategoryID    string `json:"categoryId"`
	SubCategoryID string `json:"subCategoryId"`
	// CreatedAt is epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// AppDraft carries the user supplied fields of a new AppEntry.
type AppDraft struct {
	Name          string `json:"name" validate:"required"`
	URL           string `json:"url" validate:"required"`
	Description   string `json:"description"`
	CategoryID    string `json:"categoryId" validate:"required"`
	SubCategoryID string `json:"subCategoryId"`
}
