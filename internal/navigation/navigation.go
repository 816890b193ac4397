// Package navigation models which part of the launcher is on screen.
package navigation

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindHome        Kind = "home"
	KindCategory    Kind = "category"
	KindSubCategory Kind = "subcategory"
	KindSearch      Kind = "search"
)

var ErrInvalidView = errors.New("invalid view")

// ViewState is exactly one active navigational context. CategoryID is set for
// KindCategory and KindSubCategory, SubCategoryID only for KindSubCategory.
type ViewState struct {
	Kind          Kind   `json:"view"`
	CategoryID    string `json:"categoryId,omitempty"`
	SubCategoryID string `json:"subCategoryId,omitempty"`
}

func Home() ViewState { return ViewState{Kind: KindHome} }

func Search() ViewState { return ViewState{Kind: KindSearch} }

func InCategory(categoryID string) ViewState {
	return ViewState{Kind: KindCategory, CategoryID: categoryID}
}

func InSubCategory(categoryID, subCategoryID string) ViewState {
	return ViewState{Kind: KindSubCategory, CategoryID: categoryID, SubCategoryID: subCategoryID}
}

// Parse builds a ViewState from request parameters. An empty view means home.
func Parse(view, categoryID, subCategoryID string) (ViewState, error) {
	v := ViewState{
		Kind:          Kind(strings.ToLower(strings.TrimSpace(view))),
		CategoryID:    strings.TrimSpace(categoryID),
		SubCategoryID: strings.TrimSpace(subCategoryID),
	}
	if v.Kind == "" {
		v.Kind = KindHome
	}
	if err := v.Validate(); err != nil {
		return ViewState{}, err
	}
	return v, nil
}

// Validate rejects combinations no transition can produce.
func (v ViewState) Validate() error {
	switch v.Kind {
	case KindHome, KindSearch:
		if v.CategoryID != "" || v.SubCategoryID != "" {
			return fmt.Errorf("%w: %s view takes no category", ErrInvalidView, v.Kind)
		}
	case KindCategory:
		if v.CategoryID == "" {
			return fmt.Errorf("%w: category view needs a categoryId", ErrInvalidView)
		}
		if v.SubCategoryID != "" {
			return fmt.Errorf("%w: category view takes no subCategoryId", ErrInvalidView)
		}
	case KindSubCategory:
		if v.CategoryID == "" || v.SubCategoryID == "" {
			return fmt.Errorf("%w: subcategory view needs categoryId and subCategoryId", ErrInvalidView)
		}
	default:
		return fmt.Errorf("%w: unknown view %q", ErrInvalidView, v.Kind)
	}
	return nil
}

// Parent is the view Back leads to.
func (v ViewState) Parent() ViewState {
	if v.Kind == KindSubCategory {
		return InCategory(v.CategoryID)
	}
	return Home()
}
