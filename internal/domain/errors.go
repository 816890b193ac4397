package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrCategoryNotFound indicates a categoryId that references no live category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrSubCategoryNotFound indicates a subCategoryId unknown to its category.
	ErrSubCategoryNotFound = errors.New("subcategory not found")
	// ErrInvalidInput is returned for drafts missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)
