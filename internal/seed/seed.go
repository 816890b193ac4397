package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vibestation/internal/domain"
	"vibestation/internal/repository/record"
)

type categorySeed struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

var defaults = []categorySeed{
	{ID: "cat-skrm", Name: "SKRM", Icon: "Sparkles", Color: "vibe-accent"},
	{ID: "cat-def", Name: "DEF", Icon: "GraduationCap", Color: "vibe-mint"},
	{ID: "cat-others", Name: "Others", Icon: "LayoutGrid", Color: "slate-400"},
}

// DefaultCategories returns a fresh copy of the first-run category set.
func DefaultCategories() []domain.Category {
	out := make([]domain.Category, 0, len(defaults))
	for _, s := range defaults {
		out = append(out, domain.Category{
			ID:            s.ID,
			Name:          s.Name,
			SubCategories: []domain.SubCategory{},
			Icon:          s.Icon,
			Color:         s.Color,
		})
	}
	return out
}

// MigrateCategories backfills the icon and colour of the built-in SKRM and DEF
// categories saved before those fields existed. Running it twice is a no-op.
// changed reports whether any category was touched.
func MigrateCategories(in []domain.Category) (out []domain.Category, changed bool) {
	out = make([]domain.Category, 0, len(in))
	for _, c := range in {
		c = c.Clone()
		if c.Icon == "" {
			for _, s := range defaults[:2] {
				if c.Name == s.Name {
					c.Icon, c.Color = s.Icon, s.Color
					changed = true
				}
			}
		}
		out = append(out, c)
	}
	return out, changed
}

// Apply makes sure store holds a usable category and app record. Existing
// categories are migrated in place, existing apps are left alone.
func Apply(ctx context.Context, store record.Repository) error {
	raw, err := store.Load(ctx, record.KeyCategories)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := saveJSON(ctx, store, record.KeyCategories, DefaultCategories()); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	case err != nil:
		return fmt.Errorf("load categories: %w", err)
	default:
		var existing []domain.Category
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			return fmt.Errorf("decode categories: %w", err)
		}
		if migrated, changed := MigrateCategories(existing); changed {
			if err := saveJSON(ctx, store, record.KeyCategories, migrated); err != nil {
				return fmt.Errorf("migrate categories: %w", err)
			}
		}
	}

	_, err = store.Load(ctx, record.KeyApps)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := saveJSON(ctx, store, record.KeyApps, []domain.AppEntry{}); err != nil {
			return fmt.Errorf("seed apps: %w", err)
		}
	case err != nil:
		return fmt.Errorf("load apps: %w", err)
	}

	return nil
}

func saveJSON(ctx context.Context, store record.Repository, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Save(ctx, key, string(data))
}
