package catalog

import (
	"encoding/json"

	"vibestation/internal/domain"
)

// Records are JSON arrays. A null or missing subCategories list decodes to
// an empty one so later appends and encodes stay consistent.

func decodeCategories(raw string) ([]domain.Category, error) {
	var out []domain.Category
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = out[i].Clone()
	}
	if out == nil {
		out = []domain.Category{}
	}
	return out, nil
}

func encodeCategories(in []domain.Category) (string, error) {
	b, err := json.Marshal(in)
	return string(b), err
}

func decodeApps(raw string) ([]domain.AppEntry, error) {
	var out []domain.AppEntry
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.AppEntry{}
	}
	return out, nil
}

func encodeApps(in []domain.AppEntry) (string, error) {
	b, err := json.Marshal(in)
	return string(b), err
}
