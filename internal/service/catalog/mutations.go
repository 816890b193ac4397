package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vibestation/internal/domain"
	"vibestation/internal/metrics"
	"vibestation/internal/repository/record"
)

const (
	newCategoryIcon  = "LayoutGrid"
	newCategoryColor = "slate-400"
)

// ErrStoreUnavailable is returned by mutations while the record store could
// not be read at startup and still cannot be.
var ErrStoreUnavailable = errors.New("record store unavailable")

// PersistError reports that a mutation was applied in memory but could not be
// written to the record store. The returned entity is still valid.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// AddCategory appends a category with the default icon and colour. Names need
// not be unique.
func (s *Service) AddCategory(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Category{}, err
	}

	id, err := s.nextID()
	if err != nil {
		return domain.Category{}, err
	}
	cat := domain.Category{
		ID:            "cat-" + id,
		Name:          name,
		SubCategories: []domain.SubCategory{},
		Icon:          newCategoryIcon,
		Color:         newCategoryColor,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = append(s.categories, cat)
	return cat.Clone(), s.persistLocked(ctx)
}

// AddSubCategory appends a subcategory to an existing category.
func (s *Service) AddSubCategory(ctx context.Context, categoryID, name string) (domain.SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SubCategory{}, fmt.Errorf("%w: subcategory name is required", domain.ErrInvalidInput)
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return domain.SubCategory{}, err
	}

	id, err := s.nextID()
	if err != nil {
		return domain.SubCategory{}, err
	}
	sub := domain.SubCategory{ID: "sub-" + id, Name: name}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(categoryID)
	if i < 0 {
		return domain.SubCategory{}, domain.ErrCategoryNotFound
	}
	// copy-on-write so clones handed out earlier never observe the append
	cat := s.categories[i].Clone()
	cat.SubCategories = append(cat.SubCategories, sub)
	s.categories[i] = cat

	return sub, s.persistLocked(ctx)
}

// AddApp files a new app. When the draft has no description the describer is
// asked for one; failures leave it empty. The describer runs without holding
// the lock, so the app is appended after whatever else landed meanwhile.
func (s *Service) AddApp(ctx context.Context, draft domain.AppDraft) (domain.AppEntry, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.AppEntry{}, err
	}

	app, err := s.prepareApp(draft)
	if err != nil {
		return domain.AppEntry{}, err
	}

	if app.Description == "" {
		desc, err := s.describer.Describe(ctx, app.Name, app.URL)
		if err != nil {
			s.logger.Warn("description unavailable", zap.String("app", app.Name), zap.Error(err))
		} else {
			app.Description = strings.TrimSpace(desc)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app.CreatedAt = s.now().UnixMilli()
	s.apps = append(s.apps, app)

	return app, s.persistLocked(ctx)
}

func (s *Service) prepareApp(draft domain.AppDraft) (domain.AppEntry, error) {
	app := domain.AppEntry{
		Name:          strings.TrimSpace(draft.Name),
		URL:           domain.NormalizeURL(draft.URL),
		Description:   strings.TrimSpace(draft.Description),
		CategoryID:    strings.TrimSpace(draft.CategoryID),
		SubCategoryID: strings.TrimSpace(draft.SubCategoryID),
	}
	if app.Name == "" {
		return domain.AppEntry{}, fmt.Errorf("%w: app name is required", domain.ErrInvalidInput)
	}
	if app.URL == "" {
		return domain.AppEntry{}, fmt.Errorf("%w: app url is required", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	err := s.checkPlacementLocked(app.CategoryID, app.SubCategoryID)
	s.mu.RUnlock()
	if err != nil {
		return domain.AppEntry{}, err
	}

	id, err := s.nextID()
	if err != nil {
		return domain.AppEntry{}, err
	}
	app.ID = id
	return app, nil
}

func (s *Service) checkPlacementLocked(categoryID, subCategoryID string) error {
	i := s.categoryIndex(categoryID)
	if i < 0 {
		return domain.ErrCategoryNotFound
	}
	if subCategoryID != "" && !s.categories[i].HasSubCategory(subCategoryID) {
		return domain.ErrSubCategoryNotFound
	}
	return nil
}

func (s *Service) nextID() (string, error) {
	id, err := s.ids.NextID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strconv.FormatUint(id, 10), nil
}

// persistLocked writes both collections. Callers hold s.mu.
func (s *Service) persistLocked(ctx context.Context) error {
	if !s.initialized || s.loadFailed {
		return nil
	}

	apps, err := encodeApps(s.apps)
	if err != nil {
		return s.persistFailed(record.KeyApps, err)
	}
	if err := s.store.Save(ctx, record.KeyApps, apps); err != nil {
		return s.persistFailed(record.KeyApps, err)
	}

	categories, err := encodeCategories(s.categories)
	if err != nil {
		return s.persistFailed(record.KeyCategories, err)
	}
	if err := s.store.Save(ctx, record.KeyCategories, categories); err != nil {
		return s.persistFailed(record.KeyCategories, err)
	}
	return nil
}

func (s *Service) persistFailed(key string, err error) error {
	metrics.RecordPersistFailure()
	s.logger.Error("write-through failed, change kept in memory only",
		zap.String("key", key), zap.Error(err))
	return &PersistError{Key: key, Err: err}
}
