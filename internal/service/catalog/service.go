package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"vibestation/internal/domain"
	"vibestation/internal/enrich"
	"vibestation/internal/logging"
	"vibestation/internal/repository/record"
	"vibestation/internal/seed"
)

// Service owns the authoritative category and app collections. Reads are
// served from memory; every mutation is written through to the record store
// once Init has run.
type Service struct {
	store     record.Repository
	describer enrich.Describer
	logger    *zap.Logger
	ids       IDGenerator
	now       func() time.Time

	mu          sync.RWMutex
	initialized bool
	// set when Init could not read the store; writes wait for a clean reload
	loadFailed bool
	categories []domain.Category
	apps       []domain.AppEntry
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates an uninitialized Service. describer may be nil, in which case
// apps without a description keep an empty one.
func New(store record.Repository, describer enrich.Describer, opts ...Option) *Service {
	if describer == nil {
		describer = enrich.Noop{}
	}
	s := &Service{
		store:      store,
		describer:  describer,
		logger:     zap.NewNop(),
		ids:        NewSonyflakeIDs(),
		now:        time.Now,
		categories: []domain.Category{},
		apps:       []domain.AppEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads both collections, seeds or migrates categories, and writes the
// result back once. Unreadable records fall back to defaults. When the store
// itself cannot be read nothing is written until a later mutation reloads it
// successfully. Calling Init again is a no-op.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	categories, catErr := s.loadCategories(ctx)
	apps, appErr := s.loadApps(ctx)

	s.categories = categories
	s.apps = apps
	s.initialized = true

	if catErr != nil || appErr != nil {
		s.loadFailed = true
		s.logger.Warn("skipping initial write-through: record store unreadable")
		return nil
	}
	return s.persistLocked(ctx)
}

// ensureLoaded retries the initial load when Init could not read the store.
// It returns ErrStoreUnavailable while the store stays unreadable.
func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loadFailed {
		return nil
	}

	categories, catErr := s.loadCategories(ctx)
	apps, appErr := s.loadApps(ctx)
	if catErr != nil || appErr != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, multierr.Combine(catErr, appErr))
	}

	s.categories = categories
	s.apps = apps
	s.loadFailed = false
	s.logger.Info("record store readable again, collections reloaded")
	return nil
}

// Initialized reports whether Init has completed.
func (s *Service) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Service) loadCategories(ctx context.Context) ([]domain.Category, error) {
	raw, err := s.store.Load(ctx, record.KeyCategories)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Info("no categories record, seeding defaults")
		return seed.DefaultCategories(), nil
	case err != nil:
		s.logger.Error("load categories", zap.Error(err))
		return seed.DefaultCategories(), err
	}

	parsed, err := decodeCategories(raw)
	if err != nil {
		s.logger.Error("categories record unreadable, seeding defaults", zap.Error(err))
		return seed.DefaultCategories(), nil
	}

	migrated, changed := seed.MigrateCategories(parsed)
	if changed {
		s.logger.Info("backfilled icons on legacy categories")
	}
	return migrated, nil
}

func (s *Service) loadApps(ctx context.Context) ([]domain.AppEntry, error) {
	raw, err := s.store.Load(ctx, record.KeyApps)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return []domain.AppEntry{}, nil
	case err != nil:
		s.logger.Error("load apps", zap.Error(err))
		return []domain.AppEntry{}, err
	}

	parsed, err := decodeApps(raw)
	if err != nil {
		s.logger.Error("apps record unreadable, starting empty", zap.Error(err))
		return []domain.AppEntry{}, nil
	}
	return parsed, nil
}

// AppCount returns the number of filed apps.
func (s *Service) AppCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apps)
}

// Categories returns a copy of all categories in insertion order.
func (s *Service) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c.Clone())
	}
	return out
}

// Apps returns a copy of all apps in insertion order.
func (s *Service) Apps() []domain.AppEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AppEntry, len(s.apps))
	copy(out, s.apps)
	return out
}

// Category looks up a category by id.
func (s *Service) Category(id string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.categoryIndex(id); i >= 0 {
		return s.categories[i].Clone(), nil
	}
	return domain.Category{}, domain.ErrCategoryNotFound
}

func (s *Service) CategoryName(id string) (string, bool) {
	c, err := s.Category(id)
	if err != nil {
		return "", false
	}
	return c.Name, true
}

func (s *Service) SubCategoryName(categoryID, subCategoryID string) (string, bool) {
	c, err := s.Category(categoryID)
	if err != nil {
		return "", false
	}
	for _, sc := range c.SubCategories {
		if sc.ID == subCategoryID {
			return sc.Name, true
		}
	}
	return "", false
}

// CountByCategory returns the number of apps filed under each category id.
func (s *Service) CountByCategory() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.categories))
	for _, a := range s.apps {
		counts[a.CategoryID]++
	}
	return counts
}

func (s *Service) categoryIndex(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
