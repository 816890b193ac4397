package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"vibestation/internal/domain"
	"vibestation/internal/enrich"
	"vibestation/internal/navigation"
	"vibestation/internal/repository/record"
	"vibestation/internal/seed"
)

type stubDescriber struct {
	mu    sync.Mutex
	desc  string
	err   error
	calls int
}

func (s *stubDescriber) Describe(ctx context.Context, name, url string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.desc, s.err
}

// flakyStore wraps a memory store and fails the configured operations.
type flakyStore struct {
	record.Repository
	failLoad bool
	failSave bool
	saves    int
}

func (f *flakyStore) Load(ctx context.Context, key string) (string, error) {
	if f.failLoad {
		return "", errors.New("backend down")
	}
	return f.Repository.Load(ctx, key)
}

func (f *flakyStore) Save(ctx context.Context, key, value string) error {
	f.saves++
	if f.failSave {
		return errors.New("quota exceeded")
	}
	return f.Repository.Save(ctx, key, value)
}

type counterIDs struct {
	mu sync.Mutex
	n  uint64
}

func (c *counterIDs) NextID() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n, nil
}

func fixedClock() time.Time { return time.UnixMilli(1_700_000_000_000) }

func newService(t *testing.T, store record.Repository, d *stubDescriber) *Service {
	t.Helper()
	var describer enrich.Describer
	if d != nil {
		describer = d
	}
	svc := New(store, describer, WithIDGenerator(&counterIDs{}), WithClock(fixedClock))
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return svc
}

func loadCategories(t *testing.T, store record.Repository) []domain.Category {
	t.Helper()
	raw, err := store.Load(context.Background(), record.KeyCategories)
	if err != nil {
		t.Fatalf("load categories: %v", err)
	}
	cats, err := decodeCategories(raw)
	if err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	return cats
}

func loadApps(t *testing.T, store record.Repository) []domain.AppEntry {
	t.Helper()
	raw, err := store.Load(context.Background(), record.KeyApps)
	if err != nil {
		t.Fatalf("load apps: %v", err)
	}
	apps, err := decodeApps(raw)
	if err != nil {
		t.Fatalf("decode apps: %v", err)
	}
	return apps
}

func TestInit_SeedsEmptyStore(t *testing.T) {
	store := record.NewMemory()
	svc := newService(t, store, nil)

	if !svc.Initialized() {
		t.Fatalf("expected initialized")
	}
	if !reflect.DeepEqual(svc.Categories(), seed.DefaultCategories()) {
		t.Fatalf("unexpected categories: %+v", svc.Categories())
	}
	if len(svc.Apps()) != 0 {
		t.Fatalf("expected no apps")
	}
	if !reflect.DeepEqual(loadCategories(t, store), seed.DefaultCategories()) {
		t.Fatalf("seed not persisted")
	}
	if apps, _ := store.Load(context.Background(), record.KeyApps); apps != "[]" {
		t.Fatalf("expected empty apps record, got %q", apps)
	}
}

func TestInit_MigratesLegacyCategories(t *testing.T) {
	store := record.NewMemory()
	_ = store.Save(context.Background(), record.KeyCategories, `[{"id":"cat-skrm","name":"SKRM","subCategories":[]}]`)
	svc := newService(t, store, nil)

	cat, err := svc.Category("cat-skrm")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if cat.Icon != "Sparkles" || cat.Color != "vibe-accent" {
		t.Fatalf("legacy category not migrated: %+v", cat)
	}
	if len(svc.Categories()) != 1 {
		t.Fatalf("migration must not add categories: %+v", svc.Categories())
	}
	if got := loadCategories(t, store)[0]; got.Icon != "Sparkles" {
		t.Fatalf("migration not persisted: %+v", got)
	}
}

func TestInit_CorruptRecordsFallBack(t *testing.T) {
	store := record.NewMemory()
	_ = store.Save(context.Background(), record.KeyCategories, `{broken`)
	_ = store.Save(context.Background(), record.KeyApps, `"not an array"`)
	svc := newService(t, store, nil)

	if !reflect.DeepEqual(svc.Categories(), seed.DefaultCategories()) {
		t.Fatalf("expected defaults, got %+v", svc.Categories())
	}
	if len(svc.Apps()) != 0 {
		t.Fatalf("expected no apps, got %+v", svc.Apps())
	}
}

func TestInit_KeepsNullSubCategoriesUsable(t *testing.T) {
	store := record.NewMemory()
	_ = store.Save(context.Background(), record.KeyCategories, `[{"id":"cat-x","name":"X","subCategories":null}]`)
	svc := newService(t, store, nil)

	if subs := svc.Categories()[0].SubCategories; subs == nil {
		t.Fatalf("expected empty, non-nil subcategories")
	}
	raw, _ := store.Load(context.Background(), record.KeyCategories)
	if !strings.Contains(raw, `"subCategories":[]`) {
		t.Fatalf("expected normalised record, got %s", raw)
	}
}

func TestInit_UnreadableStoreSkipsWrite(t *testing.T) {
	store := &flakyStore{Repository: record.NewMemory(), failLoad: true}
	svc := newService(t, store, nil)

	if !reflect.DeepEqual(svc.Categories(), seed.DefaultCategories()) {
		t.Fatalf("expected defaults, got %+v", svc.Categories())
	}
	if store.saves != 0 {
		t.Fatalf("expected no writes, got %d", store.saves)
	}
}

func TestInit_UnreadableStoreKeepsStoredRecordsUntilReload(t *testing.T) {
	ctx := context.Background()
	mem := record.NewMemory()
	stored := `[{"id":"1","name":"Wiki","url":"https://wiki.example.com","description":"","categoryId":"cat-tools","createdAt":1}]`
	storedCats := `[{"id":"cat-tools","name":"Tools","subCategories":[],"icon":"Wrench","color":"slate-400"}]`
	if err := mem.Save(ctx, record.KeyApps, stored); err != nil {
		t.Fatalf("save apps: %v", err)
	}
	if err := mem.Save(ctx, record.KeyCategories, storedCats); err != nil {
		t.Fatalf("save categories: %v", err)
	}

	store := &flakyStore{Repository: mem, failLoad: true}
	svc := newService(t, store, nil)

	if _, err := svc.AddCategory(ctx, "Early"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable while store is down, got %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("expected no writes while store is down, got %d", store.saves)
	}

	store.failLoad = false
	cat, err := svc.AddCategory(ctx, "Docs")
	if err != nil {
		t.Fatalf("add category after recovery: %v", err)
	}

	raw, err := mem.Load(ctx, record.KeyApps)
	if err != nil {
		t.Fatalf("load apps: %v", err)
	}
	apps, err := decodeApps(raw)
	if err != nil {
		t.Fatalf("decode apps: %v", err)
	}
	if len(apps) != 1 || apps[0].Name != "Wiki" {
		t.Fatalf("stored apps were overwritten: %s", raw)
	}

	cats := svc.Categories()
	if len(cats) != 2 || cats[0].ID != "cat-tools" || cats[1].ID != cat.ID {
		t.Fatalf("unexpected categories after reload: %+v", cats)
	}
	if svc.AppCount() != 1 {
		t.Fatalf("expected 1 app after reload, got %d", svc.AppCount())
	}
}

func TestAddApp_StoreStillUnreadable(t *testing.T) {
	store := &flakyStore{Repository: record.NewMemory(), failLoad: true}
	d := &stubDescriber{desc: "never asked"}
	svc := newService(t, store, d)

	_, err := svc.AddApp(context.Background(), domain.AppDraft{Name: "Figma", URL: "figma.com", CategoryID: "cat-skrm"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if d.calls != 0 || svc.AppCount() != 0 || store.saves != 0 {
		t.Fatalf("rejected add left traces: calls=%d apps=%d saves=%d", d.calls, svc.AppCount(), store.saves)
	}
}

func TestInit_Idempotent(t *testing.T) {
	store := &flakyStore{Repository: record.NewMemory()}
	svc := newService(t, store, nil)
	saves := store.saves

	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if store.saves != saves {
		t.Fatalf("second init wrote to the store")
	}
}

func TestMutationsBeforeInitAreNotPersisted(t *testing.T) {
	store := &flakyStore{Repository: record.NewMemory()}
	svc := New(store, nil, WithIDGenerator(&counterIDs{}))
	svc.categories = seed.DefaultCategories()

	if _, err := svc.AddCategory(context.Background(), "Early"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("expected no writes before init, got %d", store.saves)
	}
}

func TestAddCategory(t *testing.T) {
	store := record.NewMemory()
	svc := newService(t, store, nil)

	cat, err := svc.AddCategory(context.Background(), "  Tools ")
	if err != nil {
		t.Fatalf("add category: %v", err)
	}

	cats := svc.Categories()
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(cats))
	}
	if cat.Name != "Tools" || cat.Icon != "LayoutGrid" || cat.Color != "slate-400" {
		t.Fatalf("unexpected category: %+v", cat)
	}
	if !strings.HasPrefix(cat.ID, "cat-") {
		t.Fatalf("unexpected id %q", cat.ID)
	}
	for _, c := range cats[:3] {
		if c.ID == cat.ID {
			t.Fatalf("id %q collides with %s", cat.ID, c.Name)
		}
	}
	if cat.SubCategories == nil || len(cat.SubCategories) != 0 {
		t.Fatalf("expected empty subcategories, got %+v", cat.SubCategories)
	}
	if persisted := loadCategories(t, store); !reflect.DeepEqual(persisted, cats) {
		t.Fatalf("categories not persisted: %+v", persisted)
	}
}

func TestAddCategory_RejectsBlankName(t *testing.T) {
	svc := newService(t, record.NewMemory(), nil)

	if _, err := svc.AddCategory(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(svc.Categories()) != 3 {
		t.Fatalf("blank category was added")
	}
}

func TestAddSubCategory(t *testing.T) {
	store := record.NewMemory()
	svc := newService(t, store, nil)
	before := svc.Categories()

	sub, err := svc.AddSubCategory(context.Background(), "cat-def", "Lectures")
	if err != nil {
		t.Fatalf("add subcategory: %v", err)
	}
	if !strings.HasPrefix(sub.ID, "sub-") || sub.Name != "Lectures" {
		t.Fatalf("unexpected subcategory: %+v", sub)
	}

	cat, _ := svc.Category("cat-def")
	if !cat.HasSubCategory(sub.ID) {
		t.Fatalf("subcategory not attached: %+v", cat)
	}
	if len(before[1].SubCategories) != 0 {
		t.Fatalf("earlier copy observed the change")
	}
	if name, ok := svc.SubCategoryName("cat-def", sub.ID); !ok || name != "Lectures" {
		t.Fatalf("unexpected name lookup %q %v", name, ok)
	}
	if persisted := loadCategories(t, store); len(persisted[1].SubCategories) != 1 {
		t.Fatalf("subcategory not persisted: %+v", persisted[1])
	}

	if _, err := svc.AddSubCategory(context.Background(), "cat-missing", "X"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestAddApp_EnrichesAndNormalises(t *testing.T) {
	store := record.NewMemory()
	d := &stubDescriber{desc: "Design fast."}
	svc := newService(t, store, d)

	app, err := svc.AddApp(context.Background(), domain.AppDraft{
		Name:       "Figma",
		URL:        "figma.com",
		CategoryID: "cat-others",
	})
	if err != nil {
		t.Fatalf("add app: %v", err)
	}

	if app.URL != "https://figma.com" || app.Description != "Design fast." || app.SubCategoryID != "" {
		t.Fatalf("unexpected app: %+v", app)
	}
	if app.ID == "" || app.CreatedAt != fixedClock().UnixMilli() {
		t.Fatalf("unexpected id/createdAt: %+v", app)
	}
	if persisted := loadApps(t, store); !reflect.DeepEqual(persisted, []domain.AppEntry{app}) {
		t.Fatalf("app not persisted: %+v", persisted)
	}
}

func TestAddApp_KeepsGivenDescription(t *testing.T) {
	d := &stubDescriber{desc: "generated"}
	svc := newService(t, record.NewMemory(), d)

	app, err := svc.AddApp(context.Background(), domain.AppDraft{
		Name:        "Docs",
		URL:         "http://docs.example.com",
		Description: "Team wiki",
		CategoryID:  "cat-def",
	})
	if err != nil {
		t.Fatalf("add app: %v", err)
	}
	if app.Description != "Team wiki" || app.URL != "http://docs.example.com" {
		t.Fatalf("unexpected app: %+v", app)
	}
	if d.calls != 0 {
		t.Fatalf("describer called for app with description")
	}
}

func TestAddApp_EnrichmentFailureLeavesEmptyDescription(t *testing.T) {
	for _, d := range []*stubDescriber{
		{err: context.DeadlineExceeded},
		{err: errors.New("quota")},
		{desc: "   "},
	} {
		svc := newService(t, record.NewMemory(), d)

		app, err := svc.AddApp(context.Background(), domain.AppDraft{
			Name:       "Sheets",
			URL:        "sheets.example.com",
			CategoryID: "cat-others",
		})
		if err != nil {
			t.Fatalf("add app: %v", err)
		}
		if app.Description != "" {
			t.Fatalf("expected empty description, got %q", app.Description)
		}
		if len(svc.Apps()) != 1 {
			t.Fatalf("app not added")
		}
	}
}

func TestAddApp_Validation(t *testing.T) {
	svc := newService(t, record.NewMemory(), nil)
	sub, _ := svc.AddSubCategory(context.Background(), "cat-def", "Lectures")

	cases := []struct {
		name  string
		draft domain.AppDraft
		want  error
	}{
		{"blank name", domain.AppDraft{Name: " ", URL: "a.com", CategoryID: "cat-def"}, domain.ErrInvalidInput},
		{"blank url", domain.AppDraft{Name: "A", URL: " ", CategoryID: "cat-def"}, domain.ErrInvalidInput},
		{"unknown category", domain.AppDraft{Name: "A", URL: "a.com", CategoryID: "cat-nope"}, domain.ErrCategoryNotFound},
		{"unknown subcategory", domain.AppDraft{Name: "A", URL: "a.com", CategoryID: "cat-def", SubCategoryID: "sub-nope"}, domain.ErrSubCategoryNotFound},
		{"subcategory of other category", domain.AppDraft{Name: "A", URL: "a.com", CategoryID: "cat-skrm", SubCategoryID: sub.ID}, domain.ErrSubCategoryNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddApp(context.Background(), tc.draft); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(svc.Apps()) != 0 {
		t.Fatalf("invalid apps were added: %+v", svc.Apps())
	}
}

func TestAddApp_PersistFailureKeepsApp(t *testing.T) {
	store := &flakyStore{Repository: record.NewMemory()}
	svc := newService(t, store, nil)
	store.failSave = true

	app, err := svc.AddApp(context.Background(), domain.AppDraft{Name: "A", URL: "a.com", CategoryID: "cat-def"})

	var perr *PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistError, got %v", err)
	}
	if perr.Key != record.KeyApps {
		t.Fatalf("unexpected key %q", perr.Key)
	}
	if app.ID == "" || len(svc.Apps()) != 1 {
		t.Fatalf("app should be kept in memory: %+v", svc.Apps())
	}
}

func TestAddApp_ConcurrentCallsAllLand(t *testing.T) {
	store := record.NewMemory()
	svc := New(store, &stubDescriber{desc: "x"}, WithClock(fixedClock))
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.AddApp(context.Background(), domain.AppDraft{
				Name:       fmt.Sprintf("app-%d", i),
				URL:        "example.com",
				CategoryID: "cat-others",
			}); err != nil {
				t.Errorf("add app %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	apps := svc.Apps()
	if len(apps) != 20 {
		t.Fatalf("expected 20 apps, got %d", len(apps))
	}
	seen := map[string]bool{}
	for _, a := range apps {
		if seen[a.ID] {
			t.Fatalf("duplicate id %s", a.ID)
		}
		seen[a.ID] = true
	}
	if len(loadApps(t, store)) != 20 {
		t.Fatalf("persisted record is missing apps")
	}
}

func TestRoundTripThroughStore(t *testing.T) {
	store := record.NewMemory()
	svc := newService(t, store, &stubDescriber{desc: "Team chat."})
	ctx := context.Background()

	sub, _ := svc.AddSubCategory(ctx, "cat-def", "Courses")
	_, _ = svc.AddCategory(ctx, "Tools")
	_, _ = svc.AddApp(ctx, domain.AppDraft{Name: "Slack", URL: "slack.com", CategoryID: "cat-def", SubCategoryID: sub.ID})
	_, _ = svc.AddApp(ctx, domain.AppDraft{Name: "Notion", URL: "notion.so", Description: "Notes", CategoryID: "cat-others"})

	reloaded := newService(t, store, nil)
	if !reflect.DeepEqual(reloaded.Categories(), svc.Categories()) {
		t.Fatalf("categories differ after reload:\n%+v\n%+v", reloaded.Categories(), svc.Categories())
	}
	if !reflect.DeepEqual(reloaded.Apps(), svc.Apps()) {
		t.Fatalf("apps differ after reload:\n%+v\n%+v", reloaded.Apps(), svc.Apps())
	}
}

func TestCountByCategory(t *testing.T) {
	svc := newService(t, record.NewMemory(), nil)
	ctx := context.Background()
	_, _ = svc.AddApp(ctx, domain.AppDraft{Name: "A", URL: "a.com", CategoryID: "cat-def"})
	_, _ = svc.AddApp(ctx, domain.AppDraft{Name: "B", URL: "b.com", CategoryID: "cat-def"})
	_, _ = svc.AddApp(ctx, domain.AppDraft{Name: "C", URL: "c.com", CategoryID: "cat-skrm"})

	got := svc.CountByCategory()
	want := map[string]int{"cat-def": 2, "cat-skrm": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCodec_EncodesPersistedShape(t *testing.T) {
	raw, err := encodeApps([]domain.AppEntry{{
		ID: "1", Name: "A", URL: "https://a.com", CategoryID: "cat-def", CreatedAt: 5,
	}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var generic []map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"id", "name", "url", "description", "categoryId", "subCategoryId", "createdAt"} {
		if _, ok := generic[0][key]; !ok {
			t.Fatalf("persisted app lacks %q: %s", key, raw)
		}
	}
}

func TestFilteredApps_ViaService(t *testing.T) {
	svc := newService(t, record.NewMemory(), nil)
	ctx := context.Background()
	_, _ = svc.AddApp(ctx, domain.AppDraft{Name: "Figma", URL: "figma.com", Description: "Design", CategoryID: "cat-others"})
	_, _ = svc.AddApp(ctx, domain.AppDraft{Name: "Quran", URL: "quran.com", Description: "Daily reading", CategoryID: "cat-skrm"})

	got := svc.FilteredApps(navigation.InCategory("cat-skrm"), "")
	if len(got) != 1 || got[0].Name != "Quran" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
