package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/pageinsights-backend/internal/cache"
	"github.com/yungbote/pageinsights-backend/internal/data/repos"
	"github.com/yungbote/pageinsights-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pageinsights-backend/internal/domain"
	"github.com/yungbote/pageinsights-backend/internal/scraper"
)

// fakeScraper scripts one acquisition attempt and counts invocations.
type fakeScraper struct {
	snapshot *scraper.Snapshot
	err      error
	calls    *int
	closed   *bool
}

func (f *fakeScraper) ScrapePage(ctx context.Context, pageID string) (*scraper.PageData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot.Page, nil
}

func (f *fakeScraper) ScrapePosts(ctx context.Context, pageID string, limit int) ([]scraper.PostData, error) {
	return f.snapshot.Posts, nil
}

func (f *fakeScraper) ScrapeEmployees(ctx context.Context, pageID string, limit int) ([]scraper.EmployeeData, error) {
	return f.snapshot.Employees, nil
}

func (f *fakeScraper) ScrapeAll(ctx context.Context, pageID string, postsLimit, employeesLimit int) (*scraper.Snapshot, error) {
	*f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeScraper) Close() error {
	*f.closed = true
	return nil
}

type serviceHarness struct {
	svc    PageService
	db     *gorm.DB
	calls  int
	closed bool
}

func newHarness(t *testing.T, snapshot *scraper.Snapshot, scrapeErr error) *serviceHarness {
	t.Helper()

	db := testutil.DB(t)
	log := testutil.Logger(t)

	h := &serviceHarness{db: db}
	factory := func() scraper.Scraper {
		return &fakeScraper{snapshot: snapshot, err: scrapeErr, calls: &h.calls, closed: &h.closed}
	}

	cacheManager := cache.NewManagerWithStore(
		cache.Config{Enabled: true, DefaultTTL: time.Minute},
		cache.NewMemoryStore(),
		log,
	)

	h.svc = NewPageService(
		db,
		log,
		PageServiceConfig{PostsLimit: 10, EmployeesLimit: 20},
		repos.NewPageRepo(db, log),
		repos.NewPostRepo(db, log),
		repos.NewCommentRepo(db, log),
		repos.NewEmployeeRepo(db, log),
		factory,
		cacheManager,
	)
	return h
}

func validSnapshot(pageID string) *scraper.Snapshot {
	postedAt := time.Now().UTC().Add(-time.Hour)
	return &scraper.Snapshot{
		Page: &scraper.PageData{
			PageID:        pageID,
			Name:          "Acme Corporation",
			URL:           "https://www.linkedin.com/company/" + pageID,
			Industry:      "Software",
			FollowerCount: 1200,
			Specialities:  []string{"robotics"},
		},
		Posts: []scraper.PostData{
			{PostID: pageID + "_p1", PageID: pageID, Content: "launch day", PostedAt: &postedAt},
		},
		Employees: []scraper.EmployeeData{
			{PageID: pageID, Name: "Jane Doe", Designation: "Engineer"},
		},
	}
}

func TestGetPageScrapesThenServesFromStore(t *testing.T) {
	h := newHarness(t, validSnapshot("acme"), nil)
	ctx := context.Background()

	result, err := h.svc.GetPage(ctx, "acme", false)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if !result.Success || result.Source != SourceScraped {
		t.Fatalf("expected scraped result, got %+v", result)
	}
	if h.calls != 1 {
		t.Fatalf("expected exactly one extraction call, got %d", h.calls)
	}
	if !h.closed {
		t.Fatalf("scraper session not released")
	}
	if result.Page == nil || result.Page.Name != "Acme Corporation" {
		t.Fatalf("merged page missing: %+v", result.Page)
	}

	// Second call must short-circuit on the stored row.
	result, err = h.svc.GetPage(ctx, "acme", false)
	if err != nil {
		t.Fatalf("GetPage (second): %v", err)
	}
	if !result.Success || result.Source != SourceDatabase {
		t.Fatalf("expected database result, got %+v", result)
	}
	if h.calls != 1 {
		t.Fatalf("freshness short-circuit violated: %d extraction calls", h.calls)
	}
}

func TestGetPageForceRefreshAlwaysScrapes(t *testing.T) {
	h := newHarness(t, validSnapshot("forceco"), nil)
	ctx := context.Background()

	if _, err := h.svc.GetPage(ctx, "forceco", false); err != nil {
		t.Fatalf("GetPage (seed): %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("expected one call after seed, got %d", h.calls)
	}

	result, err := h.svc.GetPage(ctx, "forceco", true)
	if err != nil {
		t.Fatalf("GetPage (force): %v", err)
	}
	if result.Source != SourceScraped {
		t.Fatalf("force refresh must scrape, got source %q", result.Source)
	}
	if h.calls != 2 {
		t.Fatalf("expected exactly two extraction calls, got %d", h.calls)
	}
}

func TestGetPageLoginWallWritesNothing(t *testing.T) {
	h := newHarness(t, nil, &scraper.LoginWallError{PageID: "blocked-co"})
	ctx := context.Background()

	result, err := h.svc.GetPage(ctx, "blocked-co", false)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if result.Success {
		t.Fatalf("wall must not produce success: %+v", result)
	}
	if !result.IsLoginWall || result.Retryable {
		t.Fatalf("wall must be terminal: %+v", result)
	}
	if !h.closed {
		t.Fatalf("scraper session not released on failure path")
	}

	var count int64
	if err := h.db.Model(&types.Page{}).Where("page_id = ?", "blocked-co").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed extraction must not persist, found %d rows", count)
	}
}

func TestGetPageInvalidNameTreatedAsWall(t *testing.T) {
	snap := validSnapshot("wallish")
	snap.Page.Name = "Sign In"
	h := newHarness(t, snap, nil)

	result, err := h.svc.GetPage(context.Background(), "wallish", false)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if result.Success || !result.IsLoginWall {
		t.Fatalf("placeholder name must classify as wall: %+v", result)
	}

	var count int64
	if err := h.db.Model(&types.Page{}).Where("page_id = ?", "wallish").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected extraction must not persist")
	}
}

func TestGetPageTimeoutIsRetryable(t *testing.T) {
	h := newHarness(t, nil, &scraper.TimeoutError{PageID: "slowco", Err: context.DeadlineExceeded})

	result, err := h.svc.GetPage(context.Background(), "slowco", false)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if result.Success || result.IsLoginWall {
		t.Fatalf("unexpected classification: %+v", result)
	}
	if !result.Retryable {
		t.Fatalf("timeout must be retryable")
	}
}

func TestGetPagePersistsDependents(t *testing.T) {
	h := newHarness(t, validSnapshot("depco"), nil)
	ctx := context.Background()

	if _, err := h.svc.GetPage(ctx, "depco", false); err != nil {
		t.Fatalf("GetPage: %v", err)
	}

	posts, total, err := h.svc.GetPosts(ctx, "depco", 1, 10)
	if err != nil {
		t.Fatalf("GetPosts: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Fatalf("expected 1 post, got total=%d len=%d", total, len(posts))
	}

	employees, total, err := h.svc.GetEmployees(ctx, "depco", 1, 10)
	if err != nil {
		t.Fatalf("GetEmployees: %v", err)
	}
	if total != 1 || len(employees) != 1 {
		t.Fatalf("expected 1 employee, got total=%d len=%d", total, len(employees))
	}
}

func TestGetPostsForMissingPage(t *testing.T) {
	h := newHarness(t, validSnapshot("unused"), nil)

	_, _, err := h.svc.GetPosts(context.Background(), "never-scraped", 1, 10)
	if err != ErrPageNotFound {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestDeletePageCascades(t *testing.T) {
	h := newHarness(t, validSnapshot("delco"), nil)
	ctx := context.Background()

	if _, err := h.svc.GetPage(ctx, "delco", false); err != nil {
		t.Fatalf("GetPage: %v", err)
	}

	deleted, err := h.svc.DeletePage(ctx, "delco")
	if err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if !deleted {
		t.Fatalf("expected delete to report true")
	}

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"pages", &types.Page{}},
		{"posts", &types.Post{}},
		{"employees", &types.Employee{}},
		{"comments", &types.Comment{}},
	} {
		var count int64
		if err := h.db.Model(probe.model).Where("page_id = ?", "delco").Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", probe.name, err)
		}
		if count != 0 {
			t.Fatalf("cascade left %d rows in %s", count, probe.name)
		}
	}

	deleted, err = h.svc.DeletePage(ctx, "delco")
	if err != nil {
		t.Fatalf("DeletePage (missing): %v", err)
	}
	if deleted {
		t.Fatalf("deleting a missing page must report false")
	}
}

func TestSearchPagesPagination(t *testing.T) {
	h := newHarness(t, validSnapshot("searchco"), nil)
	ctx := context.Background()

	if _, err := h.svc.GetPage(ctx, "searchco", false); err != nil {
		t.Fatalf("GetPage: %v", err)
	}

	results, total, err := h.svc.SearchPages(ctx, repos.SearchParams{Name: "searchco-no-match"}, 1, 10)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if total != 0 || len(results) != 0 {
		t.Fatalf("expected empty result, got total=%d", total)
	}
}
