package pages

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/pageinsights-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pageinsights-backend/internal/domain"
)

func newTestPage(pageID string) *types.Page {
	return &types.Page{
		PageID:        pageID,
		Name:          "Acme Corporation",
		URL:           "https://www.linkedin.com/company/" + pageID,
		Industry:      "Software",
		FollowerCount: 1200,
		Specialities:  datatypes.NewJSONSlice([]string{"robotics", "ai"}),
		ScrapedAt:     time.Now().UTC(),
	}
}

func TestPageRepoUpsertIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPageRepo(db, testutil.Logger(t))
	ctx := context.Background()

	first, err := repo.Upsert(ctx, tx, newTestPage("acme"))
	if err != nil {
		t.Fatalf("Upsert (insert): %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected a surrogate id after insert")
	}

	update := newTestPage("acme")
	update.Name = "Acme Corp (Rebranded)"
	update.FollowerCount = 5400

	second, err := repo.Upsert(ctx, tx, update)
	if err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("surrogate id changed on upsert: %d -> %d", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed on upsert: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.Name != "Acme Corp (Rebranded)" || second.FollowerCount != 5400 {
		t.Fatalf("mutable fields not overwritten: %+v", second)
	}

	var count int64
	if err := tx.Model(&types.Page{}).Where("page_id = ?", "acme").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single row for the natural key, got %d", count)
	}
}

func TestPageRepoGetMissingReturnsNil(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPageRepo(db, testutil.Logger(t))

	got, err := repo.GetByPageID(context.Background(), tx, "no-such-page")
	if err != nil {
		t.Fatalf("GetByPageID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing page, got %+v", got)
	}
}

func TestPageRepoSearchFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPageRepo(db, testutil.Logger(t))
	ctx := context.Background()

	small := newTestPage("smallco")
	small.Name = "SmallCo"
	small.Industry = "Retail"
	small.FollowerCount = 50

	big := newTestPage("bigco")
	big.Name = "BigCo Industries"
	big.Industry = "Software"
	big.FollowerCount = 90000

	for _, p := range []*types.Page{small, big} {
		if _, err := repo.Upsert(ctx, tx, p); err != nil {
			t.Fatalf("Upsert(%s): %v", p.PageID, err)
		}
	}

	min := 1000
	results, total, err := repo.Search(ctx, tx, SearchParams{Industry: "software", MinFollowers: &min}, 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(results) != 1 || results[0].PageID != "bigco" {
		t.Fatalf("unexpected search result: total=%d results=%+v", total, results)
	}

	results, total, err = repo.Search(ctx, tx, SearchParams{Name: "co"}, 0, 10)
	if err != nil {
		t.Fatalf("Search by name: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected case-insensitive substring match on both rows, got %d", total)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestPageRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPageRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, tx, newTestPage("deleteme")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	deleted, err := repo.Delete(ctx, tx, "deleteme")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatalf("expected delete to report a removed row")
	}

	deleted, err = repo.Delete(ctx, tx, "deleteme")
	if err != nil {
		t.Fatalf("Delete (missing): %v", err)
	}
	if deleted {
		t.Fatalf("expected delete of missing row to report false")
	}
}
