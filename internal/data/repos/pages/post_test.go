package pages

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/pageinsights-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pageinsights-backend/internal/domain"
)

func TestPostRepoUpsertAndOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	pageRepo := NewPageRepo(db, testutil.Logger(t))
	repo := NewPostRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := pageRepo.Upsert(ctx, tx, newTestPage("acme")); err != nil {
		t.Fatalf("page Upsert: %v", err)
	}

	older := time.Now().UTC().Add(-48 * time.Hour)
	newer := time.Now().UTC().Add(-1 * time.Hour)

	posts := []*types.Post{
		{PostID: "acme_p1", PageID: "acme", Content: "old news", PostedAt: &older, ScrapedAt: time.Now().UTC()},
		{PostID: "acme_p2", PageID: "acme", Content: "fresh news", PostedAt: &newer, ScrapedAt: time.Now().UTC()},
		{PostID: "acme_p3", PageID: "acme", Content: "undated", ScrapedAt: time.Now().UTC()},
	}
	stored, err := repo.UpsertMany(ctx, tx, posts)
	if err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored posts, got %d", len(stored))
	}

	// Re-upserting the same external id must update in place.
	again, err := repo.Upsert(ctx, tx, &types.Post{
		PostID:    "acme_p1",
		PageID:    "acme",
		Content:   "old news, edited",
		LikeCount: 7,
		PostedAt:  &older,
		ScrapedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	if again.ID != stored[0].ID {
		t.Fatalf("surrogate id changed on post upsert: %d -> %d", stored[0].ID, again.ID)
	}

	listed, total, err := repo.GetByPageID(ctx, tx, "acme", 0, 10)
	if err != nil {
		t.Fatalf("GetByPageID: %v", err)
	}
	if total != 3 || len(listed) != 3 {
		t.Fatalf("expected 3 posts, got total=%d len=%d", total, len(listed))
	}
	if listed[0].PostID != "acme_p2" || listed[1].PostID != "acme_p1" {
		t.Fatalf("expected recency ordering, got %s then %s", listed[0].PostID, listed[1].PostID)
	}
	if listed[2].PostID != "acme_p3" {
		t.Fatalf("expected undated post last, got %s", listed[2].PostID)
	}
	if listed[1].Content != "old news, edited" || listed[1].LikeCount != 7 {
		t.Fatalf("post update not persisted: %+v", listed[1])
	}
}

func TestPostRepoPagination(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	pageRepo := NewPageRepo(db, testutil.Logger(t))
	repo := NewPostRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := pageRepo.Upsert(ctx, tx, newTestPage("pagedco")); err != nil {
		t.Fatalf("page Upsert: %v", err)
	}

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		at := base.Add(-time.Duration(i) * time.Hour)
		if _, err := repo.Upsert(ctx, tx, &types.Post{
			PostID:    "pagedco_p" + string(rune('a'+i)),
			PageID:    "pagedco",
			Content:   "post",
			PostedAt:  &at,
			ScrapedAt: base,
		}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	pageTwo, total, err := repo.GetByPageID(ctx, tx, "pagedco", 2, 2)
	if err != nil {
		t.Fatalf("GetByPageID: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(pageTwo) != 2 {
		t.Fatalf("expected page of 2, got %d", len(pageTwo))
	}
}

func TestPostRepoDeleteByPageID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	pageRepo := NewPageRepo(db, testutil.Logger(t))
	repo := NewPostRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := pageRepo.Upsert(ctx, tx, newTestPage("gone")); err != nil {
		t.Fatalf("page Upsert: %v", err)
	}
	for _, id := range []string{"gone_p1", "gone_p2"} {
		if _, err := repo.Upsert(ctx, tx, &types.Post{PostID: id, PageID: "gone", ScrapedAt: time.Now().UTC()}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	n, err := repo.DeleteByPageID(ctx, tx, "gone")
	if err != nil {
		t.Fatalf("DeleteByPageID: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted posts, got %d", n)
	}

	n, err = repo.DeleteByPageID(ctx, tx, "gone")
	if err != nil {
		t.Fatalf("DeleteByPageID (empty): %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 on second delete, got %d", n)
	}
}
