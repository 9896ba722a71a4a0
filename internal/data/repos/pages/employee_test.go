package pages

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/pageinsights-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pageinsights-backend/internal/domain"
)

func TestEmployeeRepoCompositeKeyUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	pageRepo := NewPageRepo(db, testutil.Logger(t))
	repo := NewEmployeeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := pageRepo.Upsert(ctx, tx, newTestPage("acme")); err != nil {
		t.Fatalf("page Upsert: %v", err)
	}
	if _, err := pageRepo.Upsert(ctx, tx, newTestPage("globex")); err != nil {
		t.Fatalf("page Upsert: %v", err)
	}

	first, err := repo.Upsert(ctx, tx, &types.Employee{
		PageID:      "acme",
		Name:        "Jane Doe",
		Designation: "Engineer",
		ScrapedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Upsert (insert): %v", err)
	}

	// Same name on a different page is a different employee.
	other, err := repo.Upsert(ctx, tx, &types.Employee{
		PageID:    "globex",
		Name:      "Jane Doe",
		ScrapedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Upsert (other page): %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("employees on different pages must not collide")
	}

	updated, err := repo.Upsert(ctx, tx, &types.Employee{
		PageID:      "acme",
		Name:        "Jane Doe",
		Designation: "Staff Engineer",
		Location:    "Berlin",
		ScrapedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	if updated.ID != first.ID {
		t.Fatalf("surrogate id changed on employee upsert: %d -> %d", first.ID, updated.ID)
	}
	if updated.Designation != "Staff Engineer" || updated.Location != "Berlin" {
		t.Fatalf("employee update not applied: %+v", updated)
	}
}

func TestEmployeeRepoListingAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	pageRepo := NewPageRepo(db, testutil.Logger(t))
	repo := NewEmployeeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := pageRepo.Upsert(ctx, tx, newTestPage("staffco")); err != nil {
		t.Fatalf("page Upsert: %v", err)
	}

	employees := []*types.Employee{
		{PageID: "staffco", Name: "Zoe", ScrapedAt: time.Now().UTC()},
		{PageID: "staffco", Name: "Amir", ScrapedAt: time.Now().UTC()},
	}
	if _, err := repo.UpsertMany(ctx, tx, employees); err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}

	listed, total, err := repo.GetByPageID(ctx, tx, "staffco", 0, 10)
	if err != nil {
		t.Fatalf("GetByPageID: %v", err)
	}
	if total != 2 || len(listed) != 2 {
		t.Fatalf("expected 2 employees, got total=%d len=%d", total, len(listed))
	}
	if listed[0].Name != "Amir" || listed[1].Name != "Zoe" {
		t.Fatalf("expected name ordering, got %s then %s", listed[0].Name, listed[1].Name)
	}

	n, err := repo.DeleteByPageID(ctx, tx, "staffco")
	if err != nil {
		t.Fatalf("DeleteByPageID: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted employees, got %d", n)
	}
}
