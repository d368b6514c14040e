package repo

import (
	"context"
	"testing"

	"github.com/adib-hasan/gitboard/internal/account"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := account.NewStore(db).Migrate(); err != nil {
		t.Fatalf("account migration failed: %v", err)
	}
	return db
}

func strptr(s string) *string { return &s }

func seedAccount(t *testing.T, db *gorm.DB, a *account.Account) {
	if err := account.NewStore(db).Upsert(context.Background(), a); err != nil {
		t.Fatalf("seeding account failed: %v", err)
	}
}

func TestStore_UpsertAllIdempotent(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	store.Migrate()
	ctx := context.Background()

	seedAccount(t, db, &account.Account{OwnerID: "42", Name: "Ada", Login: "ada"})

	repos := []Repo{
		{ID: "7", OwnerID: "42", Name: "lib", Status: "public", Stars: 5, Forks: 2},
		{ID: "8", OwnerID: "42", Name: "tool", Status: "private", Stars: 0, Forks: 0},
	}

	if err := store.UpsertAll(ctx, repos); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if err := store.UpsertAll(ctx, repos); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	var count int64
	db.Model(&Repo{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 rows after repeated sync, got %d", count)
	}
}

func TestStore_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	store.Migrate()
	ctx := context.Background()

	seedAccount(t, db, &account.Account{OwnerID: "42", Name: "Ada", Login: "ada"})

	if err := store.Upsert(ctx, &Repo{ID: "7", OwnerID: "42", Name: "lib", Status: "public", Stars: 5}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, &Repo{ID: "7", OwnerID: "42", Name: "lib", Status: "private", Stars: 9, Forks: 1}); err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}

	repos, err := store.ListByOwner(ctx, "42")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(repos) != 1 {
		t.Fatalf("expected 1 repo, got %d", len(repos))
	}
	if repos[0].Status != "private" || repos[0].Stars != 9 || repos[0].Forks != 1 {
		t.Errorf("row not overwritten: %+v", repos[0])
	}
}

func TestStore_StaleRowsNotPruned(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	store.Migrate()
	ctx := context.Background()

	seedAccount(t, db, &account.Account{OwnerID: "42", Name: "Ada", Login: "ada"})

	store.UpsertAll(ctx, []Repo{
		{ID: "7", OwnerID: "42", Name: "lib", Status: "public"},
		{ID: "8", OwnerID: "42", Name: "old", Status: "public"},
	})
	// a later sync no longer returns repo 8
	store.UpsertAll(ctx, []Repo{
		{ID: "7", OwnerID: "42", Name: "lib", Status: "public"},
	})

	var count int64
	db.Model(&Repo{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected stale row to persist, got %d rows", count)
	}
}

func TestStore_ExportRows(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	store.Migrate()
	ctx := context.Background()

	seedAccount(t, db, &account.Account{OwnerID: "42", Name: "Ada", Login: "ada"})
	seedAccount(t, db, &account.Account{OwnerID: "99", Name: "Eve", Login: "eve", Email: strptr("eve@example.com")})

	store.Upsert(ctx, &Repo{ID: "7", OwnerID: "42", Name: "lib", Status: "public", Stars: 5, Forks: 2})
	store.Upsert(ctx, &Repo{ID: "13", OwnerID: "99", Name: "other", Status: "public", Stars: 1})

	rows, err := store.ExportRows(ctx, "42")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for owner 42, got %d", len(rows))
	}

	got := rows[0]
	if got.OwnerID != "42" || got.OwnerName != "Ada" || got.RepoID != "7" ||
		got.RepoName != "lib" || got.Status != "public" || got.Stars != 5 {
		t.Errorf("unexpected export row: %+v", got)
	}
	if got.OwnerEmail != nil {
		t.Errorf("owner email = %v, want NULL", *got.OwnerEmail)
	}
}
