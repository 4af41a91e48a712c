package noticestore_test

import (
	"errors"
	"testing"
	"time"

	noticestore "github.com/AfrozSheikh/krushivarsa/internal/app/store/notices"
	"github.com/AfrozSheikh/krushivarsa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := noticestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, noticestore.CreateInput{
		Title:     "Seed fair",
		Content:   "Annual seed exchange at the district office.",
		CreatedBy: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if !created.IsActive {
		t.Error("expected new notice to be active")
	}
	if created.ExpiresAt != nil {
		t.Errorf("expected no expiry, got %v", created.ExpiresAt)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_List_ActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := noticestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	fixtures.Notice(admin, true, nil)      // active, no expiry
	fixtures.Notice(admin, true, &future)  // active, unexpired
	fixtures.Notice(admin, true, &past)    // expired
	fixtures.Notice(admin, false, nil)     // deactivated

	active, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active notices, got %d", len(active))
	}

	all, err := store.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 notices, got %d", len(all))
	}
}

func TestStore_ActiveTop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := noticestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		fixtures.Notice(admin, true, nil)
	}
	fixtures.Notice(admin, false, nil)

	top, err := store.ActiveTop(ctx, 3)
	if err != nil {
		t.Fatalf("ActiveTop failed: %v", err)
	}
	if len(top) != 3 {
		t.Errorf("expected 3 notices, got %d", len(top))
	}
	for _, n := range top {
		if !n.IsActive {
			t.Errorf("inactive notice %v in active feed", n.ID)
		}
	}
}

func TestStore_DeactivateExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := noticestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	expired := fixtures.Notice(admin, true, &past)
	fixtures.Notice(admin, true, &future)
	fixtures.Notice(admin, true, nil)
	fixtures.Notice(admin, false, &past) // already off, must not count

	n, err := store.DeactivateExpired(ctx)
	if err != nil {
		t.Fatalf("DeactivateExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deactivation, got %d", n)
	}

	active, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active notices, got %d", len(active))
	}
	for _, notice := range active {
		if notice.ID == expired.ID {
			t.Errorf("expired notice %v still active", notice.ID)
		}
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := noticestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n := fixtures.Notice(primitive.NewObjectID(), true, nil)

	inactive := false
	updated, err := store.Update(ctx, n.ID, noticestore.UpdateInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.IsActive {
		t.Error("expected notice deactivated")
	}
	if updated.Title != n.Title {
		t.Errorf("title changed by selective update: got %q", updated.Title)
	}

	// HasExpiry distinguishes "set expiry" and "clear expiry" from
	// "leave it alone".
	future := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	updated, err = store.Update(ctx, n.ID, noticestore.UpdateInput{ExpiresAt: &future, HasExpiry: true})
	if err != nil {
		t.Fatalf("Update set expiry failed: %v", err)
	}
	if updated.ExpiresAt == nil || !updated.ExpiresAt.Equal(future) {
		t.Errorf("expiry: got %v, want %v", updated.ExpiresAt, future)
	}

	updated, err = store.Update(ctx, n.ID, noticestore.UpdateInput{HasExpiry: true})
	if err != nil {
		t.Fatalf("Update clear expiry failed: %v", err)
	}
	if updated.ExpiresAt != nil {
		t.Errorf("expected expiry cleared, got %v", updated.ExpiresAt)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), noticestore.UpdateInput{IsActive: &inactive}); !errors.Is(err, noticestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := noticestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n := fixtures.Notice(primitive.NewObjectID(), true, nil)

	if err := store.Delete(ctx, n.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, n.ID); !errors.Is(err, noticestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
