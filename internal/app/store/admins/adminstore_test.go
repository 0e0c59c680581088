package adminstore_test

import (
	"testing"

	adminstore "github.com/dalemusser/facultyhub/internal/app/store/admins"
	"github.com/dalemusser/facultyhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *adminstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return adminstore.New(db, zap.NewNop())
}

func TestIsAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateAdmin(ctx, "dean@uni.edu", "Dean Admin")

	ok, err := store.IsAdmin(ctx, "Dean@Uni.EDU")
	if err != nil {
		t.Fatalf("IsAdmin failed: %v", err)
	}
	if !ok {
		t.Error("expected dean@uni.edu to be an admin")
	}

	ok, err = store.IsAdmin(ctx, "prof@uni.edu")
	if err != nil {
		t.Fatalf("IsAdmin failed: %v", err)
	}
	if ok {
		t.Error("expected prof@uni.edu not to be an admin")
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByEmail(ctx, "nobody@uni.edu")
	if err != adminstore.ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestEnsureSuperAdmin_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureSuperAdmin(ctx, "root@uni.edu", "Superadmin", "first-password"); err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}
	// Second run with a different password must not rotate the hash.
	if err := store.EnsureSuperAdmin(ctx, "root@uni.edu", "Superadmin", "second-password"); err != nil {
		t.Fatalf("second EnsureSuperAdmin failed: %v", err)
	}

	if _, err := store.Authenticate(ctx, "root@uni.edu", "first-password"); err != nil {
		t.Errorf("original password rejected: %v", err)
	}
	if _, err := store.Authenticate(ctx, "root@uni.edu", "second-password"); err != adminstore.ErrBadCredentials {
		t.Errorf("rotated password: got %v, want ErrBadCredentials", err)
	}
}

func TestAuthenticate(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureSuperAdmin(ctx, "root@uni.edu", "Superadmin", "s3cret"); err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}

	a, err := store.Authenticate(ctx, "ROOT@uni.edu", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if a.Email != "root@uni.edu" {
		t.Errorf("got email %q", a.Email)
	}

	if _, err := store.Authenticate(ctx, "root@uni.edu", "wrong"); err != adminstore.ErrBadCredentials {
		t.Errorf("wrong password: got %v, want ErrBadCredentials", err)
	}
	if _, err := store.Authenticate(ctx, "ghost@uni.edu", "s3cret"); err != adminstore.ErrBadCredentials {
		t.Errorf("unknown email: got %v, want ErrBadCredentials", err)
	}
}

func TestAuthenticate_OAuthOnlyAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateAdmin(ctx, "oauth@uni.edu", "OAuth Admin") // no password hash

	if _, err := store.Authenticate(ctx, "oauth@uni.edu", "anything"); err != adminstore.ErrBadCredentials {
		t.Errorf("got %v, want ErrBadCredentials", err)
	}
}
