package testsupport

import (
	"context"
	"testing"

	"sentinel/internal/catalog"
	"sentinel/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustUpsertCamera mirrors a camera row for tests.
func MustUpsertCamera(t testing.TB, store *catalog.Store, id string) {
	t.Helper()

	err := store.UpsertCamera(context.Background(), catalog.CameraRow{
		ID:      id,
		Name:    "Camera " + id,
		Address: "192.0.2.10",
	})
	if err != nil {
		t.Fatalf("store.UpsertCamera: %v", err)
	}
}
