package testsupport

import (
	"context"
	"testing"

	"scribe/internal/config"
	"scribe/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewTask inserts a submitted task with the given id and url for tests.
func NewTask(t testing.TB, st *store.Store, id, url string) *store.Task {
	t.Helper()

	task := &store.Task{
		ID:        id,
		SourceURL: url,
		Status:    store.StatusSubmitted,
		Progress:  "submitted",
	}
	if err := st.Upsert(context.Background(), task); err != nil {
		t.Fatalf("store.Upsert: %v", err)
	}
	return task
}
