package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/nflreplay/go/internal/storage"
)

type failingStore struct{}

var errBoom = errors.New("boom")

func (failingStore) Get(context.Context, string) (string, bool, error) { return "x", true, errBoom }
func (failingStore) Set(context.Context, string, string) error         { return errBoom }
func (failingStore) Remove(context.Context, string) error              { return errBoom }
func (failingStore) Keys(context.Context, string) ([]string, error)    { return nil, errBoom }

func TestAccessor_MemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := storage.NewAccessor(storage.NewMemoryStore())

	if _, ok := a.Get(ctx, "missing"); ok {
		t.Fatal("expected missing key to be absent")
	}

	a.Set(ctx, "k", "v")
	if v, ok := a.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v; want v, true", v, ok)
	}

	a.Remove(ctx, "k")
	if _, ok := a.Get(ctx, "k"); ok {
		t.Fatal("expected removed key to be absent")
	}
}

func TestAccessor_ClearPrefixLeavesOtherKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a := storage.NewAccessor(store)

	a.Set(ctx, "game_access_1", "1")
	a.Set(ctx, "game_access_2", "2")
	a.Set(ctx, "theme", "dark")

	a.ClearPrefix(ctx, "game_access_")

	keys, _ := store.Keys(ctx, "")
	if diff := cmp.Diff([]string{"theme"}, keys); diff != "" {
		t.Errorf("remaining keys mismatch (-want +got):\n%s", diff)
	}
}

func TestAccessor_SwallowsStoreErrors(t *testing.T) {
	ctx := context.Background()
	a := storage.NewAccessor(failingStore{})

	if v, ok := a.Get(ctx, "k"); ok || v != "" {
		t.Errorf("Get on failing store = %q, %v; want absent", v, ok)
	}
	a.Set(ctx, "k", "v")
	a.Remove(ctx, "k")
	a.ClearPrefix(ctx, "k")
}

func TestAccessor_Available(t *testing.T) {
	tests := []struct {
		name  string
		store storage.Store
		want  bool
	}{
		{"nil", nil, false},
		{"noop", storage.NoopStore{}, false},
		{"namespaced noop", storage.NewNamespaced(storage.NoopStore{}, "v1"), false},
		{"memory", storage.NewMemoryStore(), true},
		{"namespaced memory", storage.NewNamespaced(storage.NewMemoryStore(), "v1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.NewAccessor(tt.store).Available(); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNamespaced_IsolatesViewers(t *testing.T) {
	ctx := context.Background()
	base := storage.NewMemoryStore()
	alice := storage.NewAccessor(storage.NewNamespaced(base, "alice"))
	bob := storage.NewAccessor(storage.NewNamespaced(base, "bob"))

	alice.Set(ctx, "game_access_1", "100")
	bob.Set(ctx, "game_access_1", "200")

	if v, _ := alice.Get(ctx, "game_access_1"); v != "100" {
		t.Errorf("alice sees %q, want 100", v)
	}

	alice.ClearPrefix(ctx, "game_access_")

	if _, ok := alice.Get(ctx, "game_access_1"); ok {
		t.Error("alice key survived ClearPrefix")
	}
	if v, _ := bob.Get(ctx, "game_access_1"); v != "200" {
		t.Errorf("bob sees %q after alice cleared, want 200", v)
	}

	keys, _ := base.Keys(ctx, "")
	if diff := cmp.Diff([]string{"viewer:bob:game_access_1"}, keys); diff != "" {
		t.Errorf("raw keys mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		backend string
		wantOK  bool
	}{
		{"default is memory", "", true},
		{"memory", storage.BackendMemory, true},
		{"none", storage.BackendNone, false},
		{"redis without client", storage.BackendRedis, false},
		{"postgres without db", storage.BackendPostgres, false},
		{"unknown", "floppy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.New(ctx, storage.Config{Backend: tt.backend}, storage.Deps{})
			if got := storage.NewAccessor(s).Available(); got != tt.wantOK {
				t.Errorf("Available() = %v, want %v", got, tt.wantOK)
			}
		})
	}
}
