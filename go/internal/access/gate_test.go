package access_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/nflreplay/go/internal/access"
	"github.com/mcdev12/nflreplay/go/internal/storage"
)

func newGate(t *testing.T) (*access.Gate, *storage.MemoryStore, *clockwork.FakeClock) {
	t.Helper()
	store := storage.NewMemoryStore()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 9, 8, 13, 0, 0, 0, time.UTC))
	return access.NewGate(storage.NewAccessor(store), clock), store, clock
}

func stored(t *testing.T, store *storage.MemoryStore, gameID string) string {
	t.Helper()
	v, _, _ := store.Get(context.Background(), access.Key(gameID))
	return v
}

func TestCheck_FirstVisitIsValid(t *testing.T) {
	gate, _, _ := newGate(t)

	got := gate.Check(context.Background(), "401671789")
	if !got.IsValid || got.HasTimestamp {
		t.Errorf("Check = %+v, want valid without timestamp", got)
	}
}

func TestCheck_Boundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"just granted", 0, true},
		{"one ms before expiry", access.Duration - time.Millisecond, true},
		{"exactly at duration", access.Duration, false},
		{"long after", 3 * access.Duration, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			gate, _, clock := newGate(t)

			gate.Grant(ctx, "1")
			clock.Advance(tt.elapsed)

			got := gate.Check(ctx, "1")
			if got.IsValid != tt.want || !got.HasTimestamp {
				t.Errorf("Check after %v = %+v, want IsValid=%v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestCheck_UnparseableTimestampTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	gate, store, _ := newGate(t)
	_ = store.Set(ctx, access.Key("1"), "not-a-number")

	got := gate.Check(ctx, "1")
	if !got.IsValid || got.HasTimestamp {
		t.Errorf("Check = %+v, want valid without timestamp", got)
	}
}

func TestValidate_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	gate, store, clock := newGate(t)

	first := gate.Validate(ctx, "1")
	if !first.IsValid || first.ShouldRedirect {
		t.Fatalf("first Validate = %+v", first)
	}
	firstTS := stored(t, store, "1")

	clock.Advance(30 * time.Minute)
	second := gate.Validate(ctx, "1")
	if !second.IsValid || second.ShouldRedirect {
		t.Fatalf("second Validate = %+v", second)
	}
	secondTS := stored(t, store, "1")
	if secondTS == firstTS {
		t.Fatal("timestamp was not refreshed on valid access")
	}

	// 50 minutes after the refresh is still inside the window
	clock.Advance(50 * time.Minute)
	if v := gate.Validate(ctx, "1"); !v.IsValid {
		t.Fatalf("Validate after refresh = %+v, want valid", v)
	}
}

func TestValidate_ExpiredLeavesTimestamp(t *testing.T) {
	ctx := context.Background()
	gate, store, clock := newGate(t)

	gate.Validate(ctx, "1")
	before := stored(t, store, "1")

	clock.Advance(access.Duration)
	got := gate.Validate(ctx, "1")

	if got.IsValid || !got.ShouldRedirect {
		t.Fatalf("Validate = %+v, want redirect", got)
	}
	if after := stored(t, store, "1"); after != before {
		t.Errorf("timestamp changed on expired access: %s -> %s", before, after)
	}
}

func TestValidate_NoStoreIsAdvisory(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	gate := access.NewGate(storage.NewAccessor(storage.NoopStore{}), clock)

	for i := 0; i < 3; i++ {
		got := gate.Validate(ctx, "1")
		if !got.IsValid || got.ShouldRedirect {
			t.Fatalf("Validate = %+v, want valid", got)
		}
		clock.Advance(2 * access.Duration)
	}
}

func TestGrant_StoresMillis(t *testing.T) {
	ctx := context.Background()
	gate, store, clock := newGate(t)

	gate.Grant(ctx, "1")

	want := strconv.FormatInt(clock.Now().UnixMilli(), 10)
	if got := stored(t, store, "1"); got != want {
		t.Errorf("stored %q, want %q", got, want)
	}
}

func TestRemaining(t *testing.T) {
	ctx := context.Background()
	gate, _, clock := newGate(t)

	if _, ok := gate.Remaining(ctx, "1"); ok {
		t.Fatal("Remaining reported a timestamp before any grant")
	}

	gate.Grant(ctx, "1")
	clock.Advance(15 * time.Minute)
	if left, ok := gate.Remaining(ctx, "1"); !ok || left != 45*time.Minute {
		t.Errorf("Remaining = %v, %v; want 45m", left, ok)
	}

	clock.Advance(2 * time.Hour)
	if left, _ := gate.Remaining(ctx, "1"); left != 0 {
		t.Errorf("Remaining after expiry = %v, want 0", left)
	}
}

func TestClearAll_KeepsUnrelatedKeys(t *testing.T) {
	ctx := context.Background()
	gate, store, _ := newGate(t)

	gate.Grant(ctx, "1")
	gate.Grant(ctx, "2")
	_ = store.Set(ctx, "favorite_team", "DEN")

	gate.ClearAll(ctx)

	if keys, _ := store.Keys(ctx, access.KeyPrefix); len(keys) != 0 {
		t.Errorf("access keys left after ClearAll: %v", keys)
	}
	if v, ok, _ := store.Get(ctx, "favorite_team"); !ok || v != "DEN" {
		t.Error("ClearAll removed an unrelated key")
	}
}
