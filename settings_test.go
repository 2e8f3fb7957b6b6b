package lessonstore

import (
	"context"
	"testing"
)

func TestAutopause_UnsetByDefault(t *testing.T) {
	prefs := NewPreferences(NewMemoryStore(), nil)

	_, found, err := prefs.Autopause(context.Background())
	if err != nil {
		t.Fatalf("Autopause: %v", err)
	}
	if found {
		t.Fatal("expected no stored autopause setting")
	}
}

func TestAutopause_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	prefs := NewPreferences(store, nil)
	ctx := context.Background()

	want := Autopause{Type: AutopauseTimed, TimedDelay: 30}
	if err := prefs.SetAutopause(ctx, want); err != nil {
		t.Fatalf("SetAutopause: %v", err)
	}

	got, found, err := prefs.Autopause(ctx)
	if err != nil || !found {
		t.Fatalf("Autopause: found=%v err=%v", found, err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, want)
	}

	// Stored form is the exact JSON shape other app versions read.
	raw, _, _ := store.Get(ctx, "@global-setting/autopause")
	if raw != `{"type":"timed","timedDelay":30}` {
		t.Fatalf("unexpected stored form: %q", raw)
	}

	if err := prefs.SetAutopause(ctx, Autopause{Type: AutopauseOff}); err != nil {
		t.Fatalf("SetAutopause: %v", err)
	}
	raw, _, _ = store.Get(ctx, "@global-setting/autopause")
	if raw != `{"type":"off"}` {
		t.Fatalf("unexpected stored form: %q", raw)
	}
}
