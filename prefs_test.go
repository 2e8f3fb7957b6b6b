package lessonstore

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

// checkingLogger records events and, at log time, snapshots what the store
// holds for the changed preference. That is how the tests pin down the
// write-then-log ordering.
type checkingLogger struct {
	events []Event
	stored []string
	store  Store
}

func (l *checkingLogger) Log(ev Event) {
	raw, _, _ := l.store.Get(context.Background(), preferenceKey(ev.Preference))
	l.events = append(l.events, ev)
	l.stored = append(l.stored, raw)
}

func TestPreferenceDefaults(t *testing.T) {
	prefs := NewPreferences(NewMemoryStore(), nil)
	ctx := context.Background()

	if v, err := AutoDeleteFinished.Get(ctx, prefs); err != nil || v != false {
		t.Fatalf("auto-delete-finished: %v %v", v, err)
	}
	if v, err := StreamQuality.Get(ctx, prefs); err != nil || v != "high" {
		t.Fatalf("stream-quality: %v %v", v, err)
	}
	if v, err := DownloadQuality.Get(ctx, prefs); err != nil || v != "high" {
		t.Fatalf("download-quality: %v %v", v, err)
	}
	if v, err := DownloadOnlyOnWifi.Get(ctx, prefs); err != nil || v != true {
		t.Fatalf("download-only-on-wifi: %v %v", v, err)
	}
	if v, err := AllowDataCollection.Get(ctx, prefs); err != nil || v != true {
		t.Fatalf("allow-data-collection: %v %v", v, err)
	}
	if v, err := IsFirstLoad.Get(ctx, prefs); err != nil || v != true {
		t.Fatalf("is-first-load: %v %v", v, err)
	}
	if v, err := RatingButtonDismissed.Get(ctx, prefs); err != nil || v != (RatingDismissal{}) {
		t.Fatalf("rating-button-dismissed: %+v %v", v, err)
	}
	if v, err := KillswitchCourseVersionV1.Get(ctx, prefs); err != nil || v != false {
		t.Fatalf("killswitch-course-version-v1: %v %v", v, err)
	}
}

func TestPreferenceDefaultNotPersisted(t *testing.T) {
	store := NewMemoryStore()
	prefs := NewPreferences(store, nil)
	ctx := context.Background()

	if _, err := IsFirstLoad.Get(ctx, prefs); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, found, _ := store.Get(ctx, "@preferences/is-first-load"); found {
		t.Fatal("reading a default must not write it back")
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	prefs := NewPreferences(NewMemoryStore(), nil)
	ctx := context.Background()

	if err := AutoDeleteFinished.Set(ctx, prefs, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := AutoDeleteFinished.Get(ctx, prefs); err != nil || v != true {
		t.Fatalf("bool round trip: %v %v", v, err)
	}

	if err := StreamQuality.Set(ctx, prefs, "low"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := StreamQuality.Get(ctx, prefs); err != nil || v != "low" {
		t.Fatalf("string round trip: %v %v", v, err)
	}

	dismissal := RatingDismissal{Dismissed: true, DismissedAt: "2026-08-30T10:00:00Z"}
	if err := RatingButtonDismissed.Set(ctx, prefs, dismissal); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := RatingButtonDismissed.Get(ctx, prefs); err != nil || v != dismissal {
		t.Fatalf("json round trip: %+v %v", v, err)
	}

	if err := KillswitchCourseVersionV1.Set(ctx, prefs, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := KillswitchCourseVersionV1.Get(ctx, prefs); err != nil || v != true {
		t.Fatalf("killswitch round trip: %v %v", v, err)
	}
}

func TestPreferenceStoredForm(t *testing.T) {
	store := NewMemoryStore()
	prefs := NewPreferences(store, nil)
	ctx := context.Background()

	if err := DownloadOnlyOnWifi.Set(ctx, prefs, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, found, _ := store.Get(ctx, "@preferences/download-only-on-wifi")
	if !found || raw != "false" {
		t.Fatalf("expected stored \"false\", got %q found=%v", raw, found)
	}

	if err := RatingButtonDismissed.Set(ctx, prefs, RatingDismissal{Dismissed: true}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, found, _ = store.Get(ctx, "@preferences/rating-button-dismissed")
	if !found || raw != `{"dismissed":true}` {
		t.Fatalf("expected stored JSON object, got %q found=%v", raw, found)
	}
}

func TestSetLogsAfterWrite(t *testing.T) {
	store := NewMemoryStore()
	logger := &checkingLogger{store: store}
	prefs := NewPreferences(store, logger)
	ctx := context.Background()

	if err := AllowDataCollection.Set(ctx, prefs, false); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if len(logger.events) != 1 {
		t.Fatalf("expected one event, got %d", len(logger.events))
	}
	ev := logger.events[0]
	if ev.Name != "preference_changed" || ev.Preference != "allow-data-collection" || ev.Value != "false" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	// The sink must already see the new value when the event arrives.
	if logger.stored[0] != "false" {
		t.Fatalf("event fired before the write landed, store held %q", logger.stored[0])
	}
}

func TestSetDoesNotLogOnStoreFailure(t *testing.T) {
	storeErr := errors.New("store offline")
	logger := &checkingLogger{store: &failingStore{err: storeErr}}
	prefs := NewPreferences(&failingStore{err: storeErr}, logger)

	err := AllowDataCollection.Set(context.Background(), prefs, false)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(logger.events) != 0 {
		t.Fatalf("expected no event after failed write, got %v", logger.events)
	}
}

func TestPreferenceDecodeFailure(t *testing.T) {
	store := NewMemoryStore()
	prefs := NewPreferences(store, nil)
	ctx := context.Background()

	store.Set(ctx, "@preferences/auto-delete-finished", "maybe")

	_, err := AutoDeleteFinished.Get(ctx, prefs)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	names := []string{
		"auto-delete-finished",
		"stream-quality",
		"download-quality",
		"download-only-on-wifi",
		"allow-data-collection",
		"is-first-load",
		"rating-button-dismissed",
		"killswitch-course-version-v1",
	}
	for _, name := range names {
		p, ok := LookupPreference(name)
		if !ok {
			t.Fatalf("preference %q not registered", name)
		}
		if p.Name() != name {
			t.Fatalf("descriptor name mismatch: %q vs %q", p.Name(), name)
		}
	}
	if _, ok := LookupPreference("no-such-preference"); ok {
		t.Fatal("unknown preference must not resolve")
	}
	if len(PreferenceNames()) != len(names) {
		t.Fatalf("expected %d registered preferences, got %d", len(names), len(PreferenceNames()))
	}
}

func TestRegisteredPrefStrings(t *testing.T) {
	prefs := NewPreferences(NewMemoryStore(), nil)
	ctx := context.Background()

	p, _ := LookupPreference("stream-quality")
	if v, err := p.GetString(ctx, prefs); err != nil || v != "high" {
		t.Fatalf("default via registry: %q %v", v, err)
	}
	if err := p.SetString(ctx, prefs, "low"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if v, err := p.GetString(ctx, prefs); err != nil || v != "low" {
		t.Fatalf("round trip via registry: %q %v", v, err)
	}

	b, _ := LookupPreference("auto-delete-finished")
	if err := b.SetString(ctx, prefs, "not-a-bool"); err == nil {
		t.Fatal("expected invalid bool to be rejected before writing")
	}
}

func TestReadPreference(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	v, err := ReadPreference(ctx, store, "download-only-on-wifi", true, strconv.ParseBool)
	if err != nil || v != true {
		t.Fatalf("expected default true, got %v %v", v, err)
	}

	store.Set(ctx, "@preferences/download-only-on-wifi", "false")
	v, err = ReadPreference(ctx, store, "download-only-on-wifi", true, strconv.ParseBool)
	if err != nil || v != false {
		t.Fatalf("expected stored false, got %v %v", v, err)
	}
}
