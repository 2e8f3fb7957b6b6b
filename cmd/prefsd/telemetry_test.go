package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	lessonstore "github.com/wozniakbe/lesson-store"
)

func TestTelemetry_OptOutSilencesOwnChangeEvent(t *testing.T) {
	store := lessonstore.NewMemoryStore()
	var buf bytes.Buffer
	sink := &telemetry{store: store, logger: slog.New(slog.NewTextHandler(&buf, nil))}
	prefs := lessonstore.NewPreferences(store, sink)
	ctx := context.Background()

	// Opting out must silence the event recording the opt-out itself: the
	// setter writes first, the sink re-reads the stored value.
	if err := lessonstore.AllowDataCollection.Set(ctx, prefs, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if strings.Contains(buf.String(), "telemetry") {
		t.Fatalf("expected no telemetry after opt-out, got %q", buf.String())
	}

	// Opting back in is transmitted, because the new value is already stored
	// when the sink checks.
	if err := lessonstore.AllowDataCollection.Set(ctx, prefs, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !strings.Contains(buf.String(), "allow-data-collection") {
		t.Fatalf("expected telemetry after opt-in, got %q", buf.String())
	}
}

func TestTelemetry_DefaultAllows(t *testing.T) {
	store := lessonstore.NewMemoryStore()
	var buf bytes.Buffer
	sink := &telemetry{store: store, logger: slog.New(slog.NewTextHandler(&buf, nil))}
	prefs := lessonstore.NewPreferences(store, sink)

	if err := lessonstore.StreamQuality.Set(context.Background(), prefs, "low"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !strings.Contains(buf.String(), "stream-quality") {
		t.Fatalf("expected telemetry with default opt-in, got %q", buf.String())
	}
}
