package main

import (
	"context"
	"log/slog"
	"strconv"

	lessonstore "github.com/wozniakbe/lesson-store"
)

// telemetry is the daemon's event sink. Before transmitting it re-reads
// allow-data-collection from the store, which is why the setter logs only
// after its own write has landed: an opt-out takes effect on the very event
// that records it.
type telemetry struct {
	store  lessonstore.Store
	logger *slog.Logger
}

func (t *telemetry) Log(ev lessonstore.Event) {
	allowed, err := lessonstore.ReadPreference(context.Background(), t.store,
		lessonstore.AllowDataCollection.Name(), lessonstore.AllowDataCollection.Default(), strconv.ParseBool)
	if err != nil || !allowed {
		return
	}
	t.logger.Info("telemetry",
		"event", ev.Name,
		"preference", ev.Preference,
		"value", ev.Value,
	)
}
