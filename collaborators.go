package lessonstore

import "context"

// DownloadManager is the slice of the download subsystem the persistence
// layer drives when a finished lesson should be cleaned up.
type DownloadManager interface {
	IsDownloaded(ctx context.Context, course string, lesson int) (bool, error)
	DeleteDownload(ctx context.Context, course string, lesson int) error
}

// CourseCatalog enumerates the lesson indices that exist for a course.
type CourseCatalog interface {
	LessonIndices(ctx context.Context, course string) ([]int, error)
}

// Event is a single telemetry record. Currently the only emitter is the
// preference setter.
type Event struct {
	Name       string
	Preference string
	Value      string
}

// EventLogger is a fire-and-forget telemetry sink. Implementations decide
// whether to transmit (the daemon's sink checks allow-data-collection) and
// must not block the caller on I/O.
type EventLogger interface {
	Log(event Event)
}
