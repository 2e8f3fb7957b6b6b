package lessonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// ProgressRecord is the playback state for one (course, lesson) pair. A nil
// Progress means the position was never reported; that is distinct from a
// missing record, which is the "never started" state and decodes to the zero
// record.
type ProgressRecord struct {
	Finished bool     `json:"finished"`
	Progress *float64 `json:"progress"`
}

// Activity reads and writes listening progress. Every progress write also
// moves the two recency pointers (most recent lesson per course, most recent
// course globally), unconditionally — the pointers track the last write, not
// wall-clock recency.
type Activity struct {
	store     Store
	catalog   CourseCatalog
	downloads DownloadManager
	prefs     *Preferences
}

// NewActivity creates the progress accessor.
func NewActivity(store Store, catalog CourseCatalog, downloads DownloadManager, prefs *Preferences) *Activity {
	return &Activity{store: store, catalog: catalog, downloads: downloads, prefs: prefs}
}

// ProgressForLesson returns the stored record for a lesson. An unset key is
// the untouched record (not finished, no position); a stored record is
// decoded as-is, with no shape validation beyond the JSON parse.
func (a *Activity) ProgressForLesson(ctx context.Context, course string, lesson int) (ProgressRecord, error) {
	key := progressKey(course, lesson)
	raw, found, err := a.store.Get(ctx, key)
	if err != nil {
		return ProgressRecord{}, fmt.Errorf("reading progress for %s: %w", key, err)
	}
	if !found {
		return ProgressRecord{}, nil
	}
	var rec ProgressRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return ProgressRecord{}, &DecodeError{Key: key, Err: err}
	}
	return rec, nil
}

// Progress is the nil-tolerant variant for callers holding an optional active
// lesson: a nil lesson means there is nothing to look up, and the store is
// not touched.
func (a *Activity) Progress(ctx context.Context, course string, lesson *int) (*ProgressRecord, error) {
	if lesson == nil {
		return nil, nil
	}
	rec, err := a.ProgressForLesson(ctx, course, *lesson)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateProgress overlays the new position onto the current record, keeping
// the finished flag as it was, and persists the result together with both
// recency pointers.
func (a *Activity) UpdateProgress(ctx context.Context, course string, lesson int, progress float64) error {
	rec, err := a.ProgressForLesson(ctx, course, lesson)
	if err != nil {
		return err
	}
	rec.Progress = &progress
	return a.writeProgress(ctx, course, lesson, rec)
}

// MarkFinished overlays finished=true onto the current record, persists it
// with both recency pointers, and then — only when auto-delete-finished is on
// and the lesson's download exists — removes the downloaded asset.
func (a *Activity) MarkFinished(ctx context.Context, course string, lesson int) error {
	rec, err := a.ProgressForLesson(ctx, course, lesson)
	if err != nil {
		return err
	}
	rec.Finished = true
	if err := a.writeProgress(ctx, course, lesson, rec); err != nil {
		return err
	}

	autoDelete, err := AutoDeleteFinished.Get(ctx, a.prefs)
	if err != nil {
		return err
	}
	if !autoDelete {
		return nil
	}
	downloaded, err := a.downloads.IsDownloaded(ctx, course, lesson)
	if err != nil {
		return fmt.Errorf("checking download for %s/%d: %w", course, lesson, err)
	}
	if !downloaded {
		return nil
	}
	if err := a.downloads.DeleteDownload(ctx, course, lesson); err != nil {
		return fmt.Errorf("deleting download for %s/%d: %w", course, lesson, err)
	}
	return nil
}

// writeProgress issues the record write and both pointer writes concurrently.
// The caller sees the first failure; sub-writes that already succeeded are
// not undone, so a failed composite write can leave a partial result.
func (a *Activity) writeProgress(ctx context.Context, course string, lesson int, rec ProgressRecord) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding progress record: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		return a.store.Set(ctx, progressKey(course, lesson), string(buf))
	})
	g.Go(func() error {
		return a.store.Set(ctx, mostRecentLessonKey(course), strconv.Itoa(lesson))
	})
	g.Go(func() error {
		return a.store.Set(ctx, mostRecentCourseKey, course)
	})
	return g.Wait()
}

// MostRecentCourse returns the globally most recently written-to course.
func (a *Activity) MostRecentCourse(ctx context.Context) (string, bool, error) {
	course, found, err := a.store.Get(ctx, mostRecentCourseKey)
	if err != nil {
		return "", false, fmt.Errorf("reading most recent course: %w", err)
	}
	return course, found, nil
}

// MostRecentLesson returns the most recently written-to lesson of a course.
func (a *Activity) MostRecentLesson(ctx context.Context, course string) (int, bool, error) {
	key := mostRecentLessonKey(course)
	raw, found, err := a.store.Get(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("reading most recent lesson for %q: %w", course, err)
	}
	if !found {
		return 0, false, nil
	}
	lesson, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, &DecodeError{Key: key, Err: err}
	}
	return lesson, true, nil
}

// DeleteCourseProgress removes every progress key the catalog reports for the
// course plus the per-course recency pointer, and clears the global pointer
// if it currently names this course. The global-pointer check is a read
// followed by a delete; a concurrent progress write to the same course can
// slip in between and be lost.
func (a *Activity) DeleteCourseProgress(ctx context.Context, course string) error {
	lessons, err := a.catalog.LessonIndices(ctx, course)
	if err != nil {
		return fmt.Errorf("listing lessons for %q: %w", course, err)
	}

	var g errgroup.Group
	for _, lesson := range lessons {
		g.Go(func() error {
			return a.store.Delete(ctx, progressKey(course, lesson))
		})
	}
	g.Go(func() error {
		return a.store.Delete(ctx, mostRecentLessonKey(course))
	})
	g.Go(func() error {
		current, found, err := a.store.Get(ctx, mostRecentCourseKey)
		if err != nil {
			return err
		}
		if !found || current != course {
			return nil
		}
		return a.store.Delete(ctx, mostRecentCourseKey)
	})
	return g.Wait()
}
