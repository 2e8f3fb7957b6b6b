package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	lessonstore "github.com/wozniakbe/lesson-store"
)

// Handler exposes the persistence accessors over the local HTTP API.
type Handler struct {
	prefs    *lessonstore.Preferences
	activity *lessonstore.Activity
	metrics  *lessonstore.Metrics
	logger   *slog.Logger
}

// NewHandler creates a handler bound to the accessors.
func NewHandler(prefs *lessonstore.Preferences, activity *lessonstore.Activity, metrics *lessonstore.Metrics, logger *slog.Logger) *Handler {
	return &Handler{prefs: prefs, activity: activity, metrics: metrics, logger: logger}
}

// lessonParam parses the {lesson} path segment.
func lessonParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	lesson, err := strconv.Atoi(r.PathValue("lesson"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "lesson must be an integer")
		return 0, false
	}
	return lesson, true
}

// GetPreference returns a preference's current (or default) value as its
// stored string form.
func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	pref, ok := lessonstore.LookupPreference(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown preference")
		return
	}

	value, err := pref.GetString(r.Context(), h.prefs)
	if err != nil {
		h.logger.Error("preference read failed", "error", err, "preference", name)
		writeError(w, http.StatusInternalServerError, "failed to read preference")
		return
	}

	writeJSON(w, http.StatusOK, PrefResponse{Name: name, Value: value})
}

// PutPreference validates and stores a preference value through the typed
// descriptor, so the change event fires after the write as usual.
func (h *Handler) PutPreference(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	pref, ok := lessonstore.LookupPreference(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown preference")
		return
	}

	var body struct {
		Value *string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"value\": \"...\"}")
		return
	}

	if err := pref.SetString(r.Context(), h.prefs, *body.Value); err != nil {
		var decodeErr *lessonstore.DecodeError
		if errors.As(err, &decodeErr) {
			writeError(w, http.StatusBadRequest, "invalid value for preference")
			return
		}
		h.logger.Error("preference write failed", "error", err, "preference", name)
		writeError(w, http.StatusInternalServerError, "failed to save preference")
		return
	}

	writeJSON(w, http.StatusOK, PrefResponse{Name: name, Value: *body.Value})
}

// GetProgress returns the progress record for a lesson, defaulting to the
// untouched record when nothing is stored.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	course := r.PathValue("course")
	lesson, ok := lessonParam(w, r)
	if !ok {
		return
	}

	rec, err := h.activity.ProgressForLesson(r.Context(), course, lesson)
	if err != nil {
		h.logger.Error("progress read failed", "error", err, "course", course, "lesson", lesson)
		writeError(w, http.StatusInternalServerError, "failed to read progress")
		return
	}

	writeJSON(w, http.StatusOK, ProgressResponse{
		Course:   course,
		Lesson:   lesson,
		Finished: rec.Finished,
		Progress: rec.Progress,
	})
}

// PutProgress stores a new playback position.
func (h *Handler) PutProgress(w http.ResponseWriter, r *http.Request) {
	course := r.PathValue("course")
	lesson, ok := lessonParam(w, r)
	if !ok {
		return
	}

	var body struct {
		Progress *float64 `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Progress == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"progress\": n}")
		return
	}

	if err := h.activity.UpdateProgress(r.Context(), course, lesson, *body.Progress); err != nil {
		h.logger.Error("progress update failed", "error", err, "course", course, "lesson", lesson)
		writeError(w, http.StatusInternalServerError, "failed to update progress")
		return
	}

	rec, err := h.activity.ProgressForLesson(r.Context(), course, lesson)
	if err != nil {
		h.logger.Error("progress readback failed", "error", err, "course", course, "lesson", lesson)
		writeError(w, http.StatusInternalServerError, "failed to read progress")
		return
	}

	writeJSON(w, http.StatusOK, ProgressResponse{
		Course:   course,
		Lesson:   lesson,
		Finished: rec.Finished,
		Progress: rec.Progress,
	})
}

// MarkFinished flags a lesson as finished, which may also remove its download
// when auto-delete-finished is on.
func (h *Handler) MarkFinished(w http.ResponseWriter, r *http.Request) {
	course := r.PathValue("course")
	lesson, ok := lessonParam(w, r)
	if !ok {
		return
	}

	if err := h.activity.MarkFinished(r.Context(), course, lesson); err != nil {
		h.logger.Error("mark finished failed", "error", err, "course", course, "lesson", lesson)
		writeError(w, http.StatusInternalServerError, "failed to mark finished")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCourseProgress wipes all listening state for a course.
func (h *Handler) DeleteCourseProgress(w http.ResponseWriter, r *http.Request) {
	course := r.PathValue("course")

	if err := h.activity.DeleteCourseProgress(r.Context(), course); err != nil {
		h.logger.Error("course progress delete failed", "error", err, "course", course)
		writeError(w, http.StatusInternalServerError, "failed to delete course progress")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRecent reports the most recently listened course and its most recent
// lesson.
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	course, found, err := h.activity.MostRecentCourse(r.Context())
	if err != nil {
		h.logger.Error("recent course read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read recent course")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no listening activity yet")
		return
	}

	resp := RecentResponse{Course: course}
	lesson, found, err := h.activity.MostRecentLesson(r.Context(), course)
	if err != nil {
		h.logger.Error("recent lesson read failed", "error", err, "course", course)
		writeError(w, http.StatusInternalServerError, "failed to read recent lesson")
		return
	}
	if found {
		resp.Lesson = &lesson
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetMetricsToken returns the anonymous analytics identifier, minting one on
// first use.
func (h *Handler) GetMetricsToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.metrics.Token(r.Context())
	if err != nil {
		h.logger.Error("metrics token read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read metrics token")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// DeleteMetricsToken removes the identifier.
func (h *Handler) DeleteMetricsToken(w http.ResponseWriter, r *http.Request) {
	if err := h.metrics.DeleteToken(r.Context()); err != nil {
		h.logger.Error("metrics token delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete metrics token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
