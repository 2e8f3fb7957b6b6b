package lessonstore

import "strconv"

// Storage keys are a pure function of their semantic inputs. The literal
// shapes below match what existing installs already have on disk, so they
// must not change.
const (
	activityPrefix    = "@activity/"
	preferencesPrefix = "@preferences/"

	mostRecentCourseKey = activityPrefix + "most-recent-course"
	metricsTokenKey     = "@metrics/user-token"
	autopauseKey        = "@global-setting/autopause"
)

func progressKey(course string, lesson int) string {
	return activityPrefix + course + "/" + strconv.Itoa(lesson)
}

func mostRecentLessonKey(course string) string {
	return activityPrefix + course + "/most-recent-lesson"
}

func preferenceKey(name string) string {
	return preferencesPrefix + name
}
