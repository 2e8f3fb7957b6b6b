package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	lessonstore "github.com/wozniakbe/lesson-store"
)

// dirDownloads implements the download-manager seam against a downloads
// directory laid out as {root}/{course}/{lesson}.{ext}. The daemon only needs
// existence checks and deletion; fetching is someone else's job.
type dirDownloads struct {
	root string
}

func (d *dirDownloads) lessonFiles(course string, lesson int) ([]string, error) {
	pattern := filepath.Join(d.root, course, strconv.Itoa(lesson)+".*")
	return filepath.Glob(pattern)
}

func (d *dirDownloads) IsDownloaded(_ context.Context, course string, lesson int) (bool, error) {
	matches, err := d.lessonFiles(course, lesson)
	if err != nil {
		return false, fmt.Errorf("scanning downloads for %s/%d: %w", course, lesson, err)
	}
	return len(matches) > 0, nil
}

func (d *dirDownloads) DeleteDownload(_ context.Context, course string, lesson int) error {
	matches, err := d.lessonFiles(course, lesson)
	if err != nil {
		return fmt.Errorf("scanning downloads for %s/%d: %w", course, lesson, err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("removing %s: %w", m, err)
		}
	}
	return nil
}

// fileCatalog serves lesson indices from a JSON file mapping course id to its
// lesson indices, loaded once at startup. Without a CATALOG_PATH the catalog
// is empty and course-wide progress deletion only clears the pointers.
type fileCatalog struct {
	courses map[string][]int
}

func loadCatalog(path string) (*fileCatalog, error) {
	if path == "" {
		return &fileCatalog{courses: map[string][]int{}}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var courses map[string][]int
	if err := json.Unmarshal(buf, &courses); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return &fileCatalog{courses: courses}, nil
}

func (c *fileCatalog) LessonIndices(_ context.Context, course string) ([]int, error) {
	return c.courses[course], nil
}

var _ lessonstore.DownloadManager = (*dirDownloads)(nil)
var _ lessonstore.CourseCatalog = (*fileCatalog)(nil)
