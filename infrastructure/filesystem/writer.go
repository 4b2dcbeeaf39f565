package filesystem

import (
	"os"
	"path/filepath"

	"video-thumbnail/domain/thumbnail"
)

// AppDirName is the per-user cache subdirectory for remote video thumbnails
const AppDirName = "video-thumbnail"

// Writer implements thumbnail.FileWriter. Parent directories are not
// created; the target directory must exist.
type Writer struct {
	perm os.FileMode
}

// NewWriter creates a writer producing 0644 files
func NewWriter() *Writer {
	return &Writer{perm: 0644}
}

// Write creates or truncates path
func (w *Writer) Write(path string, data []byte) error {
	return os.WriteFile(path, data, w.perm)
}

// CacheDir returns configured if set, otherwise the user cache directory
// for this application. The directory is created if missing.
func CacheDir(configured string) (string, error) {
	dir := configured
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, AppDirName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}

// Ensure Writer implements thumbnail.FileWriter
var _ thumbnail.FileWriter = (*Writer)(nil)
