package filesystem

import (
	"os"

	"video-thumbnail/domain/thumbnail"
)

// Checker implements thumbnail.FileChecker. Only regular files, or
// symlinks to them, count as videos.
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists reports whether path names a readable video file
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure Checker implements thumbnail.FileChecker
var _ thumbnail.FileChecker = (*Checker)(nil)
