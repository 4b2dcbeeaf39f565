package thumbnail

import (
	"fmt"
	"net/url"
	"strings"
)

const fileScheme = "file://"

// LocatorKind classifies where a video comes from
type LocatorKind int

const (
	LocalPath LocatorKind = iota
	FileURI
	Remote
)

func (k LocatorKind) String() string {
	switch k {
	case LocalPath:
		return "local"
	case FileURI:
		return "file"
	case Remote:
		return "remote"
	}
	return "unknown"
}

// Locator identifies a video source: an absolute local path, a file:// URI,
// or a remote URL.
type Locator struct {
	raw  string
	kind LocatorKind
}

// ParseLocator classifies s. Anything that is neither an absolute path nor a
// file:// URI must be a URL with a scheme and a host.
func ParseLocator(s string) (Locator, error) {
	if strings.TrimSpace(s) == "" {
		return Locator{}, fmt.Errorf("%w: video locator is required", ErrInvalidLocator)
	}

	switch {
	case strings.HasPrefix(s, "/"):
		return Locator{raw: s, kind: LocalPath}, nil
	case strings.HasPrefix(s, fileScheme):
		if len(s) == len(fileScheme) {
			return Locator{}, fmt.Errorf("%w: empty file URI", ErrInvalidLocator)
		}
		return Locator{raw: s, kind: FileURI}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Locator{}, fmt.Errorf("%w: %w", ErrInvalidLocator, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Locator{}, fmt.Errorf("%w: %q is not an absolute path or URL", ErrInvalidLocator, s)
	}
	return Locator{raw: s, kind: Remote}, nil
}

// String returns the locator as given
func (l Locator) String() string {
	return l.raw
}

// Kind returns the locator classification
func (l Locator) Kind() LocatorKind {
	return l.kind
}

// IsRemote reports whether the video has to be fetched over the network
func (l Locator) IsRemote() bool {
	return l.kind == Remote
}

// LocalPath returns the filesystem path for local and file:// locators, and
// the raw URL for remote ones.
func (l Locator) LocalPath() string {
	if l.kind == FileURI {
		return strings.TrimPrefix(l.raw, fileScheme)
	}
	return l.raw
}

// Name returns the locator with the file:// prefix removed and, for remote
// URLs, the query and fragment stripped. It is the basis for derived
// thumbnail file names.
func (l Locator) Name() string {
	switch l.kind {
	case FileURI:
		return l.LocalPath()
	case Remote:
		u, err := url.Parse(l.raw)
		if err != nil {
			return l.raw
		}
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	}
	return l.raw
}
