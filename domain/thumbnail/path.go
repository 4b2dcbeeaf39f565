package thumbnail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath decides where a thumbnail file is written.
//
// The default name is the video locator with its extension replaced by the
// format's. Remote videos without a requested path go to cacheDir. A requested
// path that already ends with the extension is used as-is; any other requested
// path is treated as a directory for the default file name.
func ResolvePath(loc Locator, requested string, format ImageFormat, cacheDir string) (string, error) {
	ext := format.Ext()
	if ext == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	full := replaceExt(loc.Name(), ext)

	if requested == "" && loc.IsRemote() {
		if cacheDir == "" {
			return "", fmt.Errorf("%w: no cache directory for remote video %s", ErrIO, loc)
		}
		requested = cacheDir
	}

	if requested != "" {
		if hasExt(requested, format) {
			full = requested
		} else {
			name := full[strings.LastIndex(full, "/")+1:]
			if endsWithSeparator(requested) {
				full = requested + name
			} else {
				full = requested + string(filepath.Separator) + name
			}
		}
	}

	if !filepath.IsAbs(full) {
		abs, err := filepath.Abs(full)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrIO, err)
		}
		full = abs
	}
	return full, nil
}

func replaceExt(name, ext string) string {
	slash := strings.LastIndex(name, "/")
	dot := strings.LastIndex(name, ".")
	if dot <= slash {
		return name + "." + ext
	}
	return name[:dot+1] + ext
}

func hasExt(p string, format ImageFormat) bool {
	lower := strings.ToLower(p)
	if strings.HasSuffix(lower, "."+format.Ext()) {
		return true
	}
	return format == JPEG && strings.HasSuffix(lower, ".jpeg")
}

func endsWithSeparator(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(os.PathSeparator))
}
