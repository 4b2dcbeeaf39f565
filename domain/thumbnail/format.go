package thumbnail

import (
	"fmt"
	"strconv"
	"strings"
)

// ImageFormat selects the encoding of a thumbnail. The numeric values are part
// of the method-call contract.
type ImageFormat int

const (
	JPEG ImageFormat = 0
	PNG  ImageFormat = 1
	WEBP ImageFormat = 2
)

// ParseImageFormat converts the wire value of imageFormat
func ParseImageFormat(v int) (ImageFormat, error) {
	switch ImageFormat(v) {
	case JPEG, PNG, WEBP:
		return ImageFormat(v), nil
	}
	return 0, fmt.Errorf("%w: unexpected image format value %d", ErrUnsupportedFormat, v)
}

// ParseImageFormatName accepts a format name (jpeg, jpg, png, webp) or its
// numeric wire value.
func ParseImageFormatName(s string) (ImageFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WEBP, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		return ParseImageFormat(n)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext returns the file extension for the format, without the leading dot
func (f ImageFormat) Ext() string {
	switch f {
	case JPEG:
		return "jpg"
	case PNG:
		return "png"
	case WEBP:
		return "webp"
	}
	return ""
}

// MimeType returns the media type of encoded thumbnails
func (f ImageFormat) MimeType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	case WEBP:
		return "image/webp"
	}
	return "application/octet-stream"
}

// Lossy reports whether quality affects the encoded output
func (f ImageFormat) Lossy() bool {
	return f == JPEG || f == WEBP
}

// Valid reports whether f is one of the known formats
func (f ImageFormat) Valid() bool {
	return f.Ext() != ""
}

func (f ImageFormat) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case WEBP:
		return "WEBP"
	}
	return fmt.Sprintf("ImageFormat(%d)", int(f))
}
