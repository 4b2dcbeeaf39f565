package thumbnail

import "errors"

// Errors returned by thumbnail extraction. Callers match them with errors.Is;
// the underlying cause is wrapped alongside the sentinel.
var (
	ErrInvalidLocator    = errors.New("invalid video locator")
	ErrFrameDecode       = errors.New("failed to decode video frame")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEncode            = errors.New("failed to encode thumbnail")
	ErrIO                = errors.New("failed to write thumbnail")
	ErrInvalidArgument   = errors.New("invalid argument")
)
