package thumbnail

import "fmt"

// Source is what a decoder needs to open a video
type Source struct {
	Locator Locator
	// Headers are sent with remote requests only
	Headers map[string]string
}

// Request describes a single thumbnail extraction. It lives for one call.
type Request struct {
	Locator Locator
	Headers map[string]string
	// ThumbnailPath is the requested output file or directory; empty means unset
	ThumbnailPath string
	Format        ImageFormat
	MaxWidth      int
	MaxHeight     int
	TimeMs        int
	Quality       int
}

// NewRequest parses the video locator and validates the remaining fields
func NewRequest(video string, headers map[string]string, thumbnailPath string, format ImageFormat, maxWidth, maxHeight, timeMs, quality int) (*Request, error) {
	loc, err := ParseLocator(video)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Locator:       loc,
		Headers:       headers,
		ThumbnailPath: thumbnailPath,
		Format:        format,
		MaxWidth:      maxWidth,
		MaxHeight:     maxHeight,
		TimeMs:        timeMs,
		Quality:       quality,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks field ranges. Quality is left to the encoder.
func (r *Request) Validate() error {
	if r.Locator.String() == "" {
		return fmt.Errorf("%w: video locator is required", ErrInvalidLocator)
	}
	if !r.Format.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, r.Format)
	}
	if r.MaxWidth < 0 {
		return fmt.Errorf("%w: maxWidth must not be negative, got %d", ErrInvalidArgument, r.MaxWidth)
	}
	if r.MaxHeight < 0 {
		return fmt.Errorf("%w: maxHeight must not be negative, got %d", ErrInvalidArgument, r.MaxHeight)
	}
	if r.TimeMs < 0 {
		return fmt.Errorf("%w: timeMs must not be negative, got %d", ErrInvalidArgument, r.TimeMs)
	}
	return nil
}

// Source returns the decoder input. Headers are dropped for local videos.
func (r *Request) Source() Source {
	src := Source{Locator: r.Locator}
	if r.Locator.IsRemote() && len(r.Headers) > 0 {
		src.Headers = r.Headers
	}
	return src
}

// MaxSize returns the requested constraints; zero means unconstrained
func (r *Request) MaxSize() Size {
	return Size{Width: r.MaxWidth, Height: r.MaxHeight}
}
