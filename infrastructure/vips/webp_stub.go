//go:build !vips

package vips

import "image"

// WebPEncoder is a stub when libvips is not available
type WebPEncoder struct{}

// NewWebPEncoder creates a stub encoder (requires building with -tags=vips)
func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{}
}

// Available reports whether the libvips backend was compiled in
func Available() bool { return false }

// EncodeWebP returns an error indicating libvips is not available
func (e *WebPEncoder) EncodeWebP(img image.Image, quality int) ([]byte, error) {
	return nil, ErrUnavailable
}
