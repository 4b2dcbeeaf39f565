//go:build vips

package vips

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/h2non/bimg"
)

// WebPEncoder encodes WEBP in process through libvips
type WebPEncoder struct{}

// NewWebPEncoder creates a libvips-backed WEBP encoder
func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{}
}

// Available reports whether the libvips backend was compiled in
func Available() bool { return true }

// EncodeWebP hands libvips a lossless PNG of img and asks for WEBP at quality
func (e *WebPEncoder) EncodeWebP(img image.Image, quality int) ([]byte, error) {
	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode intermediate png: %w", err)
	}

	out, err := bimg.NewImage(png.Bytes()).Process(bimg.Options{
		Type:    bimg.WEBP,
		Quality: quality,
	})
	if err != nil {
		return nil, fmt.Errorf("libvips webp: %w", err)
	}
	return out, nil
}
