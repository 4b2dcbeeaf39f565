package raster

import (
	"bytes"
	"fmt"
	"image"

	"video-thumbnail/domain/thumbnail"

	"github.com/disintegration/imaging"
)

// WebPEncoder encodes WEBP, which imaging cannot write
type WebPEncoder interface {
	EncodeWebP(img image.Image, quality int) ([]byte, error)
}

// Encoder implements thumbnail.Encoder. JPEG and PNG are encoded in process;
// WEBP is delegated.
type Encoder struct {
	webp WebPEncoder
}

// NewEncoder creates an encoder. webp may be nil, in which case WEBP
// requests fail with thumbnail.ErrUnsupportedFormat.
func NewEncoder(webp WebPEncoder) *Encoder {
	return &Encoder{webp: webp}
}

// Encode implements thumbnail.Encoder
func (e *Encoder) Encode(frame *thumbnail.Frame, format thumbnail.ImageFormat, quality int) ([]byte, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("%w: frame is empty", thumbnail.ErrEncode)
	}

	var buf bytes.Buffer
	switch format {
	case thumbnail.JPEG:
		if err := imaging.Encode(&buf, frame.Image, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("%w: jpeg: %w", thumbnail.ErrEncode, err)
		}
	case thumbnail.PNG:
		if err := imaging.Encode(&buf, frame.Image, imaging.PNG); err != nil {
			return nil, fmt.Errorf("%w: png: %w", thumbnail.ErrEncode, err)
		}
	case thumbnail.WEBP:
		if e.webp == nil {
			return nil, fmt.Errorf("%w: no WEBP encoder configured", thumbnail.ErrUnsupportedFormat)
		}
		data, err := e.webp.EncodeWebP(frame.Image, quality)
		if err != nil {
			return nil, fmt.Errorf("%w: webp: %w", thumbnail.ErrEncode, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", thumbnail.ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// Ensure Encoder implements thumbnail.Encoder
var _ thumbnail.Encoder = (*Encoder)(nil)
