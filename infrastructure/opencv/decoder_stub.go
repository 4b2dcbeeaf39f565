//go:build !opencv

package opencv

import (
	"context"
	"fmt"

	"video-thumbnail/domain/thumbnail"

	"go.uber.org/zap"
)

// FrameDecoder is a stub when OpenCV is not available
type FrameDecoder struct{}

// FrameDecoderOption is a functional option for configuring FrameDecoder
type FrameDecoderOption func(*FrameDecoder)

// WithLogger is a no-op in stub mode
func WithLogger(logger *zap.Logger) FrameDecoderOption {
	return func(d *FrameDecoder) {}
}

// NewFrameDecoder creates a stub decoder (requires building with -tags=opencv)
func NewFrameDecoder(opts ...FrameDecoderOption) *FrameDecoder {
	return &FrameDecoder{}
}

// Available reports whether the OpenCV backend was compiled in
func Available() bool { return false }

// Open returns an error indicating OpenCV is not available
func (d *FrameDecoder) Open(ctx context.Context, src thumbnail.Source) (thumbnail.DecoderHandle, error) {
	return nil, fmt.Errorf("%w: %w", thumbnail.ErrFrameDecode, ErrUnavailable)
}

// Ensure FrameDecoder implements thumbnail.FrameDecoder
var _ thumbnail.FrameDecoder = (*FrameDecoder)(nil)
