//go:build opencv

package opencv

import (
	"context"
	"fmt"
	"image"
	"sync"

	"video-thumbnail/domain/thumbnail"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// FrameDecoder implements thumbnail.FrameDecoder using GoCV VideoCapture
type FrameDecoder struct {
	logger *zap.Logger
}

// FrameDecoderOption is a functional option for configuring FrameDecoder
type FrameDecoderOption func(*FrameDecoder)

// WithLogger sets the logger used for warnings
func WithLogger(logger *zap.Logger) FrameDecoderOption {
	return func(d *FrameDecoder) {
		d.logger = logger
	}
}

// NewFrameDecoder creates a new OpenCV-backed decoder
func NewFrameDecoder(opts ...FrameDecoderOption) *FrameDecoder {
	d := &FrameDecoder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Available reports whether the OpenCV backend was compiled in
func Available() bool { return true }

// Open opens the video with VideoCapture. Request headers cannot be passed
// to OpenCV and are dropped.
func (d *FrameDecoder) Open(ctx context.Context, src thumbnail.Source) (thumbnail.DecoderHandle, error) {
	if len(src.Headers) > 0 {
		d.logger.Warn("opencv backend ignores request headers",
			zap.String("video", src.Locator.String()),
			zap.Int("headers", len(src.Headers)))
	}

	capture, err := gocv.VideoCaptureFile(src.Locator.LocalPath())
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", thumbnail.ErrFrameDecode, src.Locator, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: cannot open %s", thumbnail.ErrFrameDecode, src.Locator)
	}

	return &decoderHandle{capture: capture, video: src.Locator.String()}, nil
}

// decoderHandle owns one VideoCapture. Calls are serialized because a
// capture is not safe for concurrent use.
type decoderHandle struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	video   string
}

func (h *decoderHandle) read(timeMs int) (gocv.Mat, error) {
	mat := gocv.NewMat()
	if !readAtOrBefore(&captureSeeker{capture: h.capture, mat: &mat}, timeMs) {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("%w: no frame at or before %dms in %s", thumbnail.ErrFrameDecode, timeMs, h.video)
	}
	return mat, nil
}

// captureSeeker reads from a VideoCapture into mat
type captureSeeker struct {
	capture *gocv.VideoCapture
	mat     *gocv.Mat
}

func (c *captureSeeker) SeekMs(ms int) {
	c.capture.Set(gocv.VideoCapturePosMsec, float64(ms))
}

func (c *captureSeeker) SeekLast() bool {
	count := c.capture.Get(gocv.VideoCaptureFrameCount)
	if count < 1 {
		return false
	}
	c.capture.Set(gocv.VideoCapturePosFrames, count-1)
	return true
}

func (c *captureSeeker) Read() bool {
	return c.capture.Read(c.mat) && !c.mat.Empty()
}

// FrameAt implements thumbnail.DecoderHandle
func (h *decoderHandle) FrameAt(ctx context.Context, timeMs int) (*thumbnail.Frame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	mat, err := h.read(timeMs)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return toFrame(mat)
}

// ScaledFrameAt implements thumbnail.ScaledFrameDecoder
func (h *decoderHandle) ScaledFrameAt(ctx context.Context, timeMs int, size thumbnail.Size) (*thumbnail.Frame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	mat, err := h.read(timeMs)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(mat, &scaled, image.Pt(size.Width, size.Height), 0, 0, gocv.InterpolationArea)

	return toFrame(scaled)
}

// Close releases the capture
func (h *decoderHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.capture.Close()
}

func toFrame(mat gocv.Mat) (*thumbnail.Frame, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: convert frame: %w", thumbnail.ErrFrameDecode, err)
	}
	return thumbnail.NewFrame(img), nil
}

// Ensure FrameDecoder implements thumbnail.FrameDecoder
var _ thumbnail.FrameDecoder = (*FrameDecoder)(nil)

// Ensure decoderHandle supports pre-scaled decode
var _ thumbnail.ScaledFrameDecoder = (*decoderHandle)(nil)
