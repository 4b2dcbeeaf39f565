package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	ffmpeg_go "github.com/u2takey/ffmpeg-go"
)

// WebPEncoder encodes images as WEBP by piping a PNG through ffmpeg's libwebp
type WebPEncoder struct {
	ffmpegPath string
	runner     CommandRunner
}

// WebPEncoderOption is a functional option for configuring WebPEncoder
type WebPEncoderOption func(*WebPEncoder)

// WithEncoderFFmpegPath sets a custom ffmpeg executable path
func WithEncoderFFmpegPath(path string) WebPEncoderOption {
	return func(e *WebPEncoder) {
		e.ffmpegPath = path
	}
}

// WithEncoderCommandRunner sets a custom command runner (for testing)
func WithEncoderCommandRunner(runner CommandRunner) WebPEncoderOption {
	return func(e *WebPEncoder) {
		e.runner = runner
	}
}

// NewWebPEncoder creates a new FFmpeg-based WEBP encoder
func NewWebPEncoder(opts ...WebPEncoderOption) *WebPEncoder {
	e := &WebPEncoder{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Args returns the ffmpeg arguments for a PNG-in, WEBP-out pipe
func (e *WebPEncoder) Args(quality int) []string {
	return ffmpeg_go.Input("pipe:0", ffmpeg_go.KwArgs{"f": "png_pipe"}).
		Output("pipe:1", ffmpeg_go.KwArgs{
			"c:v":     "libwebp",
			"quality": quality,
			"f":       "webp",
		}).
		GlobalArgs("-loglevel", "error").
		GetArgs()
}

// EncodeWebP encodes img; quality is handed to libwebp unchanged
func (e *WebPEncoder) EncodeWebP(img image.Image, quality int) ([]byte, error) {
	var in bytes.Buffer
	if err := imaging.Encode(&in, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("preparing frame for ffmpeg: %w", err)
	}

	out, err := e.runner.Pipe(context.Background(), &in, e.ffmpegPath, e.Args(quality)...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg webp encode failed: %w", err)
	}
	return out, nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *WebPEncoder) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, e.runner, e.ffmpegPath)
}
