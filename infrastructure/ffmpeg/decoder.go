package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"video-thumbnail/domain/thumbnail"
	"video-thumbnail/infrastructure/filesystem"

	"github.com/disintegration/imaging"
	ffmpeg_go "github.com/u2takey/ffmpeg-go"
)

// FrameDecoder implements thumbnail.FrameDecoder by running ffmpeg once per
// frame and reading a PNG from its stdout.
type FrameDecoder struct {
	ffmpegPath  string
	runner      CommandRunner
	fileChecker thumbnail.FileChecker
}

// DecoderOption is a functional option for configuring FrameDecoder
type DecoderOption func(*FrameDecoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) DecoderOption {
	return func(d *FrameDecoder) {
		d.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) DecoderOption {
	return func(d *FrameDecoder) {
		d.runner = runner
	}
}

// WithFileChecker sets how local videos are checked for existence
func WithFileChecker(checker thumbnail.FileChecker) DecoderOption {
	return func(d *FrameDecoder) {
		d.fileChecker = checker
	}
}

// NewFrameDecoder creates a new FFmpeg-based frame decoder
func NewFrameDecoder(opts ...DecoderOption) *FrameDecoder {
	d := &FrameDecoder{
		ffmpegPath:  "ffmpeg",
		runner:      &ExecCommandRunner{},
		fileChecker: filesystem.NewChecker(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Open implements thumbnail.FrameDecoder. Local videos must exist; remote
// ones are only contacted when a frame is requested.
func (d *FrameDecoder) Open(ctx context.Context, src thumbnail.Source) (thumbnail.DecoderHandle, error) {
	if !src.Locator.IsRemote() && !d.fileChecker.Exists(src.Locator.LocalPath()) {
		return nil, fmt.Errorf("%w: video does not exist: %s", thumbnail.ErrFrameDecode, src.Locator.LocalPath())
	}
	return &decoderHandle{decoder: d, src: src}, nil
}

// Args returns the ffmpeg arguments that extract one frame. Input seeking
// lands on the first frame at or after timeMs. A constrained size adds a
// scale filter.
func (d *FrameDecoder) Args(src thumbnail.Source, timeMs int, size thumbnail.Size) []string {
	input := d.inputArgs(src)
	input["ss"] = formatSeconds(timeMs)
	return d.frameArgs(src, input, size, nil)
}

// LastFrameArgs returns the arguments that extract the final frame. The last
// second is decoded and reversed so the first frame out is the last one in.
func (d *FrameDecoder) LastFrameArgs(src thumbnail.Source, size thumbnail.Size) []string {
	input := d.inputArgs(src)
	input["sseof"] = "-1"
	return d.frameArgs(src, input, size, []string{"reverse"})
}

func (d *FrameDecoder) inputArgs(src thumbnail.Source) ffmpeg_go.KwArgs {
	input := ffmpeg_go.KwArgs{}
	if src.Locator.IsRemote() && len(src.Headers) > 0 {
		input["headers"] = formatHeaders(src.Headers)
	}
	return input
}

func (d *FrameDecoder) frameArgs(src thumbnail.Source, input ffmpeg_go.KwArgs, size thumbnail.Size, filters []string) []string {
	output := ffmpeg_go.KwArgs{
		"frames:v": 1,
		"f":        "image2pipe",
		"c:v":      "png",
	}
	if size.Constrained() {
		filters = append(filters, fmt.Sprintf("scale=%d:%d", size.Width, size.Height))
	}
	if len(filters) > 0 {
		output["vf"] = strings.Join(filters, ",")
	}

	return ffmpeg_go.Input(src.Locator.LocalPath(), input).
		Output("pipe:1", output).
		GlobalArgs("-loglevel", "error").
		GetArgs()
}

// decode returns the frame closest to timeMs at or before it. A seek past
// the last frame yields nothing, in which case the last frame is used.
func (d *FrameDecoder) decode(ctx context.Context, src thumbnail.Source, timeMs int, size thumbnail.Size) (*thumbnail.Frame, error) {
	out, err := d.runner.Pipe(ctx, nil, d.ffmpegPath, d.Args(src, timeMs, size)...)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %w", thumbnail.ErrFrameDecode, err)
	}
	if len(out) == 0 {
		if out, err = d.runner.Pipe(ctx, nil, d.ffmpegPath, d.LastFrameArgs(src, size)...); err != nil {
			return nil, fmt.Errorf("%w: ffmpeg: %w", thumbnail.ErrFrameDecode, err)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no frame at or before %dms in %s", thumbnail.ErrFrameDecode, timeMs, src.Locator)
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: reading ffmpeg output: %w", thumbnail.ErrFrameDecode, err)
	}
	return thumbnail.NewFrame(img), nil
}

// VerifyInstalled checks that ffmpeg is available
func (d *FrameDecoder) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, d.runner, d.ffmpegPath)
}

// decoderHandle holds no process; each frame request runs ffmpeg
type decoderHandle struct {
	decoder *FrameDecoder
	src     thumbnail.Source
}

func (h *decoderHandle) FrameAt(ctx context.Context, timeMs int) (*thumbnail.Frame, error) {
	return h.decoder.decode(ctx, h.src, timeMs, thumbnail.Size{})
}

func (h *decoderHandle) ScaledFrameAt(ctx context.Context, timeMs int, size thumbnail.Size) (*thumbnail.Frame, error) {
	return h.decoder.decode(ctx, h.src, timeMs, size)
}

func (h *decoderHandle) Close() error {
	return nil
}

func formatSeconds(ms int) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', 3, 64)
}

// formatHeaders renders headers in ffmpeg's -headers form, sorted by name
func formatHeaders(headers map[string]string) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(headers[name])
		b.WriteString("\r\n")
	}
	return b.String()
}

// Ensure FrameDecoder implements thumbnail.FrameDecoder
var _ thumbnail.FrameDecoder = (*FrameDecoder)(nil)

// Ensure decoderHandle supports pre-scaled decoding
var _ thumbnail.ScaledFrameDecoder = (*decoderHandle)(nil)
