package cmd

import (
	"context"
	"fmt"
	"strings"

	"video-thumbnail/application/channel"
	"video-thumbnail/domain/thumbnail"

	"github.com/spf13/cobra"
)

// MethodInvoker runs one method call; implemented by channel.Handler
type MethodInvoker interface {
	Invoke(ctx context.Context, mc channel.MethodCall) <-chan channel.Result
}

// thumbnailFlags are the flags shared by the file and data commands
type thumbnailFlags struct {
	video     string
	headers   []string
	path      string
	format    string
	maxWidth  int
	maxHeight int
	timeMs    int
	at        string
	quality   int

	// qualitySet distinguishes an explicit --quality 0 from the flag's zero value
	qualitySet bool
}

func (f *thumbnailFlags) register(cmd *cobra.Command, withPath bool) {
	cmd.Flags().StringVar(&f.video, "video", "", "Local path, file:// URI or remote URL of the video (required)")
	cmd.Flags().StringArrayVar(&f.headers, "header", nil, "HTTP header for remote videos as Key=Value (repeatable)")
	if withPath {
		cmd.Flags().StringVar(&f.path, "path", "", "Output file or directory (default: next to the video, or the cache directory for remote videos)")
	}
	cmd.Flags().StringVar(&f.format, "format", "", "Image format: jpeg, png or webp (default from config)")
	cmd.Flags().IntVar(&f.maxWidth, "max-width", 0, "Maximum width in pixels (0 keeps aspect from height or native size)")
	cmd.Flags().IntVar(&f.maxHeight, "max-height", 0, "Maximum height in pixels (0 keeps aspect from width or native size)")
	cmd.Flags().IntVar(&f.timeMs, "time-ms", 0, "Time offset of the frame in milliseconds")
	cmd.Flags().StringVar(&f.at, "at", "", "Time offset as HH:MM:SS[.mmm] (overrides --time-ms)")
	cmd.Flags().IntVar(&f.quality, "quality", 0, "Encoder quality 0-100 for lossy formats (default from config)")
	cmd.MarkFlagRequired("video")
}

// fromCommand builds the method call for the flags parsed by cmd
func (f *thumbnailFlags) fromCommand(cmd *cobra.Command, method string) (channel.MethodCall, error) {
	f.qualitySet = cmd.Flags().Changed("quality")
	return f.methodCall(method)
}

// methodCall converts the flags into the argument map a host would send.
// Format and quality are only included when given so config defaults apply.
func (f *thumbnailFlags) methodCall(method string) (channel.MethodCall, error) {
	timeMs := f.timeMs
	if f.at != "" {
		ms, err := thumbnail.ParseOffset(f.at)
		if err != nil {
			return channel.MethodCall{}, err
		}
		timeMs = ms
	}

	args := map[string]any{
		"video":     f.video,
		"maxWidth":  f.maxWidth,
		"maxHeight": f.maxHeight,
		"timeMs":    timeMs,
	}

	if len(f.headers) > 0 {
		headers, err := parseHeaders(f.headers)
		if err != nil {
			return channel.MethodCall{}, err
		}
		args["headers"] = headers
	}
	if f.path != "" {
		args["thumbnailPath"] = f.path
	}
	if f.format != "" {
		format, err := thumbnail.ParseImageFormatName(f.format)
		if err != nil {
			return channel.MethodCall{}, err
		}
		args["imageFormat"] = int(format)
	}
	if f.qualitySet {
		args["quality"] = f.quality
	}

	return channel.MethodCall{Method: method, Arguments: args}, nil
}

// parseHeaders accepts "Key=Value" and "Key: Value"
func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, v := range values {
		sep := strings.IndexAny(v, "=:")
		if sep <= 0 {
			return nil, fmt.Errorf("invalid header %q: expected Key=Value", v)
		}
		headers[strings.TrimSpace(v[:sep])] = strings.TrimSpace(v[sep+1:])
	}
	return headers, nil
}

// await waits for the call outcome and turns failures into errors
func await(ctx context.Context, invoker MethodInvoker, mc channel.MethodCall) (any, error) {
	select {
	case r := <-invoker.Invoke(ctx, mc):
		switch {
		case r.NotImplemented:
			return nil, fmt.Errorf("method %q is not implemented", mc.Method)
		case r.Err != nil:
			return nil, fmt.Errorf("%s: %s", r.Err.Code, r.Err.Message)
		}
		return r.Value, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
