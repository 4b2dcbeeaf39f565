//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"video-thumbnail/application/channel"
	appthumb "video-thumbnail/application/thumbnail"
	"video-thumbnail/domain/thumbnail"
	"video-thumbnail/infrastructure/filesystem"
	"video-thumbnail/infrastructure/raster"

	"github.com/cucumber/godog"
	"go.uber.org/zap"
)

// syntheticDecoder serves solid frames of a fixed size per locator
type syntheticDecoder struct {
	sizes  map[string]thumbnail.Size
	broken map[string]bool
}

func (d *syntheticDecoder) Open(ctx context.Context, src thumbnail.Source) (thumbnail.DecoderHandle, error) {
	key := src.Locator.String()
	if d.broken[key] {
		return nil, fmt.Errorf("%w: corrupt stream in %s", thumbnail.ErrFrameDecode, key)
	}
	size, ok := d.sizes[key]
	if !ok {
		return nil, fmt.Errorf("%w: no such video %s", thumbnail.ErrFrameDecode, key)
	}
	return &syntheticHandle{size: size}, nil
}

type syntheticHandle struct {
	size thumbnail.Size
}

func (h *syntheticHandle) FrameAt(ctx context.Context, timeMs int) (*thumbnail.Frame, error) {
	img := image.NewNRGBA(image.Rect(0, 0, h.size.Width, h.size.Height))
	shade := uint8(timeMs / 10 % 256)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = shade, 96, 160, 255
	}
	return thumbnail.NewFrame(img), nil
}

func (h *syntheticHandle) Close() error { return nil }

// thumbnailContext holds test state for thumbnail scenarios
type thumbnailContext struct {
	workDir  string
	cacheDir string
	decoder  *syntheticDecoder
	result   channel.Result
}

// SharedThumbnailContext is reset before each scenario via Before hook
var SharedThumbnailContext *thumbnailContext

func getThumbnailContext() *thumbnailContext {
	return SharedThumbnailContext
}

func InitializeThumbnailScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "thumbnail-feature-*")
		if err != nil {
			return c, err
		}
		SharedThumbnailContext = &thumbnailContext{
			workDir: dir,
			decoder: &syntheticDecoder{
				sizes:  make(map[string]thumbnail.Size),
				broken: make(map[string]bool),
			},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc := getThumbnailContext(); tc != nil {
			os.RemoveAll(tc.workDir)
		}
		SharedThumbnailContext = nil
		return c, nil
	})

	ctx.Step(`^the cache directory is "([^"]*)"$`, theCacheDirectoryIs)
	ctx.Step(`^a (\d+)x(\d+) video named "([^"]*)"$`, aVideoNamed)
	ctx.Step(`^a remote (\d+)x(\d+) video at "([^"]*)"$`, aRemoteVideoAt)
	ctx.Step(`^a video named "([^"]*)" that cannot be decoded$`, aVideoThatCannotBeDecoded)
	ctx.Step(`^a directory named "([^"]*)"$`, aDirectoryNamed)
	ctx.Step(`^I request data for "([^"]*)" as (JPEG|PNG)$`, iRequestDataAs)
	ctx.Step(`^I request data for "([^"]*)" with max width (\d+) and max height (\d+) as (JPEG|PNG)$`, iRequestScaledDataAs)
	ctx.Step(`^I request data without a video$`, iRequestDataWithoutAVideo)
	ctx.Step(`^I request a file for "([^"]*)" as (JPEG|PNG)$`, iRequestAFileAs)
	ctx.Step(`^I request a file for "([^"]*)" at "([^"]*)" as (JPEG|PNG)$`, iRequestAFileAtAs)
	ctx.Step(`^I call the method "([^"]*)"$`, iCallTheMethod)
	ctx.Step(`^the result should be a (JPEG|PNG) image of (\d+)x(\d+)$`, theResultShouldBeAnImageOf)
	ctx.Step(`^the thumbnail should be written to "([^"]*)"$`, theThumbnailShouldBeWrittenTo)
	ctx.Step(`^the written file should be a (JPEG|PNG) image of (\d+)x(\d+)$`, theWrittenFileShouldBeAnImageOf)
	ctx.Step(`^the call should fail with code "([^"]*)"$`, theCallShouldFailWithCode)
	ctx.Step(`^the error message should contain "([^"]*)"$`, theErrorMessageShouldContain)
	ctx.Step(`^the call should be reported as not implemented$`, theCallShouldBeReportedAsNotImplemented)
}

// locate maps a scenario name to the locator sent in the call
func (tc *thumbnailContext) locate(name string) string {
	if strings.Contains(name, "://") {
		return name
	}
	return filepath.Join(tc.workDir, name)
}

func theCacheDirectoryIs(name string) error {
	tc := getThumbnailContext()
	tc.cacheDir = filepath.Join(tc.workDir, name)
	return os.MkdirAll(tc.cacheDir, 0755)
}

func aVideoNamed(width, height int, name string) error {
	tc := getThumbnailContext()
	path := tc.locate(name)
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		return err
	}
	tc.decoder.sizes[path] = thumbnail.Size{Width: width, Height: height}
	return nil
}

func aRemoteVideoAt(width, height int, url string) error {
	tc := getThumbnailContext()
	tc.decoder.sizes[url] = thumbnail.Size{Width: width, Height: height}
	return nil
}

func aVideoThatCannotBeDecoded(name string) error {
	tc := getThumbnailContext()
	tc.decoder.broken[tc.locate(name)] = true
	return nil
}

func aDirectoryNamed(name string) error {
	tc := getThumbnailContext()
	return os.MkdirAll(filepath.Join(tc.workDir, name), 0755)
}

func formatCode(name string) int {
	if name == "PNG" {
		return int(thumbnail.PNG)
	}
	return int(thumbnail.JPEG)
}

func (tc *thumbnailContext) invoke(method string, args map[string]any) error {
	service := appthumb.NewService(
		tc.decoder,
		raster.NewScaler(),
		raster.NewEncoder(nil),
		filesystem.NewWriter(),
		tc.cacheDir,
		zap.NewNop(),
	)
	handler := channel.NewHandler(service, channel.NewWorkerPool(0, nil))

	select {
	case tc.result = <-handler.Invoke(context.Background(), channel.MethodCall{Method: method, Arguments: args}):
		return nil
	case <-time.After(10 * time.Second):
		return fmt.Errorf("timed out waiting for %s reply", method)
	}
}

func iRequestDataAs(name, format string) error {
	return iRequestScaledDataAs(name, 0, 0, format)
}

func iRequestScaledDataAs(name string, maxWidth, maxHeight int, format string) error {
	tc := getThumbnailContext()
	return tc.invoke(channel.MethodData, map[string]any{
		"video":       tc.locate(name),
		"imageFormat": formatCode(format),
		"maxWidth":    maxWidth,
		"maxHeight":   maxHeight,
		"timeMs":      0,
		"quality":     80,
	})
}

func iRequestDataWithoutAVideo() error {
	return getThumbnailContext().invoke(channel.MethodData, map[string]any{"imageFormat": 0})
}

func iRequestAFileAs(name, format string) error {
	tc := getThumbnailContext()
	return tc.invoke(channel.MethodFile, map[string]any{
		"video":         tc.locate(name),
		"thumbnailPath": nil,
		"imageFormat":   formatCode(format),
		"quality":       80,
	})
}

func iRequestAFileAtAs(name, path, format string) error {
	tc := getThumbnailContext()
	// keep a trailing separator; it marks a directory
	target := tc.workDir + string(filepath.Separator) + path
	return tc.invoke(channel.MethodFile, map[string]any{
		"video":         tc.locate(name),
		"thumbnailPath": target,
		"imageFormat":   formatCode(format),
		"quality":       80,
	})
}

func iCallTheMethod(method string) error {
	return getThumbnailContext().invoke(method, map[string]any{})
}

func checkImage(data []byte, format string, width, height int) error {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("result is not a decodable image: %w", err)
	}
	if name != strings.ToLower(format) {
		return fmt.Errorf("expected %s image, got %s", format, name)
	}
	if cfg.Width != width || cfg.Height != height {
		return fmt.Errorf("expected %dx%d, got %dx%d", width, height, cfg.Width, cfg.Height)
	}
	return nil
}

func (tc *thumbnailContext) succeeded() error {
	if tc.result.Err != nil {
		return fmt.Errorf("call failed: %s: %s", tc.result.Err.Code, tc.result.Err.Message)
	}
	if tc.result.NotImplemented {
		return fmt.Errorf("call was not implemented")
	}
	return nil
}

func theResultShouldBeAnImageOf(format string, width, height int) error {
	tc := getThumbnailContext()
	if err := tc.succeeded(); err != nil {
		return err
	}
	data, ok := tc.result.Value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte result, got %T", tc.result.Value)
	}
	return checkImage(data, format, width, height)
}

func theThumbnailShouldBeWrittenTo(rel string) error {
	tc := getThumbnailContext()
	if err := tc.succeeded(); err != nil {
		return err
	}
	want := filepath.Join(tc.workDir, rel)
	if tc.result.Value != want {
		return fmt.Errorf("expected path %q, got %v", want, tc.result.Value)
	}
	if _, err := os.Stat(want); err != nil {
		return fmt.Errorf("thumbnail not on disk: %w", err)
	}
	return nil
}

func theWrittenFileShouldBeAnImageOf(format string, width, height int) error {
	tc := getThumbnailContext()
	path, ok := tc.result.Value.(string)
	if !ok {
		return fmt.Errorf("expected path result, got %T", tc.result.Value)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return checkImage(data, format, width, height)
}

func theCallShouldFailWithCode(code string) error {
	tc := getThumbnailContext()
	if tc.result.Err == nil {
		return fmt.Errorf("expected error %s, got %+v", code, tc.result)
	}
	if tc.result.Err.Code != code {
		return fmt.Errorf("expected code %q, got %q", code, tc.result.Err.Code)
	}
	return nil
}

func theErrorMessageShouldContain(text string) error {
	tc := getThumbnailContext()
	if tc.result.Err == nil || !strings.Contains(tc.result.Err.Message, text) {
		return fmt.Errorf("expected error message containing %q, got %+v", text, tc.result.Err)
	}
	return nil
}

func theCallShouldBeReportedAsNotImplemented() error {
	if !getThumbnailContext().result.NotImplemented {
		return fmt.Errorf("expected not implemented, got %+v", getThumbnailContext().result)
	}
	return nil
}
