package ffmpeg

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestWebPEncoder_EncodeWebP(t *testing.T) {
	runner := &mockRunner{output: []byte("RIFF....WEBP")}
	e := NewWebPEncoder(WithEncoderCommandRunner(runner), WithEncoderFFmpegPath("/usr/bin/ffmpeg"))

	got, err := e.EncodeWebP(image.NewNRGBA(image.Rect(0, 0, 8, 4)), 40)
	if err != nil {
		t.Fatalf("EncodeWebP() unexpected error: %v", err)
	}
	if string(got) != "RIFF....WEBP" {
		t.Errorf("EncodeWebP() = %q", got)
	}
	if runner.name != "/usr/bin/ffmpeg" {
		t.Errorf("ran %q, want /usr/bin/ffmpeg", runner.name)
	}
	if v, _ := argValue(runner.args, "-quality"); v != "40" {
		t.Errorf("-quality = %q, want 40 (args %v)", v, runner.args)
	}
	if v, _ := argValue(runner.args, "-c:v"); v != "libwebp" {
		t.Errorf("-c:v = %q, want libwebp", v)
	}
	if v, _ := argValue(runner.args, "-i"); v != "pipe:0" {
		t.Errorf("-i = %q, want pipe:0", v)
	}

	img, err := png.Decode(bytes.NewReader(runner.stdin))
	if err != nil {
		t.Fatalf("stdin is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("stdin PNG is %dx%d, want 8x4", b.Dx(), b.Dy())
	}
}

func TestWebPEncoder_Failure(t *testing.T) {
	e := NewWebPEncoder(WithEncoderCommandRunner(&mockRunner{err: errors.New("Unknown encoder 'libwebp'")}))
	if _, err := e.EncodeWebP(image.NewNRGBA(image.Rect(0, 0, 2, 2)), 80); err == nil {
		t.Error("EncodeWebP() expected error, got nil")
	}
}
