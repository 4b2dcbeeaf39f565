package thumbnail

import (
	"context"
	"errors"
	"testing"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name      string
		video     string
		format    ImageFormat
		maxWidth  int
		maxHeight int
		timeMs    int
		wantErr   error
	}{
		{name: "valid local", video: "/v.mp4", format: JPEG},
		{name: "valid remote", video: "https://x/v.mp4", format: WEBP, maxWidth: 128},
		{name: "empty video", video: "", format: JPEG, wantErr: ErrInvalidLocator},
		{name: "bad format", video: "/v.mp4", format: ImageFormat(3), wantErr: ErrUnsupportedFormat},
		{name: "negative width", video: "/v.mp4", format: PNG, maxWidth: -1, wantErr: ErrInvalidArgument},
		{name: "negative height", video: "/v.mp4", format: PNG, maxHeight: -1, wantErr: ErrInvalidArgument},
		{name: "negative time", video: "/v.mp4", format: PNG, timeMs: -5, wantErr: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.video, nil, "", tt.format, tt.maxWidth, tt.maxHeight, tt.timeMs, 50)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewRequest() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequest_SourceDropsHeadersForLocalVideos(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer x"}

	local, err := NewRequest("/v.mp4", headers, "", JPEG, 0, 0, 0, 50)
	if err != nil {
		t.Fatalf("NewRequest() unexpected error: %v", err)
	}
	if local.Source().Headers != nil {
		t.Errorf("local Source().Headers = %v, want nil", local.Source().Headers)
	}

	remote, err := NewRequest("https://x/v.mp4", headers, "", JPEG, 0, 0, 0, 50)
	if err != nil {
		t.Fatalf("NewRequest() unexpected error: %v", err)
	}
	if remote.Source().Headers["Authorization"] != "Bearer x" {
		t.Errorf("remote Source().Headers = %v, want Authorization header", remote.Source().Headers)
	}
}

type stubHandle struct {
	closed   bool
	closeErr error
}

func (h *stubHandle) FrameAt(ctx context.Context, timeMs int) (*Frame, error) { return nil, nil }
func (h *stubHandle) Close() error {
	h.closed = true
	return h.closeErr
}

type stubDecoder struct {
	handle  *stubHandle
	openErr error
}

func (d *stubDecoder) Open(ctx context.Context, src Source) (DecoderHandle, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.handle, nil
}

func TestUseDecoder_ReleasesOnEveryPath(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		dec := &stubDecoder{handle: &stubHandle{}}
		if err := UseDecoder(context.Background(), dec, Source{}, nil, func(DecoderHandle) error { return nil }); err != nil {
			t.Fatalf("UseDecoder() unexpected error: %v", err)
		}
		if !dec.handle.closed {
			t.Error("expected handle to be closed")
		}
	})

	t.Run("callback error", func(t *testing.T) {
		dec := &stubDecoder{handle: &stubHandle{}}
		want := errors.New("boom")
		if err := UseDecoder(context.Background(), dec, Source{}, nil, func(DecoderHandle) error { return want }); !errors.Is(err, want) {
			t.Fatalf("UseDecoder() error = %v, want %v", err, want)
		}
		if !dec.handle.closed {
			t.Error("expected handle to be closed")
		}
	})

	t.Run("panic", func(t *testing.T) {
		dec := &stubDecoder{handle: &stubHandle{}}
		func() {
			defer func() { _ = recover() }()
			_ = UseDecoder(context.Background(), dec, Source{}, nil, func(DecoderHandle) error { panic("decoder crashed") })
		}()
		if !dec.handle.closed {
			t.Error("expected handle to be closed after panic")
		}
	})

	t.Run("close error is swallowed", func(t *testing.T) {
		closeErr := errors.New("release failed")
		dec := &stubDecoder{handle: &stubHandle{closeErr: closeErr}}
		var reported error
		err := UseDecoder(context.Background(), dec, Source{}, func(err error) { reported = err }, func(DecoderHandle) error { return nil })
		if err != nil {
			t.Errorf("UseDecoder() error = %v, want nil", err)
		}
		if !errors.Is(reported, closeErr) {
			t.Errorf("reported close error = %v, want %v", reported, closeErr)
		}
	})

	t.Run("open error", func(t *testing.T) {
		want := errors.New("cannot open")
		dec := &stubDecoder{openErr: want}
		called := false
		err := UseDecoder(context.Background(), dec, Source{}, nil, func(DecoderHandle) error { called = true; return nil })
		if !errors.Is(err, want) || called {
			t.Errorf("UseDecoder() error = %v, called = %v", err, called)
		}
	})
}
