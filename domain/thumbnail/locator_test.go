package thumbnail

import (
	"errors"
	"testing"
)

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  LocatorKind
		wantLocal string
		wantErr   bool
	}{
		{name: "absolute path", input: "/videos/a.mp4", wantKind: LocalPath, wantLocal: "/videos/a.mp4"},
		{name: "file URI", input: "file:///videos/a.mp4", wantKind: FileURI, wantLocal: "/videos/a.mp4"},
		{name: "https URL", input: "https://example.com/a.mp4", wantKind: Remote, wantLocal: "https://example.com/a.mp4"},
		{name: "rtsp URL", input: "rtsp://cam.local/stream", wantKind: Remote, wantLocal: "rtsp://cam.local/stream"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "relative path", input: "videos/a.mp4", wantErr: true},
		{name: "bare file scheme", input: "file://", wantErr: true},
		{name: "scheme without host", input: "http:///a.mp4", wantErr: true},
		{name: "unparseable", input: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocator(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLocator) {
					t.Errorf("ParseLocator(%q) error = %v, want ErrInvalidLocator", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocator(%q) unexpected error: %v", tt.input, err)
			}
			if got.Kind() != tt.wantKind {
				t.Errorf("ParseLocator(%q).Kind() = %v, want %v", tt.input, got.Kind(), tt.wantKind)
			}
			if got.LocalPath() != tt.wantLocal {
				t.Errorf("ParseLocator(%q).LocalPath() = %q, want %q", tt.input, got.LocalPath(), tt.wantLocal)
			}
			if got.IsRemote() != (tt.wantKind == Remote) {
				t.Errorf("ParseLocator(%q).IsRemote() = %v", tt.input, got.IsRemote())
			}
		})
	}
}
