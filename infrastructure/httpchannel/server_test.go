package httpchannel

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"video-thumbnail/application/channel"
	"video-thumbnail/domain/thumbnail"
)

// fakeService implements channel.ThumbnailService
type fakeService struct {
	err error
}

func (f *fakeService) Data(ctx context.Context, req *thumbnail.Request) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf("%s:%d:%d", req.Format.Ext(), req.MaxWidth, req.TimeMs)), nil
}

func (f *fakeService) File(ctx context.Context, req *thumbnail.Request) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return thumbnail.ResolvePath(req.Locator, req.ThumbnailPath, req.Format, "/cache")
}

func newTestServer(svc channel.ThumbnailService) *Server {
	h := channel.NewHandler(svc, channel.NewWorkerPool(0, nil))
	return NewServer(":0", h)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestServer_File(t *testing.T) {
	s := newTestServer(&fakeService{})

	w := do(t, s, http.MethodPost, "/v1/methods/file",
		`{"video":"/videos/a.mp4","thumbnailPath":"/out/","imageFormat":1,"maxWidth":0,"maxHeight":0,"timeMs":0,"quality":75}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Result != "/out/a.png" {
		t.Errorf("result = %q, want /out/a.png", body.Result)
	}
}

func TestServer_DataIsBase64(t *testing.T) {
	s := newTestServer(&fakeService{})

	w := do(t, s, http.MethodPost, "/v1/methods/data",
		`{"video":"/videos/a.mp4","imageFormat":2,"maxWidth":128,"timeMs":1500,"quality":50}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(body.Result)
	if err != nil {
		t.Fatalf("result is not base64: %v", err)
	}
	if string(raw) != "webp:128:1500" {
		t.Errorf("decoded result = %q, want webp:128:1500", raw)
	}
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeService
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown method",
			svc:        &fakeService{},
			path:       "/v1/methods/resize",
			body:       `{}`,
			wantStatus: http.StatusNotImplemented,
			wantBody:   `"notImplemented":true`,
		},
		{
			name:       "unknown method without body",
			svc:        &fakeService{},
			path:       "/v1/methods/resize",
			body:       ``,
			wantStatus: http.StatusNotImplemented,
			wantBody:   `"notImplemented":true`,
		},
		{
			name:       "service failure",
			svc:        &fakeService{err: fmt.Errorf("%w: boom", thumbnail.ErrFrameDecode)},
			path:       "/v1/methods/data",
			body:       `{"video":"/a.mp4"}`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   channel.ErrorCode,
		},
		{
			name:       "missing video",
			svc:        &fakeService{},
			path:       "/v1/methods/file",
			body:       `{"imageFormat":0}`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   channel.ErrorCode,
		},
		{
			name:       "malformed body",
			svc:        &fakeService{},
			path:       "/v1/methods/file",
			body:       `[1,2`,
			wantStatus: http.StatusBadRequest,
			wantBody:   channel.ErrorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(tt.svc), http.MethodPost, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := newTestServer(&fakeService{})

	if w := do(t, s, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("/healthz = %d %q", w.Code, w.Body.String())
	}
	if w := do(t, s, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", w.Code)
	}
}

func TestServer_CORS(t *testing.T) {
	h := channel.NewHandler(&fakeService{}, channel.NewWorkerPool(0, nil))
	s := NewServer(":0", h, WithAllowOrigins([]string{"http://app.test"}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://app.test", got)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := newTestServer(&fakeService{})
	s.address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Run() error = %v, want nil", err)
	}
}

// blockingService holds File until released and records the context state
// it sees afterwards
type blockingService struct {
	fakeService
	started chan struct{}
	release chan struct{}
	done    chan error
}

func (b *blockingService) File(ctx context.Context, req *thumbnail.Request) (string, error) {
	close(b.started)
	<-b.release
	b.done <- ctx.Err()
	return "/out/a.jpg", nil
}

func TestServer_ClientDisconnectDoesNotCancelWork(t *testing.T) {
	svc := &blockingService{
		started: make(chan struct{}),
		release: make(chan struct{}),
		done:    make(chan error, 1),
	}
	s := newTestServer(svc)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/v1/methods/file", strings.NewReader(`{"video":"/videos/a.mp4"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	served := make(chan struct{})
	go func() {
		s.Router().ServeHTTP(w, req)
		close(served)
	}()

	<-svc.started
	cancel()
	<-served

	close(svc.release)
	if err := <-svc.done; err != nil {
		t.Errorf("service context error = %v, want nil after client disconnect", err)
	}
}
