package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"video-thumbnail/domain/thumbnail"

	"go.uber.org/zap"
)

// Call outcomes reported to an Observer
const (
	StatusSuccess        = "success"
	StatusError          = "error"
	StatusNotImplemented = "not_implemented"
)

// ThumbnailService is what the handler needs from the extraction service
type ThumbnailService interface {
	Data(ctx context.Context, req *thumbnail.Request) ([]byte, error)
	File(ctx context.Context, req *thumbnail.Request) (string, error)
}

// Observer is notified when a call completes
type Observer interface {
	Observe(method, status string, elapsed time.Duration)
}

// StartObserver is an Observer that also wants to know when a call starts
// running on the pool.
type StartObserver interface {
	Observer
	Started(method string)
}

// Handler runs method calls on a worker pool and delivers each outcome on the
// callback executor.
type Handler struct {
	service   ThumbnailService
	pool      *WorkerPool
	callbacks Executor
	defaults  Defaults
	observer  Observer
	logger    *zap.Logger
}

// HandlerOption is a functional option for configuring Handler
type HandlerOption func(*Handler)

// WithCallbackExecutor sets where replies are delivered (default: Inline)
func WithCallbackExecutor(e Executor) HandlerOption {
	return func(h *Handler) {
		h.callbacks = e
	}
}

// WithDefaults sets the format and quality used when a call omits them
func WithDefaults(d Defaults) HandlerOption {
	return func(h *Handler) {
		h.defaults = d
	}
}

// WithObserver sets a completion hook, typically metrics
func WithObserver(o Observer) HandlerOption {
	return func(h *Handler) {
		h.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = l
	}
}

// NewHandler creates a new Handler
func NewHandler(service ThumbnailService, pool *WorkerPool, opts ...HandlerOption) *Handler {
	h := &Handler{
		service:   service,
		pool:      pool,
		callbacks: Inline{},
		defaults:  Defaults{Format: thumbnail.JPEG, Quality: DefaultQuality},
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// OnMethodCall schedules mc and returns immediately. reply is called exactly
// once, on the callback executor.
func (h *Handler) OnMethodCall(ctx context.Context, mc MethodCall, reply Reply) {
	err := h.pool.Submit(func() {
		h.handle(ctx, mc, reply)
	})
	if err != nil {
		h.fail(mc.Method, reply, err)
	}
}

// Invoke is OnMethodCall with the outcome delivered on a channel
func (h *Handler) Invoke(ctx context.Context, mc MethodCall) <-chan Result {
	results := make(chan Result, 1)
	h.OnMethodCall(ctx, mc, chanReply(results))
	return results
}

func (h *Handler) handle(ctx context.Context, mc MethodCall, reply Reply) {
	start := time.Now()
	log := h.logger.With(zap.String("method", mc.Method))
	replied := false
	if so, ok := h.observer.(StartObserver); ok {
		so.Started(mc.Method)
	}

	defer func() {
		if r := recover(); r != nil && !replied {
			h.observe(mc.Method, StatusError, start)
			h.fail(mc.Method, reply, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	call, err := DecodeCall(mc, h.defaults)
	if errors.Is(err, ErrNotImplemented) {
		log.Debug("method not implemented")
		h.observe(mc.Method, StatusNotImplemented, start)
		replied = true
		h.callbacks.Post(reply.NotImplemented)
		return
	}
	if err != nil {
		h.observe(mc.Method, StatusError, start)
		replied = true
		h.fail(mc.Method, reply, err)
		return
	}

	var result any
	switch c := call.(type) {
	case ExtractToFile:
		result, err = h.service.File(ctx, c.Req)
	case ExtractToBytes:
		result, err = h.service.Data(ctx, c.Req)
	default:
		err = fmt.Errorf("unhandled call type %T", call)
	}
	if err != nil {
		h.observe(mc.Method, StatusError, start)
		replied = true
		h.fail(mc.Method, reply, err)
		return
	}

	log.Debug("thumbnail generated",
		zap.Stringer("video", call.Request().Locator),
		zap.Duration("elapsed", time.Since(start)),
	)
	h.observe(mc.Method, StatusSuccess, start)
	replied = true
	h.callbacks.Post(func() { reply.Success(result) })
}

func (h *Handler) fail(method string, reply Reply, err error) {
	h.logger.Error("error generating thumbnail", zap.String("method", method), zap.Error(err))
	msg := err.Error()
	h.callbacks.Post(func() { reply.Error(ErrorCode, msg, nil) })
}

func (h *Handler) observe(method, status string, start time.Time) {
	if h.observer != nil {
		h.observer.Observe(method, status, time.Since(start))
	}
}
