package httpchannel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"video-thumbnail/application/channel"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Invoker runs a method call and delivers its outcome on a channel
type Invoker interface {
	Invoke(ctx context.Context, mc channel.MethodCall) <-chan channel.Result
}

// Server exposes the method-call handler over HTTP
type Server struct {
	router  *gin.Engine
	invoker Invoker
	logger  *zap.Logger
	address string
	srv     *http.Server
}

// ServerOption is a functional option for configuring Server
type ServerOption func(*serverOptions)

type serverOptions struct {
	allowOrigins []string
	logger       *zap.Logger
}

// WithAllowOrigins enables CORS for the given origins
func WithAllowOrigins(origins []string) ServerOption {
	return func(o *serverOptions) {
		o.allowOrigins = origins
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ServerOption {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// NewServer creates a new server bound to address
func NewServer(address string, invoker Invoker, opts ...ServerOption) *Server {
	o := serverOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(o.logger))

	if len(o.allowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: o.allowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s := &Server{
		router:  r,
		invoker: invoker,
		logger:  o.logger,
		address: address,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.POST("/v1/methods/:method", s.handleMethodCall)
}

// Router returns the gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("address", s.address))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
