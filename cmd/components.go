package cmd

import (
	"context"
	"fmt"
	"time"

	"video-thumbnail/application/channel"
	appthumb "video-thumbnail/application/thumbnail"
	"video-thumbnail/domain/thumbnail"
	"video-thumbnail/infrastructure/config"
	"video-thumbnail/infrastructure/ffmpeg"
	"video-thumbnail/infrastructure/filesystem"
	"video-thumbnail/infrastructure/logging"
	"video-thumbnail/infrastructure/opencv"
	"video-thumbnail/infrastructure/raster"
	"video-thumbnail/infrastructure/vips"

	"go.uber.org/zap"
)

// components holds the production object graph built from config
type components struct {
	logger  *zap.Logger
	service *appthumb.Service
	pool    *channel.WorkerPool
	handler *channel.Handler
}

// buildComponents wires decoders, encoders and the handler according to cfg
func buildComponents(ctx context.Context, cfg *config.Config, opts ...channel.HandlerOption) (*components, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	decoder, err := newDecoder(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	webp, err := newWebPEncoder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cacheDir, err := filesystem.CacheDir(cfg.Paths.CacheDirectory)
	if err != nil {
		return nil, err
	}

	service := appthumb.NewService(
		decoder,
		raster.NewScaler(),
		raster.NewEncoder(webp),
		filesystem.NewWriter(),
		cacheDir,
		logger,
	)

	format, err := thumbnail.ParseImageFormatName(cfg.Defaults.Format)
	if err != nil {
		return nil, err
	}

	pool := channel.NewWorkerPool(cfg.Worker.MaxConcurrency, logger)
	handlerOpts := append([]channel.HandlerOption{
		channel.WithLogger(logger),
		channel.WithDefaults(channel.Defaults{Format: format, Quality: cfg.Defaults.Quality}),
	}, opts...)

	return &components{
		logger:  logger,
		service: service,
		pool:    pool,
		handler: channel.NewHandler(service, pool, handlerOpts...),
	}, nil
}

func newDecoder(ctx context.Context, cfg *config.Config, logger *zap.Logger) (thumbnail.FrameDecoder, error) {
	switch cfg.Decoder.Backend {
	case config.BackendOpenCV:
		if !opencv.Available() {
			return nil, opencv.ErrUnavailable
		}
		return opencv.NewFrameDecoder(opencv.WithLogger(logger)), nil
	default:
		dec := ffmpeg.NewFrameDecoder(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path))
		if err := verify(ctx, dec); err != nil {
			return nil, err
		}
		return dec, nil
	}
}

func newWebPEncoder(ctx context.Context, cfg *config.Config) (raster.WebPEncoder, error) {
	switch cfg.Encoder.WebP {
	case config.BackendVips:
		if !vips.Available() {
			return nil, vips.ErrUnavailable
		}
		return vips.NewWebPEncoder(), nil
	default:
		enc := ffmpeg.NewWebPEncoder(ffmpeg.WithEncoderFFmpegPath(cfg.FFmpeg.Path))
		if err := verify(ctx, enc); err != nil {
			return nil, err
		}
		return enc, nil
	}
}

// verify runs VerifyInstalled when the component supports it
func verify(ctx context.Context, component any) error {
	if verifiable, ok := component.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}
	return nil
}

// close drains the pool and flushes the logger
func (c *components) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.pool.Shutdown(ctx); err != nil {
		c.logger.Warn("worker pool shutdown", zap.Error(err))
	}
	_ = c.logger.Sync()
}
