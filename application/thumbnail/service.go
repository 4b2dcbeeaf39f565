package thumbnail

import (
	"context"
	"errors"
	"fmt"

	"video-thumbnail/domain/thumbnail"

	"go.uber.org/zap"
)

// Service coordinates frame extraction, scaling, encoding and persistence.
// It keeps no per-request state and is safe for concurrent use.
type Service struct {
	decoder  thumbnail.FrameDecoder
	scaler   thumbnail.Scaler
	encoder  thumbnail.Encoder
	writer   thumbnail.FileWriter
	cacheDir string
	logger   *zap.Logger
}

// NewService creates a new Service. cacheDir receives thumbnails of remote
// videos when no output path is requested.
func NewService(decoder thumbnail.FrameDecoder, scaler thumbnail.Scaler, encoder thumbnail.Encoder, writer thumbnail.FileWriter, cacheDir string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		decoder:  decoder,
		scaler:   scaler,
		encoder:  encoder,
		writer:   writer,
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// Extract decodes the frame closest to timeMs and sizes it to the requested
// constraints. Zero constraints keep the native size.
func (s *Service) Extract(ctx context.Context, src thumbnail.Source, timeMs, maxWidth, maxHeight int) (*thumbnail.Frame, error) {
	log := s.logger.With(zap.Stringer("video", src.Locator), zap.Int("time_ms", timeMs))
	target := thumbnail.Size{Width: maxWidth, Height: maxHeight}

	var frame *thumbnail.Frame
	release := func(err error) {
		log.Warn("failed to release video decoder", zap.Error(err))
	}
	err := thumbnail.UseDecoder(ctx, s.decoder, src, release, func(h thumbnail.DecoderHandle) error {
		var err error
		if target.Constrained() {
			if scaled, ok := h.(thumbnail.ScaledFrameDecoder); ok {
				frame, err = scaled.ScaledFrameAt(ctx, timeMs, target)
				return err
			}
		}
		frame, err = h.FrameAt(ctx, timeMs)
		return err
	})
	if err != nil {
		if errors.Is(err, thumbnail.ErrInvalidLocator) || errors.Is(err, thumbnail.ErrFrameDecode) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", thumbnail.ErrFrameDecode, err)
	}
	if frame.Empty() {
		return nil, fmt.Errorf("%w: no frame near %dms in %s", thumbnail.ErrFrameDecode, timeMs, src.Locator)
	}

	native := frame.Size()
	if !target.IsZero() {
		want := thumbnail.TargetSize(native, maxWidth, maxHeight)
		if want != native {
			frame, err = s.scaler.Scale(frame, want)
			if err != nil {
				return nil, fmt.Errorf("%w: scaling to %s: %w", thumbnail.ErrFrameDecode, want, err)
			}
		}
	}

	log.Debug("frame extracted", zap.Stringer("native", native), zap.Stringer("size", frame.Size()))
	return frame, nil
}

// Encode compresses a frame. Quality only matters for lossy formats.
func (s *Service) Encode(frame *thumbnail.Frame, format thumbnail.ImageFormat, quality int) ([]byte, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("%w: frame is empty", thumbnail.ErrEncode)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", thumbnail.ErrUnsupportedFormat, format)
	}

	data, err := s.encoder.Encode(frame, format, quality)
	if err != nil {
		if errors.Is(err, thumbnail.ErrEncode) || errors.Is(err, thumbnail.ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", thumbnail.ErrEncode, format, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: encoder produced no %s data", thumbnail.ErrEncode, format)
	}

	fields := []zap.Field{zap.String("mime_type", format.MimeType()), zap.Int("bytes", len(data))}
	if format.Lossy() {
		fields = append(fields, zap.Int("quality", quality))
	}
	s.logger.Debug("thumbnail encoded", fields...)
	return data, nil
}

// Data extracts and encodes a thumbnail
func (s *Service) Data(ctx context.Context, req *thumbnail.Request) ([]byte, error) {
	frame, err := s.Extract(ctx, req.Source(), req.TimeMs, req.MaxWidth, req.MaxHeight)
	if err != nil {
		return nil, err
	}
	return s.Encode(frame, req.Format, req.Quality)
}

// ResolvePath returns the file a thumbnail for req would be written to
func (s *Service) ResolvePath(req *thumbnail.Request) (string, error) {
	return thumbnail.ResolvePath(req.Locator, req.ThumbnailPath, req.Format, s.cacheDir)
}

// File extracts a thumbnail, writes it and returns the absolute path
func (s *Service) File(ctx context.Context, req *thumbnail.Request) (string, error) {
	path, err := s.ResolvePath(req)
	if err != nil {
		return "", err
	}

	data, err := s.Data(ctx, req)
	if err != nil {
		return "", err
	}

	if err := s.writer.Write(path, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", thumbnail.ErrIO, path, err)
	}

	s.logger.Info("thumbnail written",
		zap.Stringer("video", req.Locator),
		zap.String("at", thumbnail.FormatOffset(req.TimeMs)),
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return path, nil
}
