package thumbnail

import "context"

// FrameDecoder opens video sources for frame extraction
// This is a port that can be implemented by different infrastructure adapters
type FrameDecoder interface {
	// Open prepares src for decoding. The returned handle must be closed.
	Open(ctx context.Context, src Source) (DecoderHandle, error)
}

// DecoderHandle is an open video source
type DecoderHandle interface {
	// FrameAt returns the frame closest to timeMs at native resolution
	FrameAt(ctx context.Context, timeMs int) (*Frame, error)
	Close() error
}

// ScaledFrameDecoder is implemented by handles that can decode straight to a
// target size, avoiding a full-resolution frame.
type ScaledFrameDecoder interface {
	ScaledFrameAt(ctx context.Context, timeMs int, size Size) (*Frame, error)
}

// Scaler resizes decoded frames
type Scaler interface {
	Scale(frame *Frame, size Size) (*Frame, error)
}

// Encoder turns a frame into image bytes
type Encoder interface {
	// Encode uses quality for lossy formats only
	Encode(frame *Frame, format ImageFormat, quality int) ([]byte, error)
}

// FileWriter persists encoded thumbnails
type FileWriter interface {
	Write(path string, data []byte) error
}

// FileChecker defines the interface for checking file existence
// This is used to reject missing local videos before decoding
type FileChecker interface {
	// Exists reports whether path is a regular file a decoder can open
	Exists(path string) bool
}

// UseDecoder opens src, hands the handle to fn and closes it on every exit
// path, including panics. A failing Close is reported to onCloseErr and never
// returned.
func UseDecoder(ctx context.Context, dec FrameDecoder, src Source, onCloseErr func(error), fn func(DecoderHandle) error) error {
	h, err := dec.Open(ctx, src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil && onCloseErr != nil {
			onCloseErr(cerr)
		}
	}()
	return fn(h)
}
