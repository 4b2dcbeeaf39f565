package thumbnail

import "image"

// Frame is a single decoded raster taken from a video. It is owned by the
// extraction call that produced it.
type Frame struct {
	Image image.Image
}

// NewFrame wraps a decoded image
func NewFrame(img image.Image) *Frame {
	return &Frame{Image: img}
}

// Size returns the frame's pixel dimensions
func (f *Frame) Size() Size {
	if f.Empty() {
		return Size{}
	}
	b := f.Image.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// Empty reports whether the frame holds no pixels
func (f *Frame) Empty() bool {
	if f == nil || f.Image == nil {
		return true
	}
	return f.Image.Bounds().Empty()
}
