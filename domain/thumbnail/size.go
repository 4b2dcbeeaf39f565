package thumbnail

import (
	"fmt"
	"math"
)

// Size is a pixel dimension pair
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// IsZero reports whether neither dimension is set
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Constrained reports whether both dimensions are set
func (s Size) Constrained() bool {
	return s.Width > 0 && s.Height > 0
}

// TargetSize applies the scaling policy to a frame of the given native size.
// A zero max dimension is unconstrained. When only one is given the other
// keeps the native aspect ratio.
func TargetSize(native Size, maxWidth, maxHeight int) Size {
	switch {
	case maxWidth == 0 && maxHeight == 0:
		return native
	case maxWidth != 0 && maxHeight != 0:
		return Size{Width: maxWidth, Height: maxHeight}
	case maxWidth == 0:
		return Size{Width: scaleDimension(maxHeight, native.Height, native.Width), Height: maxHeight}
	default:
		return Size{Width: maxWidth, Height: scaleDimension(maxWidth, native.Width, native.Height)}
	}
}

func scaleDimension(given, known, other int) int {
	if known <= 0 {
		return other
	}
	v := int(math.Round(float64(given) / float64(known) * float64(other)))
	if v < 1 {
		return 1
	}
	return v
}
