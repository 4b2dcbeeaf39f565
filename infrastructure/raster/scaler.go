package raster

import (
	"fmt"

	"video-thumbnail/domain/thumbnail"

	"github.com/disintegration/imaging"
)

// Scaler implements thumbnail.Scaler with imaging's resampling filters
type Scaler struct {
	filter imaging.ResampleFilter
}

// NewScaler creates a scaler using Lanczos resampling
func NewScaler() *Scaler {
	return &Scaler{filter: imaging.Lanczos}
}

// Scale resizes frame to exactly size
func (s *Scaler) Scale(frame *thumbnail.Frame, size thumbnail.Size) (*thumbnail.Frame, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("cannot scale an empty frame")
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("invalid target size %s", size)
	}
	return thumbnail.NewFrame(imaging.Resize(frame.Image, size.Width, size.Height, s.filter)), nil
}

// Ensure Scaler implements thumbnail.Scaler
var _ thumbnail.Scaler = (*Scaler)(nil)
