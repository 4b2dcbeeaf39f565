package thumbnail

import "testing"

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name      string
		native    Size
		maxWidth  int
		maxHeight int
		want      Size
	}{
		{"unconstrained keeps native", Size{400, 300}, 0, 0, Size{400, 300}},
		{"width only preserves aspect", Size{400, 300}, 200, 0, Size{200, 150}},
		{"height only preserves aspect", Size{400, 300}, 0, 150, Size{200, 150}},
		{"both given used exactly", Size{400, 300}, 100, 100, Size{100, 100}},
		{"rounds small results", Size{3, 1}, 2, 0, Size{2, 1}},
		{"rounds to nearest", Size{1920, 1080}, 100, 0, Size{100, 56}},
		{"never collapses to zero", Size{4000, 10}, 10, 0, Size{10, 1}},
		{"upscale", Size{160, 90}, 320, 0, Size{320, 180}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetSize(tt.native, tt.maxWidth, tt.maxHeight); got != tt.want {
				t.Errorf("TargetSize(%v, %d, %d) = %v, want %v", tt.native, tt.maxWidth, tt.maxHeight, got, tt.want)
			}
		})
	}
}

func TestSize_Predicates(t *testing.T) {
	if !(Size{}).IsZero() {
		t.Error("expected zero size to be zero")
	}
	if (Size{Width: 1}).IsZero() {
		t.Error("expected width-only size to not be zero")
	}
	if (Size{Width: 1}).Constrained() {
		t.Error("expected width-only size to not be constrained")
	}
	if !(Size{Width: 1, Height: 2}).Constrained() {
		t.Error("expected full size to be constrained")
	}
	if got := (Size{Width: 640, Height: 480}).String(); got != "640x480" {
		t.Errorf("Size.String() = %q, want 640x480", got)
	}
}
