package vips

import "errors"

// ErrUnavailable is returned when the binary was built without the -tags=vips backend
var ErrUnavailable = errors.New("vips encoder requires -tags=vips build")
