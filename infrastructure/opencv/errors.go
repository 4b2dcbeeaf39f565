package opencv

import "errors"

// ErrUnavailable is returned when the binary was built without the -tags=opencv backend
var ErrUnavailable = errors.New("opencv decoder requires -tags=opencv build")
