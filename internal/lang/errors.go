package lang

import "errors"

// ErrUnsupportedDirection indicates a direction outside en2ar/ar2en.
var ErrUnsupportedDirection = errors.New("unsupported translation direction")
