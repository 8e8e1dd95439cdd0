package icongen

import "errors"

var (
	// ErrOutputPath is returned when the output file cannot be written, including when its
	// parent directory does not exist.
	ErrOutputPath = errors.New("output path error")
	// ErrRenderResource is returned when the bitmap or the font cannot be produced.
	ErrRenderResource = errors.New("rendering resource error")
)
