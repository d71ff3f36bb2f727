// CLAUDE:SUMMARY Capture input validation: absolute http(s) URL, viewport bounds, defaults.
// CLAUDE:EXPORTS DefaultWidth, DefaultHeight, MinWidth, MaxWidth, MinHeight, MaxHeight
package snapshot

import (
	"fmt"
	"net/url"
)

// Viewport bounds. Requests outside these are rejected before the
// rendering engine is ever invoked.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	MinWidth  = 320
	MaxWidth  = 3840
	MinHeight = 200
	MaxHeight = 2160

	maxURLLen = 4096
)

// validateCaptureInput checks a capture request and fills in viewport
// defaults. It mutates req in place so the service captures exactly what
// was validated.
func validateCaptureInput(req *CaptureRequest) error {
	if req.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	if len(req.URL) > maxURLLen {
		return fmt.Errorf("%w: url exceeds %d characters", ErrInvalidInput, maxURLLen)
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("%w: malformed url: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", ErrInvalidInput)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: url host is required", ErrInvalidInput)
	}

	if req.Width == 0 {
		req.Width = DefaultWidth
	}
	if req.Height == 0 {
		req.Height = DefaultHeight
	}

	if req.Width < MinWidth || req.Width > MaxWidth {
		return fmt.Errorf("%w: width must be between %d and %d", ErrInvalidInput, MinWidth, MaxWidth)
	}
	if req.Height < MinHeight || req.Height > MaxHeight {
		return fmt.Errorf("%w: height must be between %d and %d", ErrInvalidInput, MinHeight, MaxHeight)
	}

	return nil
}
