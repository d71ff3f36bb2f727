// CLAUDE:SUMMARY Request/result types for the snapshot service.
package snapshot

import "context"

// CaptureRequest is the input tuple for one screenshot operation.
// Zero Width/Height mean "use defaults"; validation fills them in.
type CaptureRequest struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Capture is one stored screenshot. Created on each successful capture,
// never mutated, removed only by the retention sweeper.
type Capture struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
	CreatedAt   int64  `json:"created_at"` // unix millis
	ExpiresAt   int64  `json:"expires_at"` // unix millis, 0 = no expiry
}

// ScreenshotURL returns the retrieval path for this capture.
func (c *Capture) ScreenshotURL() string {
	return "/screenshots/" + c.Filename
}

// Renderer is the external rendering-engine contract: turn a URL plus
// viewport into raster PNG bytes, or fail.
type Renderer interface {
	Render(ctx context.Context, pageURL string, width, height int) ([]byte, error)
}
