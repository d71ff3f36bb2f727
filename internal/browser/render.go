// CLAUDE:SUMMARY Rod renderer: stealth page per capture, set viewport, navigate, wait load, capture full-viewport PNG.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Renderer turns a URL plus viewport into PNG bytes through the managed
// Chrome. One page per call, opened and closed within the call.
type Renderer struct {
	mgr        *Manager
	navTimeout time.Duration
}

// NewRenderer creates a Renderer on top of mgr. navTimeout bounds
// navigation plus load wait; <=0 means 30s.
func NewRenderer(mgr *Manager, navTimeout time.Duration) *Renderer {
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}
	return &Renderer{mgr: mgr, navTimeout: navTimeout}
}

// Render navigates to pageURL at the requested viewport, waits for the
// page's load event and captures a full-viewport PNG. Any failure along
// the way aborts the capture; there is no retry.
func (r *Renderer) Render(ctx context.Context, pageURL string, width, height int) ([]byte, error) {
	b := r.mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, r.navTimeout)
	defer cancel()
	p := page.Context(navCtx)

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("browser: set viewport: %w", err)
	}

	if err := p.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}

	// Engine-default "loaded" heuristic: the page's load event.
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("browser: wait load %s: %w", pageURL, err)
	}

	bin, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot %s: %w", pageURL, err)
	}
	return bin, nil
}
