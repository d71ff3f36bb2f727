// CLAUDE:SUMMARY Snapshot service: validate request, drive the renderer, persist PNG + ledger row, return a capture reference.
// Package snapshot captures screenshots of web pages: it validates a
// capture request, delegates rendering to a headless-browser engine,
// persists the resulting PNG and returns a retrieval reference.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hazyhaar/websnap/idgen"
	"github.com/hazyhaar/websnap/observability"
	"github.com/hazyhaar/websnap/internal/store"
)

const contentTypePNG = "image/png"

// Service orchestrates capture and retrieval. Each request performs one
// atomic unit of work: one render, one file write, one ledger row.
type Service struct {
	cfg      *Config
	renderer Renderer
	files    *store.Files
	ledger   *store.Ledger
	logger   *slog.Logger
	events   *observability.EventLogger
	metrics  *observability.MetricsManager
	newToken idgen.Generator
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithLedger enables the SQLite capture ledger.
func WithLedger(l *store.Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithEvents enables business-event logging.
func WithEvents(e *observability.EventLogger) Option {
	return func(s *Service) { s.events = e }
}

// WithMetrics enables capture metrics.
func WithMetrics(m *observability.MetricsManager) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTokenGenerator overrides the filename token generator.
func WithTokenGenerator(gen idgen.Generator) Option {
	return func(s *Service) { s.newToken = gen }
}

// New creates a snapshot Service. renderer is the rendering-engine
// collaborator; cfg may be nil for defaults.
func New(renderer Renderer, cfg *Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if renderer == nil {
		return nil, fmt.Errorf("websnap: renderer is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.defaults()
	}
	if logger == nil {
		logger = slog.Default()
	}

	files, err := store.NewFiles(cfg.StorageDir)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:      cfg,
		renderer: renderer,
		files:    files,
		logger:   logger,
		newToken: idgen.NanoID(20),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Files exposes the image store for the retrieval handler and the sweeper.
func (s *Service) Files() *store.Files { return s.files }

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.cfg }

// Capture validates req, renders the page and persists the image.
// Identical inputs always produce distinct captures: there is no dedup
// and no cache.
func (s *Service) Capture(ctx context.Context, req *CaptureRequest) (*Capture, error) {
	if err := validateCaptureInput(req); err != nil {
		return nil, err
	}

	start := time.Now()
	png, err := s.renderer.Render(ctx, req.URL, req.Width, req.Height)
	if err != nil {
		s.logger.Warn("snapshot: render failed", "url", req.URL, "error", err)
		s.logEvent(ctx, "capture", "", req.URL, false)
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if len(png) == 0 {
		s.logEvent(ctx, "capture", "", req.URL, false)
		return nil, fmt.Errorf("%w: engine returned no image data", ErrRenderFailed)
	}

	filename := s.newToken() + ".png"
	size, err := s.files.Write(filename, png)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Capture{
		ID:          idgen.New(),
		URL:         req.URL,
		Width:       req.Width,
		Height:      req.Height,
		Filename:    filename,
		SizeBytes:   size,
		ContentType: contentTypePNG,
		CreatedAt:   now.UnixMilli(),
	}
	if !s.cfg.Retention.Disabled {
		c.ExpiresAt = now.Add(s.cfg.Retention.MaxAge).UnixMilli()
	}

	// Ledger and observability failures never fail a capture that
	// produced a file.
	if s.ledger != nil {
		if err := s.ledger.Insert(ctx, &store.Capture{
			ID:          c.ID,
			URL:         c.URL,
			Width:       c.Width,
			Height:      c.Height,
			Filename:    c.Filename,
			SizeBytes:   c.SizeBytes,
			ContentType: c.ContentType,
			CreatedAt:   c.CreatedAt,
			ExpiresAt:   c.ExpiresAt,
		}); err != nil {
			s.logger.Error("snapshot: ledger insert failed", "filename", filename, "error", err)
		}
	}
	s.logEvent(ctx, "capture", c.ID, req.URL, true)
	if s.metrics != nil {
		s.metrics.RecordSimple(observability.MetricCaptureDurationMs,
			float64(time.Since(start).Milliseconds()), "milliseconds")
		s.metrics.RecordSimple(observability.MetricCaptureCount, 1, "count")
	}

	s.logger.Info("snapshot: captured",
		"url", req.URL, "width", req.Width, "height", req.Height,
		"filename", filename, "bytes", size,
		"duration_ms", time.Since(start).Milliseconds())

	return c, nil
}

// OpenScreenshot opens a stored screenshot by filename. Bad names and
// absent files both come back as ErrNotFound: the filesystem is
// authoritative for retrieval, the ledger is never consulted.
func (s *Service) OpenScreenshot(filename string) (*os.File, os.FileInfo, error) {
	f, info, err := s.files.Open(filename)
	if err != nil {
		if errors.Is(err, store.ErrBadName) || errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, nil, err
	}
	return f, info, nil
}

// ListCaptures returns recent captures, newest first. Requires the ledger.
func (s *Service) ListCaptures(ctx context.Context, limit int) ([]*Capture, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("websnap: capture ledger is not configured")
	}
	if limit <= 0 || limit > s.cfg.ListLimit {
		limit = s.cfg.ListLimit
	}
	rows, err := s.ledger.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*Capture, 0, len(rows))
	for _, r := range rows {
		out = append(out, &Capture{
			ID:          r.ID,
			URL:         r.URL,
			Width:       r.Width,
			Height:      r.Height,
			Filename:    r.Filename,
			SizeBytes:   r.SizeBytes,
			ContentType: r.ContentType,
			CreatedAt:   r.CreatedAt,
			ExpiresAt:   r.ExpiresAt,
		})
	}
	return out, nil
}

func (s *Service) logEvent(ctx context.Context, action, entityID, url string, success bool) {
	if s.events == nil {
		return
	}
	s.events.LogEvent(ctx, observability.BusinessEvent{
		EventType:   "screenshot",
		ServiceName: "websnap",
		EntityType:  "capture",
		EntityID:    entityID,
		Action:      action,
		Details:     fmt.Sprintf(`{"url":%q}`, url),
		Success:     success,
	})
}
