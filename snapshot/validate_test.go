package snapshot

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCaptureInput_URL(t *testing.T) {
	// WHAT: Only absolute http(s) URLs with a host pass validation.
	// WHY: Anything else would send the browser somewhere meaningless
	// (or worse, file://) before any page load even starts.
	cases := []struct {
		name string
		url  string
		ok   bool
	}{
		{"https", "https://example.com", true},
		{"http", "http://example.com/path?q=1", true},
		{"empty", "", false},
		{"relative", "/just/a/path", false},
		{"no scheme", "example.com", false},
		{"ftp", "ftp://example.com", false},
		{"file", "file:///etc/passwd", false},
		{"scheme only", "https://", false},
		{"too long", "https://example.com/" + strings.Repeat("a", maxURLLen), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCaptureInput(&CaptureRequest{URL: tc.url})
			if tc.ok && err != nil {
				t.Fatalf("url %q: unexpected error: %v", tc.url, err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatalf("url %q: expected error, got nil", tc.url)
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("url %q: error is not ErrInvalidInput: %v", tc.url, err)
				}
			}
		})
	}
}

func TestValidateCaptureInput_Viewport(t *testing.T) {
	// WHAT: Zero dimensions get defaults; out-of-range dimensions are rejected.
	cases := []struct {
		name          string
		width, height int
		ok            bool
		wantW, wantH  int
	}{
		{"defaults", 0, 0, true, DefaultWidth, DefaultHeight},
		{"explicit", 1920, 1080, true, 1920, 1080},
		{"min bounds", MinWidth, MinHeight, true, MinWidth, MinHeight},
		{"max bounds", MaxWidth, MaxHeight, true, MaxWidth, MaxHeight},
		{"width too small", MinWidth - 1, 720, false, 0, 0},
		{"width too large", MaxWidth + 1, 720, false, 0, 0},
		{"height too small", 1280, MinHeight - 1, false, 0, 0},
		{"height too large", 1280, MaxHeight + 1, false, 0, 0},
		{"negative width", -100, 720, false, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &CaptureRequest{URL: "https://example.com", Width: tc.width, Height: tc.height}
			err := validateCaptureInput(req)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if req.Width != tc.wantW || req.Height != tc.wantH {
					t.Fatalf("viewport after validation: got %dx%d, want %dx%d",
						req.Width, req.Height, tc.wantW, tc.wantH)
				}
				return
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
