// CLAUDE:SUMMARY Sentinel errors for the snapshot service: invalid input, render failure, missing capture.
package snapshot

import "errors"

// ErrInvalidInput is returned when a capture request fails validation.
var ErrInvalidInput = errors.New("websnap: invalid input")

// ErrRenderFailed is returned when the rendering engine could not produce
// an image. It deliberately carries no detail about the cause: DNS, TLS and
// navigation timeouts all surface the same way to the caller.
var ErrRenderFailed = errors.New("websnap: render failed")

// ErrNotFound is returned when a requested capture does not exist.
var ErrNotFound = errors.New("websnap: capture not found")
