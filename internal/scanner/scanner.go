// Package scanner drives the scan-to-pay camera flow. Decoded text is
// handed to a callback and never reaches the ledger.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneytrack/internal/log"
)

// Frame is one captured image.
type Frame []byte

// Constraints describe the requested capture mode.
type Constraints struct {
	FacingMode string `json:"facingMode"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// DefaultConstraints asks for the rear camera at 1280x720.
func DefaultConstraints() Constraints {
	return Constraints{FacingMode: "environment", Width: 1280, Height: 720}
}

type Camera interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Stream delivers frames until closed. Close releases the device and must
// be safe to call once per successful Open.
type Stream interface {
	Frames() <-chan Frame
	Close() error
}

// Decoder looks for a code in a frame; ok is false when there is none.
type Decoder interface {
	Decode(f Frame) (text string, ok bool, err error)
}

// Result is a successful scan.
type Result struct {
	Text      string    `json:"text"`
	ScannedAt time.Time `json:"scannedAt"`
}

type Session struct {
	Camera      Camera
	Decoder     Decoder
	Constraints Constraints
	Logger      *log.Logger
	Now         func() time.Time
}

// Run opens the camera, decodes frames until one yields text, and calls
// onDecoded with it. The stream is released on every return path.
func (s *Session) Run(ctx context.Context, onDecoded func(Result)) (err error) {
	logger := s.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentScanner)
	now := s.Now
	if now == nil {
		now = time.Now
	}
	constraints := s.Constraints
	if constraints == (Constraints{}) {
		constraints = DefaultConstraints()
	}

	stream, err := s.Camera.Open(ctx, constraints)
	if err != nil {
		var camErr *Error
		if !errors.As(err, &camErr) {
			err = &Error{Kind: Unknown, Err: err}
		}
		logger.WarnContext(ctx, "Camera unavailable",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeDevice)
		return err
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			logger.WarnContext(ctx, "Failed to release camera", log.FieldError, cerr.Error())
			if err == nil {
				err = fmt.Errorf("release camera: %w", cerr)
			}
		}
	}()

	frames := stream.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return ErrStreamEnded
			}
			text, found, derr := s.Decoder.Decode(f)
			if derr != nil {
				logger.DebugContext(ctx, "Frame not decodable", log.FieldError, derr.Error())
				continue
			}
			if !found {
				continue
			}
			logger.InfoContext(ctx, "Code scanned")
			if onDecoded != nil {
				onDecoded(Result{Text: text, ScannedAt: now()})
			}
			return nil
		}
	}
}
