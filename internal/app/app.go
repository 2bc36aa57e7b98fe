// Package app wires capture, detection, masking, and display into the
// facepix processing loop.
package app

import (
	"time"

	"github.com/ayusman/facepix/internal/capture"
	"github.com/ayusman/facepix/internal/detector"
	"github.com/ayusman/facepix/internal/display"
	"github.com/ayusman/facepix/internal/feed"
	"github.com/ayusman/facepix/internal/stabilizer"
)

// Config holds the collaborators and tuning knobs for a session.
type Config struct {
	// Camera supplies frames. It must already be open.
	Camera capture.Camera

	// Detector finds faces in each frame.
	Detector detector.Detector

	// Sink presents processed frames and reports key presses.
	Sink display.Sink

	// Feed, when set, receives every processed frame for the HTTP server.
	Feed *feed.Feed

	// FacePadding grows each detected box by this fraction of its size on
	// every side before masking.
	FacePadding float64

	// PixelBlock is the mosaic block size in pixels.
	PixelBlock int

	// HoldFrames is how many consecutive frames stale boxes survive
	// without a fresh detection.
	HoldFrames int
}

// Summary describes a finished session.
type Summary struct {
	Started      time.Time
	Ended        time.Time
	Frames       uint64
	FramesMasked uint64
	FacesMasked  uint64
	PeakFaces    int
}

// Duration returns the wall-clock length of the session.
func (s Summary) Duration() time.Duration {
	return s.Ended.Sub(s.Started)
}

// App runs the frame processing loop.
type App struct {
	config Config
	stab   *stabilizer.Stabilizer
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.FacePadding < 0 {
		config.FacePadding = 0
	}

	return &App{
		config: config,
		stab:   stabilizer.New(config.HoldFrames),
	}
}
