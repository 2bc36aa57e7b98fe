// Package display presents processed frames to the user and reports
// key presses.
package display

import (
	"errors"

	"gocv.io/x/gocv"
)

// Keys recognized as a request to end the session.
const (
	KeyEscape = 27
	KeyQuit   = 'q'
)

// ErrEmptyFrame is returned when an empty Mat is handed to Show.
var ErrEmptyFrame = errors.New("display: empty frame")

// Sink receives processed frames for presentation.
type Sink interface {
	// Show presents a frame.
	Show(frame *gocv.Mat) error

	// PollKey returns the key pressed since the last call, or -1 if none.
	PollKey() int

	// Close releases the sink's resources.
	Close() error
}

// IsQuitKey reports whether key asks to end the session.
func IsQuitKey(key int) bool {
	return key == KeyQuit || key == KeyEscape
}

// windowSink shows frames in an on-screen HighGUI window.
type windowSink struct {
	window *gocv.Window
}

// NewWindow creates a Sink backed by a named on-screen window.
// HighGUI windows must be created and driven from the main thread.
func NewWindow(title string) Sink {
	return &windowSink{window: gocv.NewWindow(title)}
}

// Show presents a frame in the window.
func (w *windowSink) Show(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() {
		return ErrEmptyFrame
	}
	w.window.IMShow(*frame)
	return nil
}

// PollKey pumps the HighGUI event loop and returns the pressed key, or -1.
func (w *windowSink) PollKey() int {
	return w.window.WaitKey(1)
}

// Close destroys the window.
func (w *windowSink) Close() error {
	return w.window.Close()
}
