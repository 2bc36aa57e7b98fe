// Package capture provides video frame acquisition using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrCameraNotOpen is returned when trying to read from a source that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrStreamEnded is returned when the source has no more frames to deliver.
// It marks the normal end of a capture session, not a failure.
var ErrStreamEnded = errors.New("stream ended")

// Camera defines the interface for frame source implementations.
type Camera interface {
	Open() error
	Close() error

	// ReadFrame returns the next frame. The caller is responsible for
	// closing the returned Mat. Returns ErrStreamEnded once the source
	// runs out of frames.
	ReadFrame() (*gocv.Mat, error)

	IsOpen() bool
}

// cameraImpl manages video capture from a device, file or network stream
// using GoCV.
type cameraImpl struct {
	source  any // device index or URI, handed to OpenVideoCapture as-is
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a Camera reading from the capture device with the given ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{source: deviceID}
}

// NewStreamSource creates a Camera reading from a video file or network
// stream URI, e.g. "clip.mp4" or "rtsp://host/stream".
func NewStreamSource(uri string) Camera {
	return &cameraImpl{source: uri}
}

// Open opens the underlying source. The source's native resolution is kept;
// the session processes whatever frame size it delivers.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.source)
	if err != nil {
		return err
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the source and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the source.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrStreamEnded
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrStreamEnded
	}

	return &mat, nil
}

// IsOpen returns true if the source is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
