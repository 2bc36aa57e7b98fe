// Package feed hands processed frames from the pipeline to HTTP handlers.
//
// The pipeline is single threaded and owns every Mat it touches. Publish
// converts the finished frame into an immutable JPEG byte slice and a small
// event struct; HTTP handlers poll those copies and never share a Mat.
package feed

import (
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Box is a masked region in frame pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Event describes one processed frame.
type Event struct {
	// Seq increments with every published frame, starting at 1.
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`

	// Boxes are the regions masked in this frame.
	Boxes []Box `json:"boxes"`

	// Faces is the number of faces the detector reported for this frame.
	// It is zero while stale boxes are being held.
	Faces int `json:"faces"`

	// Held is true when Boxes carry over from an earlier detection.
	Held bool `json:"held"`
}

// Stats is a running summary of the session so far.
type Stats struct {
	Frames       uint64 `json:"frames"`
	FramesMasked uint64 `json:"frames_masked"`
	FacesMasked  uint64 `json:"faces_masked"`
	PeakFaces    int    `json:"peak_faces"`
	ActiveBoxes  int    `json:"active_boxes"`
	Holding      bool   `json:"holding"`
}

// Feed is a latest-value mailbox between the pipeline and HTTP handlers.
// One publisher writes, any number of readers poll.
type Feed struct {
	mu    sync.RWMutex
	jpeg  []byte
	event Event
	stats Stats
}

// New creates an empty Feed.
func New() *Feed {
	return &Feed{}
}

// Publish records a processed frame together with its masked boxes. faces
// is the raw detector count for this frame and held marks stale boxes.
// Counters and the event update even when the preview encode fails.
func (f *Feed) Publish(frame *gocv.Mat, boxes []image.Rectangle, faces int, held bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stats.Frames++
	if len(boxes) > 0 {
		f.stats.FramesMasked++
		f.stats.FacesMasked += uint64(len(boxes))
	}
	if len(boxes) > f.stats.PeakFaces {
		f.stats.PeakFaces = len(boxes)
	}
	f.stats.ActiveBoxes = len(boxes)
	f.stats.Holding = held

	f.event = Event{
		Seq:       f.event.Seq + 1,
		Timestamp: time.Now(),
		Boxes:     toBoxes(boxes),
		Faces:     faces,
		Held:      held,
	}

	if frame == nil || frame.Empty() {
		return fmt.Errorf("publish: empty frame")
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	f.jpeg = jpeg

	return nil
}

// Frame returns the most recent JPEG-encoded frame, or nil before the first
// publish. Callers must not modify the returned slice.
func (f *Feed) Frame() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.jpeg
}

// LastEvent returns the most recent event. Seq is zero before the first
// publish.
func (f *Feed) LastEvent() Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.event
}

// Snapshot returns the running stats.
func (f *Feed) Snapshot() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.stats
}

func toBoxes(rects []image.Rectangle) []Box {
	if len(rects) == 0 {
		return nil
	}
	boxes := make([]Box, len(rects))
	for i, r := range rects {
		boxes[i] = Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
	}
	return boxes
}
