// Package stabilizer holds recently detected face boxes across frames to
// bridge brief detector dropouts.
//
// Neural detectors can drop a true positive for a frame or two under motion
// blur or a pose change. A mask that flickers off for even one frame defeats
// the privacy guarantee, so the stabilizer keeps serving the last known
// boxes for a bounded number of missed frames before letting them expire.
package stabilizer

import "image"

// Stabilizer tracks the last non-empty detection and how many consecutive
// frames have passed without one. It is not safe for concurrent use; the
// frame pipeline owns it and drives it from a single goroutine.
type Stabilizer struct {
	holdFrames int
	lastBoxes  []image.Rectangle
	missed     int
}

// New creates a Stabilizer that trusts stale boxes for up to holdFrames
// consecutive detection misses. Negative values behave like zero: boxes are
// never held.
func New(holdFrames int) *Stabilizer {
	if holdFrames < 0 {
		holdFrames = 0
	}
	return &Stabilizer{holdFrames: holdFrames}
}

// Advance feeds one frame's detections, already expanded, clamped and
// filtered of zero-area boxes, and returns the boxes to mask this frame.
//
// A non-empty fresh set replaces the held boxes wholesale and resets the
// miss counter. An empty set serves the held boxes while fewer than
// holdFrames misses have accumulated; past that the held boxes expire and
// nothing is returned. The returned slice must not be modified.
func (s *Stabilizer) Advance(fresh []image.Rectangle) []image.Rectangle {
	if len(fresh) > 0 {
		boxes := make([]image.Rectangle, len(fresh))
		copy(boxes, fresh)
		s.lastBoxes = boxes
		s.missed = 0
		return s.lastBoxes
	}

	if len(s.lastBoxes) > 0 && s.missed < s.holdFrames {
		s.missed++
		return s.lastBoxes
	}

	s.lastBoxes = nil
	return nil
}

// Holding reports whether the boxes served most recently were stale.
func (s *Stabilizer) Holding() bool {
	return len(s.lastBoxes) > 0 && s.missed > 0
}

// Missed returns how many consecutive frames have passed without a fresh
// detection.
func (s *Stabilizer) Missed() int {
	return s.missed
}

// Reset returns the stabilizer to its startup state.
func (s *Stabilizer) Reset() {
	s.lastBoxes = nil
	s.missed = 0
}
