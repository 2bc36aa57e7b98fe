package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	faces []Detection
	err   error
	queue []scriptedResult
}

type scriptedResult struct {
	faces []Detection
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces that will be returned by every Detect call.
func (m *MockDetector) SetFaces(faces []Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = faces
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Enqueue appends a scripted result consumed by a single Detect call.
// Scripted results take priority over SetFaces and are served in order.
func (m *MockDetector) Enqueue(faces ...Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scriptedResult{faces: faces})
}

// EnqueueError appends a scripted error consumed by a single Detect call.
func (m *MockDetector) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, scriptedResult{err: err})
}

// Detect returns the next scripted result if any, otherwise the fixed
// faces or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next.faces, next.err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FrontalFace returns a preset Detection for a frontal face centered in a
// 640x480 frame, with plausible eye, nose, and mouth landmarks.
func FrontalFace() Detection {
	return Detection{
		Box:   image.Rect(270, 165, 370, 315),
		Score: 0.95,
		Landmarks: [NumLandmarks]image.Point{
			{X: 295, Y: 220}, // right eye
			{X: 345, Y: 220}, // left eye
			{X: 320, Y: 250}, // nose tip
			{X: 300, Y: 280}, // right mouth corner
			{X: 340, Y: 280}, // left mouth corner
		},
	}
}

// CornerFace returns a preset Detection for a small face near the top-left
// corner of a 640x480 frame. Padding it spills past the frame edge.
func CornerFace() Detection {
	return Detection{
		Box:   image.Rect(10, 10, 70, 90),
		Score: 0.88,
		Landmarks: [NumLandmarks]image.Point{
			{X: 25, Y: 40},
			{X: 55, Y: 40},
			{X: 40, Y: 55},
			{X: 28, Y: 72},
			{X: 52, Y: 72},
		},
	}
}
