package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSink is a test implementation of the Sink interface. It counts the
// frames it is shown and serves a scripted sequence of key presses.
type MockSink struct {
	mu      sync.Mutex
	shown   int
	lastW   int
	lastH   int
	keys    []int
	showErr error
	closed  bool
}

// NewMockSink creates a new MockSink instance.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// QueueKeys appends key codes that PollKey will return in order.
// Once drained, PollKey reports -1.
func (m *MockSink) QueueKeys(keys ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, keys...)
}

// SetShowError sets the error that Show will return.
func (m *MockSink) SetShowError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showErr = err
}

// Show records the frame's dimensions.
func (m *MockSink) Show(frame *gocv.Mat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.showErr != nil {
		return m.showErr
	}
	if frame == nil || frame.Empty() {
		return ErrEmptyFrame
	}
	m.shown++
	m.lastW = frame.Cols()
	m.lastH = frame.Rows()
	return nil
}

// PollKey returns the next queued key, or -1 when the queue is empty.
func (m *MockSink) PollKey() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.keys) == 0 {
		return -1
	}
	key := m.keys[0]
	m.keys = m.keys[1:]
	return key
}

// Close marks the sink closed.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Shown returns how many frames were presented.
func (m *MockSink) Shown() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// LastFrameSize returns the dimensions of the most recently shown frame.
func (m *MockSink) LastFrameSize() (width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastW, m.lastH
}
