package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// NumLandmarks is the number of facial keypoints YuNet reports per face:
// right eye, left eye, nose tip, right mouth corner, left mouth corner.
const NumLandmarks = 5

// Detection is a single detected face in frame pixel coordinates.
type Detection struct {
	// Box is the face bounding box.
	Box image.Rectangle

	// Score is the detector confidence (0.0-1.0).
	Score float32

	// Landmarks are the five facial keypoints.
	Landmarks [NumLandmarks]image.Point
}

// Detector defines the interface for face detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected faces.
	// Returns an empty slice if no faces are detected.
	Detect(frame *gocv.Mat) ([]Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face detection.
type Config struct {
	// ModelPath is the path to the YuNet ONNX model file.
	ModelPath string

	// ScoreThreshold is the minimum detection confidence (0.0-1.0).
	ScoreThreshold float32

	// NMSThreshold is the non-maximum suppression overlap threshold (0.0-1.0).
	NMSThreshold float32

	// TopK is the number of candidate boxes kept before suppression.
	TopK int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelPath:      "face_detection_yunet_2023mar.onnx",
		ScoreThreshold: 0.8,
		NMSThreshold:   0.3,
		TopK:           5000,
	}
}
