package detector

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// detectionCols is the width of the YuNet output matrix: box x, y, w, h,
// five landmark x/y pairs, and the confidence score.
const detectionCols = 15

// YuNetDetector implements Detector using the OpenCV YuNet face detection
// model loaded from an ONNX file.
type YuNetDetector struct {
	config    Config
	net       gocv.FaceDetectorYN
	inputSize image.Point
	mu        sync.Mutex
}

// NewYuNetDetector loads the model at config.ModelPath and prepares it for
// frames of the given size. It fails if the model file does not exist; the
// check runs before handing the path to OpenCV, which would abort the
// process on a missing file.
func NewYuNetDetector(config Config, frameSize image.Point) (*YuNetDetector, error) {
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("model file %q: %w", config.ModelPath, err)
	}

	net := gocv.NewFaceDetectorYNWithParams(
		config.ModelPath,
		"",
		frameSize,
		config.ScoreThreshold,
		config.NMSThreshold,
		config.TopK,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &YuNetDetector{
		config:    config,
		net:       net,
		inputSize: frameSize,
	}, nil
}

// Detect runs the model on a frame and returns all faces above the
// configured score threshold.
func (d *YuNetDetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}

	// YuNet is bound to a fixed input size; follow the stream if it changes.
	size := image.Pt(frame.Cols(), frame.Rows())
	if size != d.inputSize {
		d.net.SetInputSize(size)
		d.inputSize = size
	}

	faces := gocv.NewMat()
	defer faces.Close()

	d.net.Detect(*frame, &faces)

	return parseDetections(faces), nil
}

// Close releases the underlying network.
func (d *YuNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.net.Close()
	return nil
}

// parseDetections converts the raw YuNet output matrix into Detections.
// Each row is one face.
func parseDetections(faces gocv.Mat) []Detection {
	if faces.Empty() || faces.Cols() < detectionCols {
		return nil
	}

	result := make([]Detection, 0, faces.Rows())
	for row := 0; row < faces.Rows(); row++ {
		x := int(faces.GetFloatAt(row, 0))
		y := int(faces.GetFloatAt(row, 1))
		w := int(faces.GetFloatAt(row, 2))
		h := int(faces.GetFloatAt(row, 3))

		det := Detection{
			Box:   image.Rect(x, y, x+w, y+h),
			Score: faces.GetFloatAt(row, detectionCols-1),
		}
		for i := 0; i < NumLandmarks; i++ {
			det.Landmarks[i] = image.Pt(
				int(faces.GetFloatAt(row, 4+i*2)),
				int(faces.GetFloatAt(row, 5+i*2)),
			)
		}
		result = append(result, det)
	}
	return result
}
