package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/facepix/internal/capture"
	"github.com/ayusman/facepix/internal/detector"
	"github.com/ayusman/facepix/internal/display"
	"github.com/ayusman/facepix/internal/geometry"
	"github.com/ayusman/facepix/internal/mask"
)

// Outline drawn around each masked region.
var outlineColor = color.RGBA{G: 255}

const outlineThickness = 2

// Run processes frames until the stream ends, a quit key is pressed, or a
// collaborator fails. It owns every frame it reads and closes each one
// before moving on.
//
// Loop stages per frame:
//  1. Read a frame from the camera.
//  2. Detect faces, pad and clamp their boxes.
//  3. Let the stabilizer choose fresh or held boxes.
//  4. Pixelate and outline every chosen box.
//  5. Publish to the feed, show the frame, poll for a quit key.
//
// The end of the stream is a normal way for a session to finish and is not
// reported as an error.
func (a *App) Run() (Summary, error) {
	summary := Summary{Started: time.Now()}

	for {
		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrStreamEnded) {
				log.Println("Stream ended")
				break
			}
			summary.Ended = time.Now()
			return summary, fmt.Errorf("read frame: %w", err)
		}

		boxes, detections := a.processFrame(frame)

		summary.Frames++
		if len(boxes) > 0 {
			summary.FramesMasked++
			summary.FacesMasked += uint64(len(boxes))
		}
		if len(boxes) > summary.PeakFaces {
			summary.PeakFaces = len(boxes)
		}

		if a.config.Feed != nil {
			if err := a.config.Feed.Publish(frame, boxes, len(detections), a.stab.Holding()); err != nil {
				log.Printf("Error publishing frame: %v", err)
			}
		}

		if err := a.config.Sink.Show(frame); err != nil {
			frame.Close()
			summary.Ended = time.Now()
			return summary, fmt.Errorf("show frame: %w", err)
		}

		key := a.config.Sink.PollKey()
		frame.Close()

		if display.IsQuitKey(key) {
			log.Println("Quit key pressed")
			break
		}
	}

	summary.Ended = time.Now()
	return summary, nil
}

// processFrame masks one frame in place and returns the masked boxes along
// with the raw detections.
//
// A detector error is logged and treated as a frame with no detections, so
// held boxes keep masking through short outages.
func (a *App) processFrame(frame *gocv.Mat) ([]image.Rectangle, []detector.Detection) {
	detections, err := a.config.Detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting faces: %v", err)
		detections = nil
	}

	width, height := frame.Cols(), frame.Rows()

	fresh := make([]image.Rectangle, 0, len(detections))
	for _, det := range detections {
		box := geometry.Expand(det.Box, a.config.FacePadding, width, height)
		if box.Empty() {
			continue
		}
		fresh = append(fresh, box)
	}

	boxes := a.stab.Advance(fresh)

	for _, box := range boxes {
		mask.Apply(frame, box, a.config.PixelBlock)
		gocv.Rectangle(frame, box, outlineColor, outlineThickness)
	}

	return boxes, detections
}
