// Package testutil provides synthetic video frames for tests, avoiding any
// dependency on camera hardware or image files.
package testutil

import (
	"gocv.io/x/gocv"
)

// GradientFrame returns a BGR frame with a per-pixel gradient. Every pixel
// differs from its neighbors, which makes lost detail easy to spot.
func GradientFrame(width, height int) *gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for c := 0; c < 3; c++ {
				mat.SetUCharAt(y, x*3+c, uint8((x*7+y*3+c*31)%256))
			}
		}
	}
	return &mat
}

// UniformFrame returns a frame filled with a single gray value.
func UniformFrame(width, height int, value uint8) *gocv.Mat {
	scalar := gocv.NewScalar(float64(value), float64(value), float64(value), 0)
	mat := gocv.NewMatWithSizeFromScalar(scalar, height, width, gocv.MatTypeCV8UC3)
	return &mat
}

// FrameSequence returns count gradient frames, each shifted so consecutive
// frames differ.
func FrameSequence(count, width, height int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, count)
	for i := 0; i < count; i++ {
		mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				for c := 0; c < 3; c++ {
					mat.SetUCharAt(y, x*3+c, uint8((x*7+y*3+c*31+i*11)%256))
				}
			}
		}
		frames = append(frames, &mat)
	}
	return frames
}

// CloseFrames releases every frame in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
