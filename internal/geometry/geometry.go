// Package geometry provides pure rectangle operations in frame pixel space.
package geometry

import (
	"image"
	"math"
)

// Clamp intersects r with the frame bounds [0,width) x [0,height).
// The result always has non-negative width and height; rectangles entirely
// outside the frame come back empty.
func Clamp(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}

// Expand grows r symmetrically by round(width*padRatio) horizontally and
// round(height*padRatio) vertically, then clamps the result to the frame
// bounds. Detector boxes tend to bound the facial landmarks tightly;
// padding pulls hairline, jaw and ears into the masked region as well.
func Expand(r image.Rectangle, padRatio float64, width, height int) image.Rectangle {
	padX := int(math.Round(float64(r.Dx()) * padRatio))
	padY := int(math.Round(float64(r.Dy()) * padRatio))

	grown := image.Rect(
		r.Min.X-padX,
		r.Min.Y-padY,
		r.Max.X+padX,
		r.Max.Y+padY,
	)
	return Clamp(grown, width, height)
}
