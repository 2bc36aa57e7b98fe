// Package mask implements the pixelation filter that anonymizes face regions.
package mask

import (
	"image"

	"gocv.io/x/gocv"
)

// MinBlockSize is the smallest effective mosaic block. Below this the mask
// has no visible effect and the downsizing degenerates.
const MinBlockSize = 2

// Pixelate returns a mosaic copy of region. The region is downsampled to
// roughly one pixel per block with linear interpolation, which averages away
// the identifying detail, then scaled back to the original size with
// nearest-neighbor so every block comes out flat-colored. The input Mat is
// never modified. The caller is responsible for closing the returned Mat.
func Pixelate(region gocv.Mat, blockSize int) gocv.Mat {
	if region.Empty() {
		return gocv.NewMat()
	}

	if blockSize < MinBlockSize {
		blockSize = MinBlockSize
	}

	smallW := region.Cols() / blockSize
	if smallW < 1 {
		smallW = 1
	}
	smallH := region.Rows() / blockSize
	if smallH < 1 {
		smallH = 1
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(region, &small, image.Pt(smallW, smallH), 0, 0, gocv.InterpolationLinear)

	mosaic := gocv.NewMat()
	gocv.Resize(small, &mosaic, image.Pt(region.Cols(), region.Rows()), 0, 0, gocv.InterpolationNearestNeighbor)

	return mosaic
}

// Apply pixelates box within frame in place. The box must already be clamped
// to the frame bounds; empty boxes are ignored.
func Apply(frame *gocv.Mat, box image.Rectangle, blockSize int) {
	if box.Empty() {
		return
	}

	region := frame.Region(box)
	defer region.Close()

	mosaic := Pixelate(region, blockSize)
	defer mosaic.Close()

	// The region Mat shares pixels with frame, so copying through it
	// writes the mosaic back into place.
	mosaic.CopyTo(&region)
}
