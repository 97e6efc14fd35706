package layout

import (
	"fmt"
	"math"
)

// Fit scales a naturalWidth x naturalHeight image to fill a box on its
// constraining axis while keeping the aspect ratio.
func Fit(naturalWidth, naturalHeight, boxWidth, boxHeight float64) (float64, float64, error) {
	if !(naturalWidth > 0) || !(naturalHeight > 0) || math.IsInf(naturalWidth, 0) || math.IsInf(naturalHeight, 0) {
		return 0, 0, fmt.Errorf("%w: %gx%g", ErrInvalidImageDimensions, naturalWidth, naturalHeight)
	}
	if !(boxWidth > 0) || !(boxHeight > 0) {
		return 0, 0, fmt.Errorf("%w: box %gx%g", ErrInvalidGeometry, boxWidth, boxHeight)
	}

	ratio := naturalWidth / naturalHeight

	renderW := boxWidth
	renderH := boxWidth / ratio
	if renderH > boxHeight {
		renderH = boxHeight
		renderW = boxHeight * ratio
	}
	return renderW, renderH, nil
}

// Center places a w x h rect in the middle of box.
func Center(box Rect, w, h float64) Rect {
	return Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}
