package imaging

import (
	"image"

	imgtx "github.com/disintegration/imaging"
)

// FitInside scales img down so both sides are at most box, keeping the
// aspect ratio. Images already inside the box are returned unchanged.
func FitInside(img image.Image, box int) image.Image {
	b := img.Bounds()
	if box <= 0 || b.Dx() == 0 || b.Dy() == 0 || (b.Dx() <= box && b.Dy() <= box) {
		return img
	}
	return imgtx.Fit(img, box, box, imgtx.Lanczos)
}
