package imaging

import (
	"bytes"
	"image"

	imgtx "github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// readOrientation returns the EXIF orientation tag (1..8), or 1 when absent.
func readOrientation(raw []byte) int {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// applyOrientation returns img transformed so it displays upright.
// Rotations in the transform library run counter-clockwise.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imgtx.FlipH(img)
	case 3:
		return imgtx.Rotate180(img)
	case 4:
		return imgtx.FlipV(img)
	case 5:
		return imgtx.Transpose(img)
	case 6:
		return imgtx.Rotate270(img)
	case 7:
		return imgtx.Transverse(img)
	case 8:
		return imgtx.Rotate90(img)
	default:
		return img
	}
}
