package embedding

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// SyntheticPNG renders a deterministic gradient pattern keyed by seed, for
// seeding and tests in place of real photos.
func SyntheticPNG(seed int, size int) []byte {
	if size <= 0 {
		size = 64
	}
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var v int
			switch seed % 4 {
			case 0:
				v = x * 255 / size
			case 1:
				v = y * 255 / size
			case 2:
				v = (x + y) * 255 / (2 * size)
			default:
				if (x/(size/8+1)+y/(size/8+1))%2 == 0 {
					v = 230
				} else {
					v = 20
				}
			}
			v = (v + seed*37) % 256
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
