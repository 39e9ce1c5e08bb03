package render

import (
	"image"
	"strings"
)

// ramp goes from dark to bright
const ramp = " .:-=+*#%@"

// ASCII draws img as rows lines of cols characters, one luminance sample per cell
func ASCII(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	bounds := img.Bounds()
	var sb strings.Builder
	sb.Grow((cols + 1) * rows)

	for row := 0; row < rows; row++ {
		y := bounds.Min.Y + (2*row+1)*bounds.Dy()/(2*rows)
		for col := 0; col < cols; col++ {
			x := bounds.Min.X + (2*col+1)*bounds.Dx()/(2*cols)
			r, g, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma on 16-bit channels
			luma := (299*r + 587*g + 114*b) / 1000
			sb.WriteByte(ramp[int(luma)*(len(ramp)-1)/0xffff])
		}
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
