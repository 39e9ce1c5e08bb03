package render

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // NDC depth per pixel, smaller is closer, initialized to +inf
}

// NewFrameBuffer allocates a buffer filled with background and a +inf z-buffer.
func NewFrameBuffer(w, h int, background color.NRGBA) *FrameBuffer {
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		fb.ZBuf[i] = math.Inf(1)
		fb.Color[i*4] = background.R
		fb.Color[i*4+1] = background.G
		fb.Color[i*4+2] = background.B
		fb.Color[i*4+3] = background.A
	}
	return fb
}

// Image copies the color buffer into an NRGBA image
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
