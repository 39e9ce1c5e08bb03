package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// screenVertex is a projected vertex: pixel coordinates and NDC depth
type screenVertex struct {
	X, Y, Z float64
}

// project maps a world point to the frame. ok is false when the point lies behind the
// near plane and cannot be divided by its w.
func project(viewProj mgl64.Mat4, p mgl64.Vec3, near float64, width, height int) (screenVertex, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip.W() < near {
		return screenVertex{}, false
	}
	invW := 1 / clip.W()
	return screenVertex{
		X: (clip.X()*invW + 1) * 0.5 * float64(width),
		Y: (1 - clip.Y()*invW) * 0.5 * float64(height),
		Z: clip.Z() * invW,
	}, true
}

// rasterizeTriangle fills a flat-colored triangle, keeping the closest depth per pixel.
// Both windings are drawn.
func rasterizeTriangle(fb *FrameBuffer, v0, v1, v2 screenVertex, r, g, b uint8) {
	x0, y0, z0 := v0.X, v0.Y, v0.Z
	x1, y1, z1 := v1.X, v1.Y, v1.Z
	x2, y2, z2 := v2.X, v2.Y, v2.Z

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Pixel centers are sampled at +0.5
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			if z < -1 || z > 1 {
				continue
			}
			zIdx := rowOff + sx
			if z >= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = r
			fb.Color[pxIdx+1] = g
			fb.Color[pxIdx+2] = b
			fb.Color[pxIdx+3] = 255
		}
	}
}
