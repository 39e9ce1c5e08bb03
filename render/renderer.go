package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/akmonengine/skinning"
	"github.com/akmonengine/skinning/skin"
)

var ErrInvalidSize = errors.New("frame size must be positive")

const (
	// GroundLevel is the height of the ground plane
	GroundLevel = -2.0
	// GroundHalfSize is half the side of the square ground plane
	GroundHalfSize = 10.0
	// groundTiles splits the ground so that tiles crossing the near plane are dropped
	// one small quad at a time
	groundTiles = 20
)

var (
	DefaultBackground = color.NRGBA{R: 128, G: 200, B: 255, A: 255}
	groundColor       = mgl64.Vec3{0.1, 0.95, 0.1}
	surfaceColor      = mgl64.Vec3{0, 0, 1}
)

type Renderer struct {
	Width  int
	Height int
	// Supersample renders Supersample² samples per output pixel, 1 disables it
	Supersample int
	Shading     Shading
	Camera      Camera
	Background  color.NRGBA
	Lights      []PointLight
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		Width:       width,
		Height:      height,
		Supersample: 1,
		Shading:     Diffuse,
		Camera:      DefaultCamera(),
		Background:  DefaultBackground,
		Lights:      DefaultLights(),
	}
}

// Render draws the ground and the skinned surface of the scene in its current pose
func (r *Renderer) Render(scene *skinning.Scene) (*image.NRGBA, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "%dx%d", r.Width, r.Height)
	}

	vertices, err := scene.Skin()
	if err != nil {
		return nil, errors.Wrap(err, "skin surface")
	}

	ss := max(1, r.Supersample)
	width, height := r.Width*ss, r.Height*ss
	fb := NewFrameBuffer(width, height, r.Background)

	viewProj := r.Camera.Projection(width, height).Mul4(r.Camera.View())
	eye := r.Camera.Position()
	raster := func(a, b, c, normal mgl64.Vec3, albedo mgl64.Vec3) {
		sa, okA := project(viewProj, a, r.Camera.Near, width, height)
		sb, okB := project(viewProj, b, r.Camera.Near, width, height)
		sc, okC := project(viewProj, c, r.Camera.Near, width, height)
		if !okA || !okB || !okC {
			return
		}

		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		lit := shade(albedo, centroid, normal, eye, r.Lights, r.Shading)
		rasterizeTriangle(fb, sa, sb, sc, clamp255(lit.X()*255), clamp255(lit.Y()*255), clamp255(lit.Z()*255))
	}

	r.drawGround(raster)

	for _, tri := range scene.Surface.Triangles() {
		v0, v1, v2 := vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]
		normal := v0.Normal.Add(v1.Normal).Add(v2.Normal)
		if normal.Len() < 1e-12 {
			normal = v1.Position.Sub(v0.Position).Cross(v2.Position.Sub(v0.Position))
		}
		if normal.Len() < 1e-12 {
			continue
		}
		raster(v0.Position, v1.Position, v2.Position, normal.Normalize(), surfaceColor)
	}

	img := fb.Image()
	if ss == 1 {
		return img, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	return dst, nil
}

func (r *Renderer) drawGround(raster func(a, b, c, normal, albedo mgl64.Vec3)) {
	up := mgl64.Vec3{0, 1, 0}
	tile := 2 * GroundHalfSize / groundTiles

	for i := 0; i < groundTiles; i++ {
		x0 := -GroundHalfSize + float64(i)*tile
		x1 := x0 + tile
		for j := 0; j < groundTiles; j++ {
			z0 := -GroundHalfSize + float64(j)*tile
			z1 := z0 + tile

			a := mgl64.Vec3{x0, GroundLevel, z0}
			b := mgl64.Vec3{x1, GroundLevel, z0}
			c := mgl64.Vec3{x1, GroundLevel, z1}
			d := mgl64.Vec3{x0, GroundLevel, z1}
			raster(a, b, c, up, groundColor)
			raster(a, c, d, up, groundColor)
		}
	}
}

// TouchesGround reports whether a world space box reaches the ground plane
func TouchesGround(bounds skin.AABB) bool {
	ground := skin.AABB{
		Min: mgl64.Vec3{-GroundHalfSize, math.Inf(-1), -GroundHalfSize},
		Max: mgl64.Vec3{GroundHalfSize, GroundLevel, GroundHalfSize},
	}
	return bounds.Overlaps(ground)
}
