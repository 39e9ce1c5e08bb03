package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/skinning"
	"github.com/akmonengine/skinning/rig"
)

func TestCamera_FovY(t *testing.T) {
	camera := DefaultCamera()

	assert.Equal(t, 60.0, camera.FovY(640, 480))
	assert.Equal(t, 60.0, camera.FovY(100, 100))

	fovy := camera.FovY(100, 200)
	assert.Greater(t, fovy, 60.0)

	// the horizontal field of a portrait frame stays at MinFovY
	halfX := math.Atan(0.5 * math.Tan(mgl64.DegToRad(fovy)/2))
	assert.InDelta(t, mgl64.DegToRad(30), halfX, 1e-12)
}

func TestCamera_ViewMovesEyeToOrigin(t *testing.T) {
	camera := DefaultCamera()

	got := mgl64.TransformCoordinate(camera.Position(), camera.View())
	assert.InDelta(t, 0, got.Len(), 1e-12)

	ahead := mgl64.TransformCoordinate(mgl64.Vec3{0, 0.25, 0}, camera.View())
	assert.InDelta(t, -4, ahead.Z(), 1e-12)
}

func TestProject_BehindNearPlane(t *testing.T) {
	camera := DefaultCamera()
	viewProj := camera.Projection(64, 64).Mul4(camera.View())

	center, ok := project(viewProj, mgl64.Vec3{0, 0.25, 0}, camera.Near, 64, 64)
	require.True(t, ok)
	assert.InDelta(t, 32, center.X, 1e-9)
	assert.InDelta(t, 32, center.Y, 1e-9)

	_, ok = project(viewProj, mgl64.Vec3{0, 0, 5}, camera.Near, 64, 64)
	assert.False(t, ok)
}

func TestRasterizeTriangle_DepthTest(t *testing.T) {
	fb := NewFrameBuffer(8, 8, color.NRGBA{A: 255})

	far := [3]screenVertex{{0, 0, 0.5}, {8, 0, 0.5}, {0, 8, 0.5}}
	near := [3]screenVertex{{0, 0, 0.1}, {8, 0, 0.1}, {0, 8, 0.1}}

	rasterizeTriangle(fb, near[0], near[1], near[2], 255, 0, 0)
	rasterizeTriangle(fb, far[0], far[1], far[2], 0, 255, 0)

	assert.Equal(t, []uint8{255, 0, 0, 255}, fb.Color[0:4])
	assert.InDelta(t, 0.1, fb.ZBuf[0], 1e-12)

	// bottom-right corner is outside the triangle
	last := (8*8 - 1) * 4
	assert.Equal(t, []uint8{0, 0, 0, 255}, fb.Color[last:last+4])
	assert.True(t, math.IsInf(fb.ZBuf[8*8-1], 1))
}

func TestRasterizeTriangle_BothWindings(t *testing.T) {
	fb := NewFrameBuffer(4, 4, color.NRGBA{A: 255})
	rasterizeTriangle(fb, screenVertex{0, 0, 0}, screenVertex{0, 4, 0}, screenVertex{4, 0, 0}, 9, 9, 9)

	assert.Equal(t, uint8(9), fb.Color[0])
}

func TestShade(t *testing.T) {
	lights := []PointLight{{Position: mgl64.Vec3{0, 10, 0}, Intensity: 0.5}}
	albedo := mgl64.Vec3{1, 1, 1}
	eye := mgl64.Vec3{0, 5, 0}

	lit := shade(albedo, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, eye, lights, Diffuse)
	assert.InDelta(t, ambient+0.5, lit.X(), 1e-12)

	// back faces are lit as front faces
	flipped := shade(albedo, mgl64.Vec3{}, mgl64.Vec3{0, -1, 0}, eye, lights, Diffuse)
	assert.Equal(t, lit, flipped)

	shiny := shade(albedo, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, eye, lights, Specular)
	assert.Greater(t, shiny.X(), lit.X())
}

func TestParseShading(t *testing.T) {
	for _, s := range []Shading{Diffuse, Specular} {
		got, ok := ParseShading(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok := ParseShading("phong")
	assert.False(t, ok)
}

func TestRender_Scene(t *testing.T) {
	scene, err := skinning.NewScene()
	require.NoError(t, err)

	renderer := NewRenderer(64, 64)
	img, err := renderer.Render(scene)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	center := img.NRGBAAt(32, 32)
	assert.Greater(t, center.B, center.R, "surface should be blue")
	assert.Greater(t, center.B, center.G, "surface should be blue")

	ground := img.NRGBAAt(32, 62)
	assert.Greater(t, ground.G, ground.R, "ground should be green")
	assert.Greater(t, ground.G, ground.B, "ground should be green")

	assert.Equal(t, DefaultBackground, img.NRGBAAt(1, 1))
}

func TestRender_FollowsPose(t *testing.T) {
	scene, err := skinning.NewScene()
	require.NoError(t, err)
	renderer := NewRenderer(48, 48)

	rest, err := renderer.Render(scene)
	require.NoError(t, err)

	scene.Skeleton.MustBone(1).SetRotate(rig.RotateZ(90))
	posed, err := renderer.Render(scene)
	require.NoError(t, err)

	assert.NotEqual(t, rest.Pix, posed.Pix)
}

func TestRender_Supersample(t *testing.T) {
	scene, err := skinning.NewScene()
	require.NoError(t, err)

	renderer := NewRenderer(40, 30)
	renderer.Supersample = 2
	img, err := renderer.Render(scene)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestRender_InvalidSize(t *testing.T) {
	scene, err := skinning.NewScene()
	require.NoError(t, err)

	_, err = NewRenderer(0, 10).Render(scene)
	assert.True(t, errors.Is(err, ErrInvalidSize))
}

func TestSave(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	dir := t.TempDir()

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "frame."+format)
			require.NoError(t, Save(path, img))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}

	err := Save(filepath.Join(dir, "frame.bmp"), img)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, statErr := os.Stat(filepath.Join(dir, "frame.bmp"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEncode_PNGRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "PNG"))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	r, g, b, _ := decoded.At(1, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestASCII(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{A: 255})
		img.SetNRGBA(x, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}

	got := ASCII(img, 4, 2)
	assert.Equal(t, "    \n@@@@", got)

	assert.Empty(t, ASCII(img, 0, 2))
	assert.Len(t, strings.Split(ASCII(img, 2, 5), "\n"), 5)
}

func TestTouchesGround(t *testing.T) {
	scene, err := skinning.NewScene()
	require.NoError(t, err)

	box, err := scene.Bounds()
	require.NoError(t, err)
	assert.False(t, TouchesGround(box))

	scene.MoveObject(mgl64.Vec3{0, -1.5, 0})
	box, err = scene.Bounds()
	require.NoError(t, err)
	assert.True(t, TouchesGround(box))

	scene.MoveObject(mgl64.Vec3{20, 0, 0})
	box, err = scene.Bounds()
	require.NoError(t, err)
	assert.False(t, TouchesGround(box), "outside the ground square")
}
