// Package render draws a skinned scene with a small software rasterizer and writes
// the frames to disk.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/skinning/rig"
)

// Camera looks down its own -Z axis
type Camera struct {
	Eye rig.RigidTransform
	// MinFovY is the vertical field of view in degrees for landscape frames;
	// portrait frames widen it so the horizontal field stays at MinFovY.
	MinFovY float64
	Near    float64
	Far     float64
}

// DefaultCamera sits 4 units in front of the origin, slightly raised
func DefaultCamera() Camera {
	return Camera{
		Eye:     rig.Translation(mgl64.Vec3{0, 0.25, 4}),
		MinFovY: 60,
		Near:    0.1,
		Far:     50,
	}
}

// FovY returns the vertical field of view in degrees for a width×height frame
func (c Camera) FovY(width, height int) float64 {
	if width >= height {
		return c.MinFovY
	}
	halfRad := 0.5 * math.Pi / 180
	return math.Atan2(math.Sin(c.MinFovY*halfRad)*float64(height)/float64(width), math.Cos(c.MinFovY*halfRad)) / halfRad
}

// View maps world space to eye space
func (c Camera) View() mgl64.Mat4 {
	return c.Eye.Inverse().Mat4()
}

func (c Camera) Projection(width, height int) mgl64.Mat4 {
	aspect := float64(width) / float64(height)
	return mgl64.Perspective(mgl64.DegToRad(c.FovY(width, height)), aspect, c.Near, c.Far)
}

// Position returns the eye position in world space
func (c Camera) Position() mgl64.Vec3 {
	return c.Eye.Translation
}
