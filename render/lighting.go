package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Shading uint8

const (
	// Diffuse lights faces with ambient plus Lambert terms only
	Diffuse Shading = iota
	// Specular adds a Blinn-Phong highlight
	Specular
)

func (s Shading) String() string {
	switch s {
	case Diffuse:
		return "diffuse"
	case Specular:
		return "specular"
	default:
		return "unknown"
	}
}

// ParseShading maps a shading name back to its value
func ParseShading(name string) (Shading, bool) {
	switch name {
	case "diffuse":
		return Diffuse, true
	case "specular":
		return Specular, true
	default:
		return 0, false
	}
}

// PointLight is a white light with no attenuation
type PointLight struct {
	Position  mgl64.Vec3
	Intensity float64
}

// DefaultLights returns the key light in front of the scene and the fill light behind it
func DefaultLights() []PointLight {
	return []PointLight{
		{Position: mgl64.Vec3{2, 3, 14}, Intensity: 0.8},
		{Position: mgl64.Vec3{-2, -3, -5}, Intensity: 0.4},
	}
}

const (
	ambient   = 0.2
	shininess = 50
	specular  = 0.6
)

// shade returns the lit color of a surface point. Faces are double-sided: the normal
// is flipped towards the eye before lighting.
func shade(albedo, position, normal, eye mgl64.Vec3, lights []PointLight, mode Shading) mgl64.Vec3 {
	toEye := eye.Sub(position)
	if toEye.Len() > 0 {
		toEye = toEye.Normalize()
	}
	if normal.Dot(toEye) < 0 {
		normal = normal.Mul(-1)
	}

	diffuse := ambient
	highlight := 0.0
	for _, light := range lights {
		toLight := light.Position.Sub(position)
		if toLight.Len() == 0 {
			continue
		}
		toLight = toLight.Normalize()

		lambert := normal.Dot(toLight)
		if lambert <= 0 {
			continue
		}
		diffuse += light.Intensity * lambert

		if mode == Specular {
			half := toLight.Add(toEye)
			if half.Len() > 0 {
				highlight += light.Intensity * specular * math.Pow(math.Max(0, normal.Dot(half.Normalize())), shininess)
			}
		}
	}

	return mgl64.Vec3{
		clamp01(albedo.X()*diffuse + highlight),
		clamp01(albedo.Y()*diffuse + highlight),
		clamp01(albedo.Z()*diffuse + highlight),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
