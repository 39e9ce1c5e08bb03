package skin

import "math"

const (
	CylinderRadius = 0.4
	CylinderHeight = 2.0
)

// MaxVertices is the number of vertices a Mesh can address with uint16 indices
const MaxVertices = 1 << 16

// Cylinder builds an open tube of CylinderRadius and CylinderHeight standing on the origin,
// bound to bones 0, 1 and 2. The weights blend linearly between bones over two bands:
//
//	t < 1/4   bone 0
//	t < 5/12  bone 0 → bone 1
//	t < 7/12  bone 1
//	t < 3/4   bone 1 → bone 2
//	          bone 2
//
// where t in [0,1] is the normalized height. sides is the number of facets around the
// axis, rings the number of bands along it. Both are clamped so that the
// (sides+1)×(rings+1) vertices stay within MaxVertices: sides first, then rings.
func Cylinder(sides, rings int) *Mesh {
	sides = min(max(sides, 3), MaxVertices/2-1)
	rings = min(max(rings, 1), MaxVertices/(sides+1)-1)

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, (sides+1)*(rings+1)),
		Indices:  make([]uint16, 0, sides*rings*6),
	}

	for i := 0; i <= sides; i++ {
		s := 2 * math.Pi * float64(i) / float64(sides)
		cos, sin := math.Cos(s), math.Sin(s)
		for j := 0; j <= rings; j++ {
			t := float64(j) / float64(rings)
			v := Vertex{
				Bones:   [Influences]int{0, 1, 2},
				Weights: CylinderWeights(t),
			}
			v.Position[0], v.Position[1], v.Position[2] = CylinderRadius*cos, CylinderHeight*t, CylinderRadius*sin
			v.Normal[0], v.Normal[2] = cos, sin
			mesh.Vertices = append(mesh.Vertices, v)
		}
	}

	stride := rings + 1
	for i := 0; i < sides; i++ {
		for j := 0; j < rings; j++ {
			a := uint16(i*stride + j)
			b := uint16((i+1)*stride + j)
			mesh.Indices = append(mesh.Indices, a, a+1, b, b, a+1, b+1)
		}
	}

	return mesh
}

// CylinderWeights returns the bone weights at normalized height t
func CylinderWeights(t float64) [Influences]float64 {
	switch {
	case t < 1.0/4:
		return [Influences]float64{1, 0, 0}
	case t < 5.0/12:
		return [Influences]float64{2.5 - 6*t, -1.5 + 6*t, 0}
	case t < 7.0/12:
		return [Influences]float64{0, 1, 0}
	case t < 3.0/4:
		return [Influences]float64{0, 4.5 - 6*t, -3.5 + 6*t}
	default:
		return [Influences]float64{0, 0, 1}
	}
}
