// Package skin holds surfaces bound to a skeleton and deforms them on the CPU with
// linear blend skinning: each vertex is moved by a weighted sum of up to three bone
// matrices taken from a rig.Palette.
package skin

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/skinning/rig"
)

// Influences is the number of bones a single vertex may be bound to
const Influences = 3

// Vertex is a surface point bound to up to three bones.
// Weights are expected to sum to 1.
type Vertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Bones    [Influences]int
	Weights  [Influences]float64
}

// Mesh is an indexed triangle list
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

// Triangles returns the index triples of the mesh
func (m *Mesh) Triangles() [][3]int {
	tris := make([][3]int, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, [3]int{int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])})
	}
	return tris
}

// Deform skins every vertex of the mesh. The result is a new slice; the mesh is untouched.
func Deform(mesh *Mesh, palette rig.Palette) []Vertex {
	out := make([]Vertex, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		out[i] = DeformVertex(v, palette)
	}
	return out
}

// DeformVertex applies p' = Σ wᵢ·Bᵢ·p and n' = normalize(Σ wᵢ·Nᵢ·n).
// Influences with a zero weight or a bone missing from the palette are skipped.
func DeformVertex(v Vertex, palette rig.Palette) Vertex {
	var position, normal mgl64.Vec3
	for k := 0; k < Influences; k++ {
		w := v.Weights[k]
		if w == 0 {
			continue
		}
		bone, ok := palette.Bones[v.Bones[k]]
		if !ok {
			continue
		}
		position = position.Add(mgl64.TransformCoordinate(v.Position, bone).Mul(w))
		normal = normal.Add(mgl64.TransformNormal(v.Normal, palette.Normals[v.Bones[k]]).Mul(w))
	}

	out := v
	out.Position = position
	if normal.Len() > 1e-12 {
		out.Normal = normal.Normalize()
	} else {
		out.Normal = normal
	}

	return out
}
