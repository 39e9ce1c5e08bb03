package skin

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/skinning/rig"
)

func demoSkeleton(t *testing.T) *rig.Skeleton {
	t.Helper()

	s := rig.NewSkeleton()
	b0, err := s.AddBone(0, nil, rig.NewRigidTransform())
	if err != nil {
		t.Fatal(err)
	}
	b1, err := s.AddBone(1, b0, rig.Translation(mgl64.Vec3{0, 2.0 / 3, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddBone(2, b1, rig.Translation(mgl64.Vec3{0, 2.0 / 3, 0})); err != nil {
		t.Fatal(err)
	}
	return s
}

// =============================================================================
// Cylinder Tests
// =============================================================================

func TestCylinderWeights(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want [Influences]float64
	}{
		{"bottom", 0, [Influences]float64{1, 0, 0}},
		{"lower band start", 0.25, [Influences]float64{1, 0, 0}},
		{"lower band middle", 1.0 / 3, [Influences]float64{0.5, 0.5, 0}},
		{"middle", 0.5, [Influences]float64{0, 1, 0}},
		{"upper band middle", 2.0 / 3, [Influences]float64{0, 0.5, 0.5}},
		{"top", 1, [Influences]float64{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CylinderWeights(tt.t)
			for k := range got {
				if !almostEqual(got[k], tt.want[k], 1e-12) {
					t.Errorf("CylinderWeights(%v) = %v, want %v", tt.t, got, tt.want)
					break
				}
			}
		})
	}
}

func TestCylinderWeights_SumToOne(t *testing.T) {
	for i := 0; i <= 120; i++ {
		x := float64(i) / 120
		w := CylinderWeights(x)
		if sum := w[0] + w[1] + w[2]; !almostEqual(sum, 1, 1e-12) {
			t.Errorf("CylinderWeights(%v) sum = %v, want 1", x, sum)
		}
	}
}

func TestCylinder_Geometry(t *testing.T) {
	mesh := Cylinder(20, 20)

	if len(mesh.Vertices) != 21*21 {
		t.Errorf("len(Vertices) = %d, want %d", len(mesh.Vertices), 21*21)
	}
	if len(mesh.Triangles()) != 20*20*2 {
		t.Errorf("len(Triangles()) = %d, want %d", len(mesh.Triangles()), 20*20*2)
	}

	for i, v := range mesh.Vertices {
		r := math.Hypot(v.Position.X(), v.Position.Z())
		if !almostEqual(r, CylinderRadius, 1e-12) {
			t.Fatalf("vertex %d radius = %v, want %v", i, r, CylinderRadius)
		}
		if v.Position.Y() < 0 || v.Position.Y() > CylinderHeight {
			t.Fatalf("vertex %d height = %v out of [0, %v]", i, v.Position.Y(), CylinderHeight)
		}
		if !almostEqual(v.Normal.Len(), 1, 1e-12) {
			t.Fatalf("vertex %d normal length = %v", i, v.Normal.Len())
		}
	}

	for _, tri := range mesh.Triangles() {
		for _, idx := range tri {
			if idx < 0 || idx >= len(mesh.Vertices) {
				t.Fatalf("triangle index %d out of range", idx)
			}
		}
	}
}

func TestCylinder_ClampsDegenerateCounts(t *testing.T) {
	mesh := Cylinder(0, 0)
	if len(mesh.Triangles()) != 3*1*2 {
		t.Errorf("len(Triangles()) = %d, want 6", len(mesh.Triangles()))
	}
}

func TestCylinder_IndicesFitUint16(t *testing.T) {
	tests := []struct {
		name         string
		sides, rings int
		wantVertices int
	}{
		{"exact limit", 255, 255, 256 * 256},
		{"rings clamped", 300, 300, 301 * 217},
		{"sides clamped", 100000, 5, MaxVertices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := Cylinder(tt.sides, tt.rings)
			if len(mesh.Vertices) != tt.wantVertices {
				t.Fatalf("len(Vertices) = %d, want %d", len(mesh.Vertices), tt.wantVertices)
			}

			maxIndex := 0
			for _, idx := range mesh.Indices {
				maxIndex = max(maxIndex, int(idx))
			}
			if maxIndex != len(mesh.Vertices)-1 {
				t.Errorf("max index = %d, want %d", maxIndex, len(mesh.Vertices)-1)
			}
		})
	}
}

// =============================================================================
// Deform Tests
// =============================================================================

func TestDeform_RestPoseIsIdentity(t *testing.T) {
	s := demoSkeleton(t)
	mesh := Cylinder(8, 6)
	palette, err := s.Palette()
	if err != nil {
		t.Fatal(err)
	}

	out := Deform(mesh, palette)
	for i := range out {
		if !vec3AlmostEqual(out[i].Position, mesh.Vertices[i].Position, 1e-12) {
			t.Fatalf("vertex %d position = %v, want %v", i, out[i].Position, mesh.Vertices[i].Position)
		}
		if !vec3AlmostEqual(out[i].Normal, mesh.Vertices[i].Normal, 1e-12) {
			t.Fatalf("vertex %d normal = %v, want %v", i, out[i].Normal, mesh.Vertices[i].Normal)
		}
	}
}

func TestDeformVertex_Blend(t *testing.T) {
	s := demoSkeleton(t)
	s.MustBone(1).SetRotate(rig.RotateZ(90))
	palette, _ := s.Palette()

	pivot := mgl64.Vec3{0, 2.0 / 3, 0}
	tests := []struct {
		name    string
		vertex  Vertex
		wantPos mgl64.Vec3
	}{
		{
			name:    "fully bound to bone0 stays",
			vertex:  Vertex{Position: mgl64.Vec3{0.4, 0.1, 0}, Normal: mgl64.Vec3{1, 0, 0}, Bones: [3]int{0, 1, 2}, Weights: [3]float64{1, 0, 0}},
			wantPos: mgl64.Vec3{0.4, 0.1, 0},
		},
		{
			name:    "fully bound to bone2 swings",
			vertex:  Vertex{Position: mgl64.Vec3{0, 2, 0}, Normal: mgl64.Vec3{1, 0, 0}, Bones: [3]int{0, 1, 2}, Weights: [3]float64{0, 0, 1}},
			wantPos: mgl64.Vec3{-4.0 / 3, 2.0 / 3, 0},
		},
		{
			name:   "half and half",
			vertex: Vertex{Position: mgl64.Vec3{0, 5.0 / 3, 0}, Normal: mgl64.Vec3{1, 0, 0}, Bones: [3]int{0, 1, 2}, Weights: [3]float64{0.5, 0.5, 0}},
			// bone1 carries the point 1 above the pivot to 1 left of it
			wantPos: mgl64.Vec3{0, 5.0 / 3, 0}.Add(pivot.Add(mgl64.Vec3{-1, 0, 0})).Mul(0.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeformVertex(tt.vertex, palette)
			if !vec3AlmostEqual(got.Position, tt.wantPos, 1e-12) {
				t.Errorf("DeformVertex().Position = %v, want %v", got.Position, tt.wantPos)
			}
			if !almostEqual(got.Normal.Len(), 1, 1e-12) {
				t.Errorf("DeformVertex().Normal = %v, want unit length", got.Normal)
			}
			if got.Bones != tt.vertex.Bones || got.Weights != tt.vertex.Weights {
				t.Errorf("DeformVertex() changed the bindings")
			}
		})
	}
}

func TestDeformVertex_UnknownBoneSkipped(t *testing.T) {
	s := demoSkeleton(t)
	palette, _ := s.Palette(0)

	v := Vertex{Position: mgl64.Vec3{1, 1, 1}, Normal: mgl64.Vec3{0, 1, 0}, Bones: [3]int{0, 7, 8}, Weights: [3]float64{0.25, 0.5, 0.25}}
	got := DeformVertex(v, palette)

	want := mgl64.Vec3{0.25, 0.25, 0.25}
	if !vec3AlmostEqual(got.Position, want, 1e-12) {
		t.Errorf("DeformVertex().Position = %v, want %v", got.Position, want)
	}
}

// =============================================================================
// AABB Tests
// =============================================================================

func TestBounds(t *testing.T) {
	box := Bounds(Cylinder(16, 4).Vertices)

	if !vec3AlmostEqual(box.Min, mgl64.Vec3{-0.4, 0, -0.4}, 1e-12) {
		t.Errorf("Min = %v, want (-0.4, 0, -0.4)", box.Min)
	}
	if !vec3AlmostEqual(box.Max, mgl64.Vec3{0.4, 2, 0.4}, 1e-12) {
		t.Errorf("Max = %v, want (0.4, 2, 0.4)", box.Max)
	}
	if !vec3AlmostEqual(box.Center(), mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Center() = %v, want (0, 1, 0)", box.Center())
	}
	if !vec3AlmostEqual(box.Size(), mgl64.Vec3{0.8, 2, 0.8}, 1e-12) {
		t.Errorf("Size() = %v, want (0.8, 2, 0.8)", box.Size())
	}
	if !box.ContainsPoint(mgl64.Vec3{0, 1, 0}) {
		t.Error("ContainsPoint(center) = false")
	}
	if box.ContainsPoint(mgl64.Vec3{0, 3, 0}) {
		t.Error("ContainsPoint((0,3,0)) = true")
	}
}

func TestBounds_Empty(t *testing.T) {
	box := Bounds(nil)
	other := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	if box.Overlaps(other) {
		t.Error("empty box overlaps a unit box")
	}
}

func TestAABB_Overlaps(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"inside", AABB{Min: mgl64.Vec3{0.2, 0.2, 0.2}, Max: mgl64.Vec3{0.5, 0.5, 0.5}}, true},
		{"touching", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}, true},
		{"apart on y", AABB{Min: mgl64.Vec3{0, 2, 0}, Max: mgl64.Vec3{1, 3, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Helpers
// =============================================================================

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}
