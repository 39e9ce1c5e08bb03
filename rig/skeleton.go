// Package rig implements a bone hierarchy for skeletal skinning.
//
// A Skeleton owns its bones in an arena; each Bone keeps the arena slot of its parent
// rather than an owning pointer. When a bone is added, its bind offset is frozen as the
// inverse of its model matrix at that moment, so bones must be added root to leaf while
// the skeleton is in rest pose. AddBone enforces both: the parent must already be
// registered, and no bone may have been moved since the last rest pose.
//
// The bone matrix of a bone (ModelMatrix·BindOffset) is what deforms vertices bound
// to it: identity at rest, and the bone's motion relative to rest otherwise.
//
// Skeleton and Bone are not safe for concurrent mutation.
package rig

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Skeleton owns a set of bones keyed by integer identifier
type Skeleton struct {
	bones []*Bone
	index map[int]int

	// set by any bone mutation, cleared by ResetPose
	posed bool
}

// NewSkeleton creates an empty skeleton
func NewSkeleton() *Skeleton {
	return &Skeleton{
		bones: make([]*Bone, 0, 8),
		index: make(map[int]int),
	}
}

// AddBone creates a bone under id with the given parent (nil for a root) and
// transform relative to that parent, and returns it.
func (s *Skeleton) AddBone(id int, parent *Bone, transform RigidTransform) (*Bone, error) {
	if _, ok := s.index[id]; ok {
		return nil, errors.Wrapf(ErrBoneExists, "bone %d", id)
	}
	if s.posed {
		return nil, errors.Wrapf(ErrPosed, "adding bone %d", id)
	}

	parentSlot := noParent
	if parent != nil {
		slot, ok := s.index[parent.id]
		if !ok || parent.skeleton != s || s.bones[slot] != parent {
			return nil, errors.Wrapf(ErrForeignParent, "bone %d parent %d", id, parent.id)
		}
		parentSlot = slot
	}

	bone := newBone(s, id, parentSlot, transform)
	s.index[id] = len(s.bones)
	s.bones = append(s.bones, bone)

	return bone, nil
}

// Bone returns the bone registered under id
func (s *Skeleton) Bone(id int) (*Bone, error) {
	slot, ok := s.index[id]
	if !ok {
		return nil, errors.Wrapf(ErrBoneNotFound, "bone %d", id)
	}
	return s.bones[slot], nil
}

// MustBone is like Bone but panics if id is unknown
func (s *Skeleton) MustBone(id int) *Bone {
	b, err := s.Bone(id)
	if err != nil {
		panic(err)
	}
	return b
}

func (s *Skeleton) Len() int {
	return len(s.bones)
}

// IDs returns the bone identifiers in ascending order
func (s *Skeleton) IDs() []int {
	ids := make([]int, 0, len(s.bones))
	for _, b := range s.bones {
		ids = append(ids, b.id)
	}
	slices.Sort(ids)

	return ids
}

// Roots returns the bones without a parent, in insertion order
func (s *Skeleton) Roots() []*Bone {
	var roots []*Bone
	for _, b := range s.bones {
		if b.parent == noParent {
			roots = append(roots, b)
		}
	}
	return roots
}

// Posed reports whether any bone moved since the skeleton was last in rest pose
func (s *Skeleton) Posed() bool {
	return s.posed
}

// ResetPose puts every bone back to the transform it was created with
func (s *Skeleton) ResetPose() {
	for _, b := range s.bones {
		b.local = b.rest
	}
	s.posed = false
}

// Palette holds the skinning matrices of a set of bones, indexed by bone identifier
type Palette struct {
	Bones   map[int]mgl64.Mat4
	Normals map[int]mgl64.Mat4
}

// Palette computes bone and normal matrices for the given identifiers, or for every bone
// when none are given. Each model matrix is computed once per call.
func (s *Skeleton) Palette(ids ...int) (Palette, error) {
	if len(ids) == 0 {
		ids = s.IDs()
	}

	models := make([]mgl64.Mat4, len(s.bones))
	done := make([]bool, len(s.bones))
	var model func(slot int) mgl64.Mat4
	model = func(slot int) mgl64.Mat4 {
		if done[slot] {
			return models[slot]
		}
		b := s.bones[slot]
		m := b.local.Mat4()
		if b.parent != noParent {
			m = model(b.parent).Mul4(m)
		}
		models[slot], done[slot] = m, true

		return m
	}

	palette := Palette{
		Bones:   make(map[int]mgl64.Mat4, len(ids)),
		Normals: make(map[int]mgl64.Mat4, len(ids)),
	}
	for _, id := range ids {
		slot, ok := s.index[id]
		if !ok {
			return Palette{}, errors.Wrapf(ErrBoneNotFound, "palette bone %d", id)
		}
		m := model(slot).Mul4(s.bones[slot].offset)
		palette.Bones[id] = m
		palette.Normals[id] = normalMatrix(m)
	}

	return palette, nil
}

// Transform returns a copy of the palette with every matrix pre-multiplied by t,
// e.g. to place the skinned model in the world.
func (p Palette) Transform(t mgl64.Mat4) Palette {
	out := Palette{
		Bones:   make(map[int]mgl64.Mat4, len(p.Bones)),
		Normals: make(map[int]mgl64.Mat4, len(p.Normals)),
	}
	for id, m := range p.Bones {
		m = t.Mul4(m)
		out.Bones[id] = m
		out.Normals[id] = normalMatrix(m)
	}
	return out
}
