package rig

import "github.com/go-gl/mathgl/mgl64"

const noParent = -1

// Bone is one joint of a skeleton. Its transform is relative to its parent, or to the
// model frame for a root.
type Bone struct {
	id     int
	local  RigidTransform
	rest   RigidTransform
	offset mgl64.Mat4

	// arena slot of the parent in skeleton.bones, noParent for a root
	parent   int
	skeleton *Skeleton
}

// newBone links the bone to its parent and freezes the bind offset from the current chain.
// The parent chain must be in rest pose at this point.
func newBone(s *Skeleton, id, parent int, transform RigidTransform) *Bone {
	b := &Bone{
		id:       id,
		local:    transform,
		rest:     transform,
		parent:   parent,
		skeleton: s,
	}
	b.offset = b.ModelMatrix().Inv()

	return b
}

// ID returns the identifier the bone was registered under
func (b *Bone) ID() int {
	return b.id
}

// Parent returns the parent bone, nil for a root
func (b *Bone) Parent() *Bone {
	if b.parent == noParent {
		return nil
	}
	return b.skeleton.bones[b.parent]
}

// Rotate composes delta onto the current rotation: rotation = rotation·delta.
// delta should be unit length; it is not normalized here.
func (b *Bone) Rotate(delta mgl64.Quat) {
	b.local.Rotation = b.local.Rotation.Mul(delta)
	b.skeleton.posed = true
}

// SetRotate replaces the local rotation. The translation is left untouched.
func (b *Bone) SetRotate(rotation mgl64.Quat) {
	b.local.Rotation = rotation
	b.skeleton.posed = true
}

// Rotation returns the current local rotation
func (b *Bone) Rotation() mgl64.Quat {
	return b.local.Rotation
}

// Translation returns the local translation relative to the parent
func (b *Bone) Translation() mgl64.Vec3 {
	return b.local.Translation
}

// SetTranslation moves the bone relative to its parent
func (b *Bone) SetTranslation(v mgl64.Vec3) {
	b.local.Translation = v
	b.skeleton.posed = true
}

// LocalTransform returns the transform relative to the parent
func (b *Bone) LocalTransform() RigidTransform {
	return b.local
}

// BindOffset returns the inverse of the model matrix at construction time
func (b *Bone) BindOffset() mgl64.Mat4 {
	return b.offset
}

// ModelMatrix composes the parent chain: parent.ModelMatrix()·local.
// It walks up to the root on every call.
func (b *Bone) ModelMatrix() mgl64.Mat4 {
	if parent := b.Parent(); parent != nil {
		return parent.ModelMatrix().Mul4(b.local.Mat4())
	}
	return b.local.Mat4()
}

// BoneMatrix maps a vertex from the bind pose into the bone's current pose.
func (b *Bone) BoneMatrix() mgl64.Mat4 {
	return b.ModelMatrix().Mul4(b.offset)
}

// NormalMatrix returns the inverse transpose of the bone matrix's linear part,
// with a zero translation column.
func (b *Bone) NormalMatrix() mgl64.Mat4 {
	return normalMatrix(b.BoneMatrix())
}

func normalMatrix(m mgl64.Mat4) mgl64.Mat4 {
	n := m.Mat3().Inv().Transpose()
	return n.Mat4()
}
