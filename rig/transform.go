package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RigidTransform represents a rotation followed by a translation, no scale or shear
type RigidTransform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// NewRigidTransform creates an identity transform
func NewRigidTransform() RigidTransform {
	return RigidTransform{
		Translation: mgl64.Vec3{0, 0, 0},
		Rotation:    mgl64.QuatIdent(),
	}
}

// Translation creates a pure translation
func Translation(v mgl64.Vec3) RigidTransform {
	return RigidTransform{Translation: v, Rotation: mgl64.QuatIdent()}
}

// Rotation creates a pure rotation
func Rotation(q mgl64.Quat) RigidTransform {
	return RigidTransform{Rotation: q}
}

// Compose returns t∘other: other is applied in t's frame.
func (t RigidTransform) Compose(other RigidTransform) RigidTransform {
	return RigidTransform{
		Translation: t.Translation.Add(t.Rotation.Rotate(other.Translation)),
		Rotation:    t.Rotation.Mul(other.Rotation),
	}
}

// Inverse returns the transform undoing t. Rotation is assumed unit length.
func (t RigidTransform) Inverse() RigidTransform {
	inv := t.Rotation.Conjugate()
	return RigidTransform{
		Translation: inv.Rotate(t.Translation).Mul(-1),
		Rotation:    inv,
	}
}

// Apply transforms a point
func (t RigidTransform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Translation.Add(t.Rotation.Rotate(p))
}

// Mat4 returns T·R as a column-major matrix
func (t RigidTransform) Mat4() mgl64.Mat4 {
	m := t.Rotation.Mat4()
	m[12], m[13], m[14] = t.Translation.X(), t.Translation.Y(), t.Translation.Z()
	return m
}

// Slerp interpolates two rotations along the shortest arc.
// amount 0 returns a and amount 1 returns b, unchanged.
func Slerp(a, b mgl64.Quat, amount float64) mgl64.Quat {
	if amount <= 0 {
		return a
	}
	if amount >= 1 {
		return b
	}

	// q and -q are the same rotation; flip to stay on the short arc
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, amount)
}

// Lerp interpolates two rigid transforms: slerp on rotation, linear on translation.
func Lerp(a, b RigidTransform, amount float64) RigidTransform {
	return RigidTransform{
		Translation: a.Translation.Add(b.Translation.Sub(a.Translation).Mul(amount)),
		Rotation:    Slerp(a.Rotation, b.Rotation, amount),
	}
}

// RotateX returns a rotation of deg degrees around the X axis
func RotateX(deg float64) mgl64.Quat {
	return axisRotation(deg, mgl64.Vec3{1, 0, 0})
}

// RotateY returns a rotation of deg degrees around the Y axis
func RotateY(deg float64) mgl64.Quat {
	return axisRotation(deg, mgl64.Vec3{0, 1, 0})
}

// RotateZ returns a rotation of deg degrees around the Z axis
func RotateZ(deg float64) mgl64.Quat {
	return axisRotation(deg, mgl64.Vec3{0, 0, 1})
}

func axisRotation(deg float64, axis mgl64.Vec3) mgl64.Quat {
	half := mgl64.DegToRad(deg) / 2
	return mgl64.Quat{W: math.Cos(half), V: axis.Mul(math.Sin(half))}
}
