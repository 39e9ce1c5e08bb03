package rig

import "github.com/pkg/errors"

var (
	// ErrBoneNotFound is returned when looking up an identifier the skeleton does not hold
	ErrBoneNotFound = errors.New("bone not found")

	// ErrBoneExists is returned when adding a bone under an identifier already in use
	ErrBoneExists = errors.New("bone already exists")

	// ErrForeignParent is returned when the parent bone does not belong to the skeleton.
	// Parents must be inserted before their children, which also rules out cycles.
	ErrForeignParent = errors.New("parent bone not in skeleton")

	// ErrPosed is returned when adding a bone while the skeleton is out of its rest pose:
	// the new bone's bind offset would be taken from a deformed chain.
	ErrPosed = errors.New("skeleton is not in rest pose")
)
