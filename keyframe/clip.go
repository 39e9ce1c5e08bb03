// Package keyframe plays rotation keyframes on a skeleton.
//
// A Clip starts from whatever pose the skeleton is in when playback begins, slerps to
// its first key, then from key to key, and finally snaps to the last key exactly. Each
// segment takes StepsPerKey steps; the caller decides how often to step (the demos use
// Interval).
package keyframe

import (
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/skinning/rig"
)

const (
	// Interval is the delay between two steps in the demo programs
	Interval = 20 * time.Millisecond

	// DefaultStepsPerKey is the number of steps spent on each segment
	DefaultStepsPerKey = 50
)

var (
	ErrEmptyClip    = errors.New("clip has no keys")
	ErrMismatchKeys = errors.New("clip keys do not drive the same bones")
)

// Pose maps a bone identifier to its local rotation
type Pose map[int]mgl64.Quat

// Capture reads the current rotation of the given bones
func Capture(s *rig.Skeleton, ids []int) (Pose, error) {
	pose := make(Pose, len(ids))
	for _, id := range ids {
		b, err := s.Bone(id)
		if err != nil {
			return nil, err
		}
		pose[id] = b.Rotation()
	}
	return pose, nil
}

// Apply sets every rotation of the pose on the skeleton
func (p Pose) Apply(s *rig.Skeleton) error {
	for id, q := range p {
		b, err := s.Bone(id)
		if err != nil {
			return err
		}
		b.SetRotate(q)
	}
	return nil
}

// Clip is a sequence of poses over the same bones
type Clip struct {
	Name        string
	Keys        []Pose
	StepsPerKey int
}

// Bones returns the identifiers driven by the clip, in ascending order
func (c Clip) Bones() []int {
	if len(c.Keys) == 0 {
		return nil
	}
	ids := make([]int, 0, len(c.Keys[0]))
	for id := range c.Keys[0] {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Steps returns the number of Step calls a full playback takes
func (c Clip) Steps() int {
	return len(c.Keys)*c.steps() + 1
}

func (c Clip) steps() int {
	if c.StepsPerKey <= 0 {
		return DefaultStepsPerKey
	}
	return c.StepsPerKey
}

// Validate checks that the clip has keys and that every key drives the same bones
func (c Clip) Validate() error {
	if len(c.Keys) == 0 {
		return errors.Wrapf(ErrEmptyClip, "clip %q", c.Name)
	}
	for i, key := range c.Keys[1:] {
		if len(key) != len(c.Keys[0]) {
			return errors.Wrapf(ErrMismatchKeys, "clip %q key %d", c.Name, i+1)
		}
		for id := range c.Keys[0] {
			if _, ok := key[id]; !ok {
				return errors.Wrapf(ErrMismatchKeys, "clip %q key %d misses bone %d", c.Name, i+1, id)
			}
		}
	}
	return nil
}

// Bend swings the demo chain sideways and back, around Z only
func Bend() Clip {
	return Clip{
		Name: "bend",
		Keys: []Pose{
			{0: rig.RotateZ(60), 1: rig.RotateZ(30), 2: rig.RotateZ(20)},
			{0: mgl64.QuatIdent(), 1: rig.RotateZ(-10), 2: rig.RotateZ(10)},
		},
		StepsPerKey: DefaultStepsPerKey,
	}
}

// Twist bends the demo chain and twists its upper bones out of plane
func Twist() Clip {
	return Clip{
		Name: "twist",
		Keys: []Pose{
			{0: rig.RotateZ(60), 1: rig.RotateX(30).Mul(rig.RotateY(-20)), 2: rig.RotateY(20)},
			{0: mgl64.QuatIdent(), 1: rig.RotateY(-50), 2: rig.RotateX(10).Mul(rig.RotateZ(90))},
		},
		StepsPerKey: DefaultStepsPerKey,
	}
}

// ByName returns one of the built-in clips
func ByName(name string) (Clip, bool) {
	switch name {
	case "bend":
		return Bend(), true
	case "twist":
		return Twist(), true
	default:
		return Clip{}, false
	}
}

// Names lists the built-in clips
func Names() []string {
	return []string{"bend", "twist"}
}
