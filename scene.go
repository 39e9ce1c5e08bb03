// Package skinning assembles the demo scene: a three-bone chain driving a cylinder
// surface, a keyframe player, and the events raised while posing it.
package skinning

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/skinning/keyframe"
	"github.com/akmonengine/skinning/rig"
	"github.com/akmonengine/skinning/skin"
)

const DEFAULT_WORKERS = 1

const (
	// BoneLength is the distance between two joints of the demo chain
	BoneLength = 2.0 / 3
	BoneCount  = 3
)

type Scene struct {
	Skeleton *rig.Skeleton
	Surface  *skin.Mesh
	// Object places the skinned surface in the world
	Object  rig.RigidTransform
	Workers int

	Events Events
	Logger *slog.Logger

	player   keyframe.Player
	selected int
}

type Option func(*Scene)

// WithWorkers sets the number of goroutines used to skin the surface
func WithWorkers(workers int) Option {
	return func(s *Scene) {
		s.Workers = workers
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scene) {
		s.Logger = logger
	}
}

// WithSurface replaces the default cylinder
func WithSurface(mesh *skin.Mesh) Option {
	return func(s *Scene) {
		s.Surface = mesh
	}
}

// NewScene builds the demo chain, binds a 20×20 cylinder to it and places it one unit
// below the origin.
func NewScene(opts ...Option) (*Scene, error) {
	skeleton, err := DemoSkeleton()
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Skeleton: skeleton,
		Surface:  skin.Cylinder(20, 20),
		Object:   rig.Translation(mgl64.Vec3{0, -1, 0}),
		Workers:  DEFAULT_WORKERS,
		Events:   NewEvents(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// DemoSkeleton builds a chain of BoneCount bones, each BoneLength above its parent
func DemoSkeleton() (*rig.Skeleton, error) {
	skeleton := rig.NewSkeleton()

	var parent *rig.Bone
	for id := 0; id < BoneCount; id++ {
		transform := rig.Translation(mgl64.Vec3{0, BoneLength, 0})
		if parent == nil {
			transform = rig.NewRigidTransform()
		}

		bone, err := skeleton.AddBone(id, parent, transform)
		if err != nil {
			return nil, errors.Wrap(err, "demo skeleton")
		}
		parent = bone
	}

	return skeleton, nil
}

// Palette returns the bone matrices placed in the world by the object transform
func (s *Scene) Palette() (rig.Palette, error) {
	palette, err := s.Skeleton.Palette()
	if err != nil {
		return rig.Palette{}, err
	}
	return palette.Transform(s.Object.Mat4()), nil
}

// Skin returns the surface deformed by the current pose, in world space
func (s *Scene) Skin() ([]skin.Vertex, error) {
	palette, err := s.Palette()
	if err != nil {
		return nil, err
	}

	vertices := s.Surface.Vertices
	out := make([]skin.Vertex, len(vertices))
	task(max(DEFAULT_WORKERS, s.Workers), len(vertices), func(i int) {
		out[i] = skin.DeformVertex(vertices[i], palette)
	})

	return out, nil
}

// Bounds returns the box enclosing the deformed surface, in world space
func (s *Scene) Bounds() (skin.AABB, error) {
	vertices, err := s.Skin()
	if err != nil {
		return skin.AABB{}, err
	}
	return skin.Bounds(vertices), nil
}

// Play starts a clip from the current pose, replacing any clip in progress
func (s *Scene) Play(clip keyframe.Clip) error {
	if err := s.player.Play(clip, s.Skeleton); err != nil {
		return errors.Wrapf(err, "play %q", clip.Name)
	}

	s.Logger.Debug("animation started", "clip", clip.Name, "steps", clip.Steps())
	s.Events.emit(AnimationStartEvent{Clip: clip})
	s.Events.flush()

	return nil
}

func (s *Scene) Playing() bool {
	return s.player.Playing()
}

// Progress returns how much of the current clip has been played
func (s *Scene) Progress() float64 {
	return s.player.Progress()
}

// Step advances the current clip by one step. It returns false when nothing is playing.
func (s *Scene) Step() bool {
	if !s.player.Playing() {
		return false
	}

	clip := s.player.Clip()
	reached, done := s.player.Step()
	s.stepped(clip, reached, done)

	return true
}

// Run steps the current clip every interval until it ends or ctx is done, calling
// onStep after each step. An error from onStep stops the clip and is returned.
func (s *Scene) Run(ctx context.Context, interval time.Duration, onStep func() error) error {
	if !s.player.Playing() {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clip := s.player.Clip()
	var stepErr error
	err := s.player.Run(ctx, interval, func(reached int, done bool) {
		s.stepped(clip, reached, done)
		if stepErr != nil || onStep == nil {
			return
		}
		if stepErr = onStep(); stepErr != nil {
			cancel()
		}
	})

	if stepErr != nil {
		s.player.Stop()
		return stepErr
	}
	if err != nil {
		s.player.Stop()
		return errors.Wrapf(err, "run %q", clip.Name)
	}
	return nil
}

func (s *Scene) stepped(clip keyframe.Clip, reached int, done bool) {
	if reached >= 0 {
		s.Events.emit(KeyReachedEvent{Clip: clip, Key: reached})
	}
	if done {
		s.Logger.Debug("animation finished", "clip", clip.Name)
		s.Events.emit(AnimationFinishEvent{Clip: clip})
	}
	s.Events.flush()
}

// Stop halts the current clip in its current pose
func (s *Scene) Stop() {
	s.player.Stop()
}

// Select chooses the bone driven by RotateSelected
func (s *Scene) Select(id int) error {
	if _, err := s.Skeleton.Bone(id); err != nil {
		return err
	}
	s.selected = id

	return nil
}

func (s *Scene) Selected() int {
	return s.selected
}

// RotateSelected turns the selected bone around Z by a drag of (dx, dy) degrees
func (s *Scene) RotateSelected(dx, dy float64) {
	bone := s.Skeleton.MustBone(s.selected)
	bone.Rotate(rig.RotateZ(-dy).Mul(rig.RotateZ(-dx)))

	s.Events.emit(BoneRotatedEvent{Bone: s.selected})
	s.Events.flush()
}

// MoveObject translates the whole surface in world space
func (s *Scene) MoveObject(delta mgl64.Vec3) {
	s.Object.Translation = s.Object.Translation.Add(delta)
}

// Reset stops any clip and puts the skeleton back in rest pose
func (s *Scene) Reset() {
	s.player.Stop()
	s.Skeleton.ResetPose()
	s.Logger.Debug("pose reset")
}
