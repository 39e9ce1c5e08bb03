package keyframe

import (
	"context"
	"time"

	"github.com/akmonengine/skinning/rig"
)

// Player steps a clip on a skeleton
type Player struct {
	clip     Clip
	skeleton *rig.Skeleton
	start    Pose
	step     int
	playing  bool
	finished bool
}

// Play validates the clip, records the skeleton's current pose as the starting point
// and rewinds to the first step. A clip already playing is replaced.
func (p *Player) Play(clip Clip, s *rig.Skeleton) error {
	if err := clip.Validate(); err != nil {
		return err
	}
	start, err := Capture(s, clip.Bones())
	if err != nil {
		return err
	}

	p.clip = clip
	p.skeleton = s
	p.start = start
	p.step = 0
	p.playing = true
	p.finished = false

	return nil
}

// Step poses the skeleton for the current step and advances.
// reached is the index of the key the pose landed on exactly, -1 in between.
// done is true on the last step, after which the player stops.
func (p *Player) Step() (reached int, done bool) {
	if !p.playing {
		return -1, true
	}

	n := p.clip.steps()
	segment := p.step / n
	reached = -1

	if segment >= len(p.clip.Keys) {
		last := len(p.clip.Keys) - 1
		p.apply(p.clip.Keys[last], p.clip.Keys[last], 1)
		p.playing = false
		p.finished = true
		return last, true
	}

	from := p.start
	if segment > 0 {
		from = p.clip.Keys[segment-1]
		if p.step%n == 0 {
			reached = segment - 1
		}
	}
	amount := float64(p.step%n) / float64(n)
	p.apply(from, p.clip.Keys[segment], amount)
	p.step++

	return reached, false
}

func (p *Player) apply(from, to Pose, amount float64) {
	for id, q := range to {
		// bones were checked by Play
		p.skeleton.MustBone(id).SetRotate(rig.Slerp(from[id], q, amount))
	}
}

// Stop halts playback, leaving the skeleton in its current pose
func (p *Player) Stop() {
	p.playing = false
}

func (p *Player) Playing() bool {
	return p.playing
}

// Clip returns the clip being played, or last played
func (p *Player) Clip() Clip {
	return p.clip
}

// Progress returns the fraction of the clip already played, in [0,1]
func (p *Player) Progress() float64 {
	if len(p.clip.Keys) == 0 {
		return 0
	}
	done := p.step
	if p.finished {
		done++
	}
	return float64(done) / float64(p.clip.Steps())
}

// Run steps the player every interval until the clip ends or ctx is done.
// onStep is called after each step from the calling goroutine.
func (p *Player) Run(ctx context.Context, interval time.Duration, onStep func(reached int, done bool)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reached, done := p.Step()
			if onStep != nil {
				onStep(reached, done)
			}
			if done {
				return nil
			}
		}
	}
}
