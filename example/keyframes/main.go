package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/akmonengine/skinning"
	"github.com/akmonengine/skinning/config"
	"github.com/akmonengine/skinning/keyframe"
	"github.com/akmonengine/skinning/render"
)

// SetupScene builds the demo scene and subscribes the logger to its animation events
func SetupScene(c config.Config, logger *slog.Logger) (*skinning.Scene, error) {
	scene, err := skinning.NewScene(skinning.WithWorkers(c.Workers), skinning.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	scene.Events.Subscribe(skinning.KEY_REACHED, func(e skinning.Event) {
		reached := e.(skinning.KeyReachedEvent)
		bounds, err := scene.Bounds()
		if err != nil {
			logger.Warn("surface bounds", "err", err)
			return
		}
		logger.Info("key reached", "clip", reached.Clip.Name, "key", reached.Key,
			"center", bounds.Center(), "size", bounds.Size(), "ground", render.TouchesGround(bounds))
	})
	scene.Events.Subscribe(skinning.ANIMATION_FINISH, func(e skinning.Event) {
		logger.Info("animation finished", "clip", e.(skinning.AnimationFinishEvent).Clip.Name)
	})

	return scene, nil
}

// PlayClip renders one frame per step of the clip into the output directory. When
// realtime is set, steps are spaced by the configured interval.
func PlayClip(ctx context.Context, scene *skinning.Scene, c config.Config, realtime bool, logger *slog.Logger) (int, error) {
	clip, ok := keyframe.ByName(c.Animation.Clip)
	if !ok {
		return 0, errors.Errorf("unknown clip %q", c.Animation.Clip)
	}
	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return 0, errors.Wrap(err, "create output dir")
	}

	renderer := c.Render.Renderer()
	if err := scene.Play(clip); err != nil {
		return 0, err
	}

	frames := 0
	writeFrame := func() error {
		img, err := renderer.Render(scene)
		if err != nil {
			return err
		}

		path := filepath.Join(c.Output.Dir, fmt.Sprintf("%s_%04d.%s", clip.Name, frames, c.Render.Format))
		if err := render.Save(path, img); err != nil {
			return err
		}
		frames++
		logger.Debug("frame written", "path", path, "progress", scene.Progress())
		return nil
	}

	if realtime {
		err := scene.Run(ctx, c.Animation.Interval, writeFrame)
		return frames, err
	}

	for scene.Step() {
		if err := writeFrame(); err != nil {
			return frames, err
		}
		if err := ctx.Err(); err != nil {
			scene.Stop()
			return frames, err
		}
	}

	return frames, nil
}

func main() {
	configPath := flag.String("config", "", "configuration file (toml, yaml or json)")
	clipName := flag.String("clip", "", fmt.Sprintf("clip to play, one of %v", keyframe.Names()))
	outDir := flag.String("out", "", "output directory")
	realtime := flag.Bool("realtime", false, "space frames by animation.interval")
	flag.Parse()

	c, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *clipName != "" {
		c.Animation.Clip = *clipName
	}
	if *outDir != "" {
		c.Output.Dir = *outDir
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, _ := c.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scene, err := SetupScene(c, logger)
	if err != nil {
		logger.Error("setup scene", "err", err)
		os.Exit(1)
	}

	start := time.Now()
	frames, err := PlayClip(ctx, scene, c, *realtime, logger)
	if err != nil {
		logger.Error("play clip", "err", err, "frames", frames)
		os.Exit(1)
	}
	logger.Info("done", "frames", frames, "dir", c.Output.Dir, "elapsed", time.Since(start))
}
