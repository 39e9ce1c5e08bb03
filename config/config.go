package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/akmonengine/skinning/keyframe"
	"github.com/akmonengine/skinning/render"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of the example programs.
type Config struct {
	Render    RenderConfig    `mapstructure:"render"`
	Output    OutputConfig    `mapstructure:"output"`
	Animation AnimationConfig `mapstructure:"animation"`
	Workers   int             `mapstructure:"workers"`
	Log       LogConfig       `mapstructure:"log"`
}

// RenderConfig holds the frame settings.
type RenderConfig struct {
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	Supersample int    `mapstructure:"supersample"`
	Shading     string `mapstructure:"shading"`
	Format      string `mapstructure:"format"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type AnimationConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Clip     string        `mapstructure:"clip"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from defaults, an optional file and env. Env var overrides
// use prefix SKINNING_, so render.width is SKINNING_RENDER_WIDTH. An empty path falls
// back to SKINNING_CONFIG, then to skinning.{toml,yaml,json} in the working directory.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("render.width", 640)
	v.SetDefault("render.height", 480)
	v.SetDefault("render.supersample", 2)
	v.SetDefault("render.shading", render.Diffuse.String())
	v.SetDefault("render.format", "png")
	v.SetDefault("output.dir", "frames")
	v.SetDefault("animation.interval", keyframe.Interval)
	v.SetDefault("animation.clip", "bend")
	v.SetDefault("workers", 4)
	v.SetDefault("log.level", "info")

	if path == "" {
		path = os.Getenv("SKINNING_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("skinning")
	}

	v.SetEnvPrefix("SKINNING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// an explicit file must exist, the default one is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}

// Validate rejects settings the programs cannot run with
func (c Config) Validate() error {
	switch {
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return errors.Wrapf(ErrInvalid, "render size %dx%d", c.Render.Width, c.Render.Height)
	case c.Render.Supersample < 1:
		return errors.Wrapf(ErrInvalid, "render.supersample %d", c.Render.Supersample)
	case c.Workers < 1:
		return errors.Wrapf(ErrInvalid, "workers %d", c.Workers)
	case c.Animation.Interval <= 0:
		return errors.Wrapf(ErrInvalid, "animation.interval %s", c.Animation.Interval)
	}

	if _, ok := render.ParseShading(c.Render.Shading); !ok {
		return errors.Wrapf(ErrInvalid, "render.shading %q", c.Render.Shading)
	}
	if !render.IsFormat(c.Render.Format) {
		return errors.Wrapf(ErrInvalid, "render.format %q", c.Render.Format)
	}
	if _, ok := keyframe.ByName(c.Animation.Clip); !ok {
		return errors.Wrapf(ErrInvalid, "animation.clip %q", c.Animation.Clip)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel parses the level name (debug, info, warn, error)
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, errors.Wrapf(ErrInvalid, "log.level %q", c.Level)
	}
	return level, nil
}

// Renderer builds a renderer from the frame settings. Unknown shading names fall back
// to diffuse.
func (c RenderConfig) Renderer() *render.Renderer {
	r := render.NewRenderer(c.Width, c.Height)
	r.Supersample = c.Supersample
	if shading, ok := render.ParseShading(c.Shading); ok {
		r.Shading = shading
	}
	return r
}
