// Package config loads graphplane settings from TOML.
//
// Every setting has a default, so a config file only lists what it changes:
//
//	[snap]
//	line = 0.2
//
//	[boundary]
//	threshold = 2.5
//
//	[server]
//	addr = ":9090"
//	read_timeout = "5s"
//
// The file is looked up at $XDG_CONFIG_HOME/graphplane/config.toml, falling
// back to ~/.config/graphplane/config.toml.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphplane/pkg/boundary"
	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/plane"
	"github.com/matzehuels/graphplane/pkg/project"
	"github.com/matzehuels/graphplane/pkg/snap"
)

const (
	appName  = "graphplane"
	fileName = "config.toml"
)

// Config holds all tunable settings.
type Config struct {
	Snap       snap.Thresholds  `toml:"snap"`
	Projection project.Options  `toml:"projection"`
	Boundary   boundary.Options `toml:"boundary"`
	Viewport   plane.Viewport   `toml:"viewport"`
	Axes       plane.Axes       `toml:"axes"`
	Server     Server           `toml:"server"`
}

// Server configures the HTTP facade.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	// MaxBodyBytes caps the size of a request scene.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Snap:       snap.DefaultThresholds(),
		Projection: project.DefaultOptions(),
		Boundary:   boundary.DefaultOptions(),
		Viewport:   plane.DefaultViewport(),
		Axes:       plane.DefaultAxes(),
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Validate reports an INVALID_CONFIG error for unusable settings.
func (c Config) Validate() error {
	th := c.Snap
	if err := errors.ValidateFinite("snap thresholds", th.Line, th.Curve, th.Function); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "snap")
	}
	if th.Line < 0 || th.Curve < 0 || th.Function < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "snap thresholds must not be negative")
	}
	if !(c.Boundary.Threshold > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "boundary threshold must be positive, got %v", c.Boundary.Threshold)
	}
	if !(c.Viewport.Width > 0) || !(c.Viewport.Height > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport must be positive, got %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	if err := c.Axes.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "axes")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_body_bytes must be positive")
	}
	return nil
}

// Load reads the file at path over the defaults. Unknown keys are rejected
// so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Projection = cfg.Projection.Normalize()
	cfg.Boundary = cfg.Boundary.Normalize()
	return cfg, nil
}

// LoadOrDefault loads path, or the default location when path is empty.
// A missing file at the default location yields the defaults; a missing
// file that was asked for explicitly is an error.
func LoadOrDefault(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Path returns the default config file location using the XDG standard
// (~/.config/graphplane/config.toml).
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}
