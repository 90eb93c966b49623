package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/graphplane/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[snap]
line = 0.1

[boundary]
threshold = 2.0
samples = 10

[axes]
x_min = -10.0
x_max = 10.0
y_min = -1.0
y_max = 1.0
grid_step = 0.5

[server]
addr = "127.0.0.1:9000"
read_timeout = "3s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Snap.Line != 0.1 {
		t.Errorf("Snap.Line = %v, want 0.1", cfg.Snap.Line)
	}
	if cfg.Snap.Curve != 0.30 {
		t.Errorf("Snap.Curve = %v, want default 0.30", cfg.Snap.Curve)
	}
	if cfg.Boundary.Threshold != 2.0 || cfg.Boundary.Samples != 10 {
		t.Errorf("Boundary = %+v", cfg.Boundary)
	}
	if cfg.Boundary.RootSamples != 200 {
		t.Errorf("Boundary.RootSamples = %v, want default 200", cfg.Boundary.RootSamples)
	}
	if cfg.Axes.XMin != -10 || cfg.Axes.GridStep != 0.5 {
		t.Errorf("Axes = %+v", cfg.Axes)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 3s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default 10s", cfg.Server.WriteTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[snap\nline = 1", errors.ErrCodeInvalidConfig},
		{"unknown key", "[snap]\nlines = 0.1", errors.ErrCodeInvalidConfig},
		{"negative threshold", "[snap]\nline = -1.0", errors.ErrCodeInvalidConfig},
		{"empty axes", "[axes]\nx_min = 1.0\nx_max = 1.0", errors.ErrCodeInvalidConfig},
		{"zero viewport", "[viewport]\nwidth = 0.0", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadNormalizesCounts(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[projection]\ncurve_samples = 2\ncurve_iterations = 40"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Projection.CurveSamples != 20 || cfg.Projection.CurveIterations != 5 {
		t.Errorf("Projection = %+v", cfg.Projection)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\") error = %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("expected defaults, got %+v", cfg.Server)
	}

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadOrDefault(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	want := filepath.Join(dir, "graphplane", "config.toml")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	got, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "graphplane", "config.toml")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
