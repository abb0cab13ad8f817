package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"

	"avatar-engine/internal/engine"
	"avatar-engine/internal/outfit"
	"avatar-engine/internal/scene"
	"avatar-engine/internal/viewmatrix"
)

// Default outfit colors, applied when the config file leaves them empty.
const (
	DefaultTopColor      = "#3d5a80"
	DefaultBottomColor   = "#2b2d42"
	DefaultFootwearColor = "#1b1b1e"
	DefaultHairColor     = "#4a3728"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir      string `json:"base_dir"`
	AvatarDir    string `json:"avatar_dir"`
	TextureDir   string `json:"texture_dir"`
	ProfilesJSON string `json:"profiles_json"`
	OutputDir    string `json:"output_dir"`

	// Simulation
	Frames     int     `json:"frames"`
	FPS        float64 `json:"fps"`
	Snapshots  int     `json:"snapshots"`
	Seed       uint64  `json:"seed"`
	RenderMode string  `json:"render_mode"`
	Outfit     Outfit  `json:"outfit"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	FrameDelay  int     `json:"frame_delay_ms"` // preview animation delay per snapshot
	Workers     int     `json:"workers"`
	CameraYaw   float64 `json:"camera_yaw"`
	CameraPitch float64 `json:"camera_pitch"`
	Perspective bool    `json:"perspective"`
	FillRatio   float64 `json:"fill_ratio"`
}

// Outfit holds hex outfit colors per garment role.
type Outfit struct {
	Top      string `json:"top"`
	Bottom   string `json:"bottom"`
	Footwear string `json:"footwear"`
	Hair     string `json:"hair"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %s", path)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	AvatarDir string
	OutputDir string
	Mode      string
	Workers   int
	Frames    int
	Seed      uint64
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.AvatarDir != "" {
		c.AvatarDir = flags.AvatarDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Mode != "" {
		c.RenderMode = flags.Mode
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}
	c.AvatarDir = resolvePath(c.BaseDir, c.AvatarDir, "avatars")
	c.TextureDir = resolvePath(c.BaseDir, c.TextureDir, "textures")
	c.ProfilesJSON = resolvePath(c.BaseDir, c.ProfilesJSON, "profiles.json")
	c.OutputDir = resolvePath(c.BaseDir, c.OutputDir, "renders")

	if c.Frames <= 0 {
		c.Frames = 120
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Snapshots <= 0 {
		c.Snapshots = 4
	}
	if c.RenderMode == "" {
		c.RenderMode = outfit.Customizable.String()
	}
	c.Outfit.Top = orDefault(c.Outfit.Top, DefaultTopColor)
	c.Outfit.Bottom = orDefault(c.Outfit.Bottom, DefaultBottomColor)
	c.Outfit.Footwear = orDefault(c.Outfit.Footwear, DefaultFootwearColor)
	c.Outfit.Hair = orDefault(c.Outfit.Hair, DefaultHairColor)

	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FrameDelay <= 0 {
		c.FrameDelay = 250
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = viewmatrix.DefaultFillRatio
	}
}

// Engine converts the outfit and mode settings into an engine configuration
// record for the avatar at modelPath.
func (c *Config) Engine(modelPath string) (engine.Config, error) {
	mode, err := outfit.ParseRenderMode(c.RenderMode)
	if err != nil {
		return engine.Config{}, errors.Wrap(err, "config: render_mode")
	}
	cfg := engine.Config{ModelPath: modelPath, RenderMode: mode}
	for _, f := range []struct {
		hex string
		dst *scene.Color
	}{
		{c.Outfit.Top, &cfg.OutfitColors.Top},
		{c.Outfit.Bottom, &cfg.OutfitColors.Bottom},
		{c.Outfit.Footwear, &cfg.OutfitColors.Footwear},
		{c.Outfit.Hair, &cfg.OutfitColors.Hair},
	} {
		if f.hex == "" {
			continue
		}
		col, err := scene.ParseColor(f.hex)
		if err != nil {
			return engine.Config{}, errors.Wrap(err, "config: outfit")
		}
		*f.dst = col
	}
	return cfg, nil
}

// Camera returns the preview camera settings.
func (c *Config) Camera() viewmatrix.Camera {
	return viewmatrix.Camera{
		Yaw:         c.CameraYaw,
		Pitch:       c.CameraPitch,
		Perspective: c.Perspective,
		FOV:         viewmatrix.DefaultFOV,
		FillRatio:   c.FillRatio,
	}
}

// Step returns the per-frame delta in seconds.
func (c *Config) Step() float64 {
	if c.FPS <= 0 {
		return 1.0 / 30
	}
	return 1 / c.FPS
}

func resolvePath(base, p, fallback string) string {
	if p == "" {
		p = fallback
	}
	if filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
