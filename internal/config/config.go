package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// WindowSettings describes the drawable surface
type WindowSettings struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Title    string `toml:"title"`
	FPSLimit int    `toml:"fps_limit"` // 0 disables the limiter
}

// ProjectionSettings holds the perspective parameters
type ProjectionSettings struct {
	FOV       float32 `toml:"fov"` // degrees
	NearPlane float32 `toml:"near"`
	FarPlane  float32 `toml:"far"`
}

// SkySettings holds the clear/fog colour shared by every pass
type SkySettings struct {
	Colour [3]float32 `toml:"colour"`
}

// AssetSettings locates shader sources and textures on disk
type AssetSettings struct {
	ShadersDir  string `toml:"shaders"`
	TexturesDir string `toml:"textures"`
}

// Settings is the full render configuration
type Settings struct {
	Window     WindowSettings     `toml:"window"`
	Projection ProjectionSettings `toml:"projection"`
	Sky        SkySettings        `toml:"sky"`
	Assets     AssetSettings      `toml:"assets"`
	Debug      bool               `toml:"debug"`
}

// Default returns the stock settings
func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:    1280,
			Height:   720,
			Title:    "scenery",
			FPSLimit: 144,
		},
		Projection: ProjectionSettings{
			FOV:       70,
			NearPlane: 0.1,
			FarPlane:  1000,
		},
		Sky: SkySettings{
			Colour: [3]float32{0.1, 0.4, 0.2},
		},
		Assets: AssetSettings{
			ShadersDir:  "assets/shaders",
			TexturesDir: "assets/textures",
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file keep their default.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Validate reports every unusable value at once
func (s Settings) Validate() error {
	var errs []error
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", s.Window.Width, s.Window.Height))
	}
	if s.Window.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("fps_limit %d must not be negative", s.Window.FPSLimit))
	}
	if s.Projection.FOV <= 0 || s.Projection.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %.2f must be in (0, 180)", s.Projection.FOV))
	}
	if s.Projection.FarPlane <= s.Projection.NearPlane {
		errs = append(errs, fmt.Errorf("far plane %.3f must be beyond near plane %.3f", s.Projection.FarPlane, s.Projection.NearPlane))
	}
	for i, c := range s.Sky.Colour {
		if c < 0 || c > 1 {
			errs = append(errs, fmt.Errorf("sky colour component %d = %.3f outside [0, 1]", i, c))
		}
	}
	return errors.Join(errs...)
}

// Marshal encodes the settings as TOML
func (s Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Current returns the active settings
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Apply replaces the active settings
func Apply(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	current = s
}

// GetFPSLimit returns the frame cap, 0 meaning uncapped
func GetFPSLimit() int {
	mu.RLock()
	defer mu.RUnlock()
	return current.Window.FPSLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	mu.Lock()
	defer mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	current.Window.FPSLimit = limit
}

// SetViewport records a new window size, used after framebuffer resizes
func SetViewport(width, height int) {
	mu.Lock()
	defer mu.Unlock()
	current.Window.Width = width
	current.Window.Height = height
}
