// Package config holds the runtime settings of the precipitation demo.
// Fields are tagged for the go-tooling cli package: each one is a
// command-line flag and a PRECIP_* environment variable.
package config

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"

	"precip-engine/grid"
	"precip-engine/scene"
	"precip-engine/weather"
)

const ErrTypeInvalidConfig = "invalid_config"

type Config struct {
	Width        int          `cli:""        env:"PRECIP_WIDTH"        help:"Window width in pixels."`
	Height       int          `cli:""        env:"PRECIP_HEIGHT"       help:"Window height in pixels."`
	Fullscreen   bool         `cli:""        env:"PRECIP_FULLSCREEN"   help:"Open the window fullscreen on the primary monitor."`
	VSync        bool         `cli:",hidden" env:"PRECIP_VSYNC"        help:"Synchronize buffer swaps with the display refresh."`
	FOV          float64      `cli:",hidden" env:"PRECIP_FOV"          help:"Vertical field of view in degrees."`
	GridSize     float64      `cli:""        env:"PRECIP_GRID_SIZE"    help:"Side length of a grid cell in meters."`
	Subdivisions int          `cli:""        env:"PRECIP_SUBDIVISIONS" help:"Precipitation mesh subdivisions (2-255)."`
	MeshFile     string       `cli:""        env:"PRECIP_MESH_FILE"    help:"Load the precipitation mesh from a baked .glb instead of building it."`
	BakeMesh     string       `cli:""        env:"-"                   help:"Write the precipitation mesh to this .glb file and exit."`
	Camera       CameraConfig `cli:",hidden" env:"-"                   help:"Free camera configuration."`
	Gizmos       bool         `cli:""        env:"PRECIP_GIZMOS"       help:"Draw the grid cells around the camera."`
	MetricsAddr  string       `cli:""        env:"PRECIP_METRICS_ADDR" help:"Serve Prometheus metrics on this address. Disabled when empty."`
	LogLevel     string       `cli:""        env:"PRECIP_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	LogIndent    bool         `cli:""        env:"PRECIP_LOG_INDENT"   help:"Indent logs."`
	Version      bool         `cli:""        env:"-"                   help:"Show version."`
	Help         bool         `cli:""        env:"-"                   help:"Show help."`
}

type CameraConfig struct {
	MoveSpeed   float64 `cli:",hidden" env:"PRECIP_CAMERA_MOVE_SPEED"    help:"Camera speed in m/s."`
	MoveSpeedUp float64 `cli:",hidden" env:"PRECIP_CAMERA_MOVE_SPEED_UP" help:"Camera speed in m/s while left shift is held."`
	TurnSpeed   float64 `cli:",hidden" env:"PRECIP_CAMERA_TURN_SPEED"    help:"Camera turn speed in degrees/s."`
}

// Default returns the settings used when nothing is overridden.
func Default() Config {
	cam := scene.DefaultFreeCameraConfig()
	return Config{
		Width:        1280,
		Height:       720,
		VSync:        true,
		FOV:          60,
		GridSize:     grid.DefaultSize,
		Subdivisions: weather.DefaultSubdivisions,
		Camera: CameraConfig{
			MoveSpeed:   float64(cam.MoveSpeed),
			MoveSpeedUp: float64(cam.MoveSpeedUp),
			TurnSpeed:   float64(cam.TurnSpeed),
		},
		LogLevel: logs.InfoLevel.String(),
	}
}

// Validate rejects settings the demo cannot run with. Subdivisions outside
// the supported range are clamped with a warning rather than rejected.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New("window size must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("width", c.Width).
			WithTag("height", c.Height)
	}

	if c.GridSize <= 0 {
		return errors.New("grid size must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("grid_size", c.GridSize)
	}

	if c.FOV <= 0 || c.FOV >= 180 {
		return errors.New("field of view must be in (0, 180)").
			WithType(ErrTypeInvalidConfig).
			WithTag("fov", c.FOV)
	}

	if c.Camera.MoveSpeed < 0 || c.Camera.MoveSpeedUp < 0 || c.Camera.TurnSpeed < 0 {
		return errors.New("camera speeds must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("move_speed", c.Camera.MoveSpeed).
			WithTag("move_speed_up", c.Camera.MoveSpeedUp).
			WithTag("turn_speed", c.Camera.TurnSpeed)
	}

	if s := weather.ClampSubdivisions(c.Subdivisions); s != c.Subdivisions {
		logs.Warn(errors.New("precipitation mesh subdivisions clamped").
			WithTag("requested", c.Subdivisions).
			WithTag("used", s))
		c.Subdivisions = s
	}

	return nil
}

// FreeCamera returns the camera controller settings.
func (c Config) FreeCamera() scene.FreeCameraConfig {
	return scene.FreeCameraConfig{
		MoveSpeed:   float32(c.Camera.MoveSpeed),
		MoveSpeedUp: float32(c.Camera.MoveSpeedUp),
		TurnSpeed:   float32(c.Camera.TurnSpeed),
	}
}
