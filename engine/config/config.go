// Package config loads the TOML application description: the window, the materials to link
// and the compute kernels to build.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/compute"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultTitle   = "oxy-gl"
	defaultWidth   = 1280
	defaultHeight  = 720
	defaultGLMajor = 4
	defaultGLMinor = 1
	defaultWorkers = 4
)

// Config is the root of an application config file.
type Config struct {
	// ShaderDir is the directory relative stage paths resolve against. Relative ShaderDir
	// values resolve against the config file's directory.
	ShaderDir string `toml:"shader_dir"`

	// KernelDir is the directory relative kernel paths resolve against, resolved like ShaderDir.
	KernelDir string `toml:"kernel_dir"`

	// Workers bounds the concurrent shader file readers.
	Workers int `toml:"workers"`

	// Profiling enables the periodic frame stats log.
	Profiling bool `toml:"profiling"`

	// TickRate is the fixed logic rate in ticks per second; 0 selects the engine default.
	TickRate float64 `toml:"tick_rate"`

	// FrameLimit caps frames per second; 0 leaves the loop uncapped.
	FrameLimit float64 `toml:"frame_limit"`

	Window    Window     `toml:"window"`
	Materials []Material `toml:"materials"`
	Kernels   []Kernel   `toml:"kernels"`
}

// Window describes the window and the GL context requested with it.
type Window struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	VSync   bool   `toml:"vsync"`
	GLMajor int    `toml:"gl_major"`
	GLMinor int    `toml:"gl_minor"`
}

// Material names the stage files of one material. Vertex and fragment are required.
type Material struct {
	Name           string `toml:"name"`
	Vertex         string `toml:"vertex"`
	Fragment       string `toml:"fragment"`
	Geometry       string `toml:"geometry"`
	TessControl    string `toml:"tess_control"`
	TessEvaluation string `toml:"tess_evaluation"`
}

// Kernel describes one compute resource.
type Kernel struct {
	Name       string   `toml:"name"`
	Path       string   `toml:"path"`
	Entry      string   `toml:"entry"`
	Dimensions int      `toml:"dimensions"`
	GlobalSize []uint32 `toml:"global_size"`

	// Devices lists the device kinds to try in order, "gpu" or "cpu".
	Devices []string `toml:"devices"`
}

// Load reads and parses a config file. Relative shader and kernel directories resolve against
// the directory of the file.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - *Config: the parsed config with defaults applied
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	base := filepath.Dir(path)
	cfg.ShaderDir = resolve(base, cfg.ShaderDir)
	cfg.KernelDir = resolve(base, cfg.KernelDir)
	return cfg, nil
}

// Parse decodes TOML config data. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - *Config: the parsed config with defaults applied
//   - error: error if the document cannot be decoded or validated
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown config keys: %s", strict.String())
		}
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Workers = common.Coalesce(c.Workers, defaultWorkers)
	c.Window.Title = common.Coalesce(c.Window.Title, defaultTitle)
	c.Window.Width = common.Coalesce(c.Window.Width, defaultWidth)
	c.Window.Height = common.Coalesce(c.Window.Height, defaultHeight)
	if c.Window.GLMajor == 0 {
		c.Window.GLMajor = defaultGLMajor
		c.Window.GLMinor = common.Coalesce(c.Window.GLMinor, defaultGLMinor)
	}
	for i := range c.Materials {
		m := &c.Materials[i]
		m.Name = common.Coalesce(m.Name, strings.TrimSuffix(filepath.Base(m.Vertex), filepath.Ext(m.Vertex)))
	}
	for i := range c.Kernels {
		k := &c.Kernels[i]
		k.Dimensions = common.Coalesce(k.Dimensions, len(k.GlobalSize), 1)
		k.Name = common.Coalesce(k.Name, k.Entry)
	}
}

// Validate reports every problem in the config at once.
//
// Returns:
//   - error: the joined validation errors, or nil
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width < 0 || c.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d is negative", c.Window.Width, c.Window.Height))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	materials := make(map[string]bool, len(c.Materials))
	for i, m := range c.Materials {
		if m.Vertex == "" || m.Fragment == "" {
			errs = append(errs, fmt.Errorf("material %d (%q) requires vertex and fragment stages", i, m.Name))
		}
		if materials[m.Name] {
			errs = append(errs, fmt.Errorf("material %q is declared twice", m.Name))
		}
		materials[m.Name] = true
	}

	for i, k := range c.Kernels {
		if k.Path == "" || k.Entry == "" {
			errs = append(errs, fmt.Errorf("kernel %d (%q) requires a path and an entry point", i, k.Name))
		}
		if k.Dimensions < 1 || k.Dimensions > 3 {
			errs = append(errs, fmt.Errorf("kernel %q dimensions must be 1 to 3, got %d", k.Name, k.Dimensions))
		}
		if len(k.GlobalSize) > 3 {
			errs = append(errs, fmt.Errorf("kernel %q global_size has %d components", k.Name, len(k.GlobalSize)))
		}
		if _, err := k.DevicePreference(); err != nil {
			errs = append(errs, fmt.Errorf("kernel %q: %w", k.Name, err))
		}
	}
	return errors.Join(errs...)
}

// GlobalWorkSize returns the kernel's global size padded to three components with 1.
func (k Kernel) GlobalWorkSize() [3]uint32 {
	size := [3]uint32{1, 1, 1}
	for i, v := range k.GlobalSize {
		if i >= len(size) {
			break
		}
		size[i] = common.Coalesce(v, 1)
	}
	return size
}

// DevicePreference parses Devices into device kinds. An empty list returns nil, leaving the
// resource default in place.
//
// Returns:
//   - []compute.DeviceKind: the device kinds in preference order
//   - error: error if a name is not "gpu" or "cpu"
func (k Kernel) DevicePreference() ([]compute.DeviceKind, error) {
	if len(k.Devices) == 0 {
		return nil, nil
	}
	kinds := make([]compute.DeviceKind, 0, len(k.Devices))
	for _, name := range k.Devices {
		switch strings.ToLower(name) {
		case "gpu":
			kinds = append(kinds, compute.DeviceGPU)
		case "cpu":
			kinds = append(kinds, compute.DeviceCPU)
		default:
			return nil, fmt.Errorf("unknown device kind %q", name)
		}
	}
	return kinds, nil
}

func resolve(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
