package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/tabalign/internal/align"
	"github.com/dshills/tabalign/internal/config/layer"
	"github.com/dshills/tabalign/internal/config/loader"
)

// Setting paths.
const (
	KeyTabSize       = "editor.tabSize"
	KeyTimeout       = "align.timeout"
	KeyMaxIterations = "align.maxIterations"
	KeyLogLevel      = "logging.level"
)

// MaxTabSize bounds editor.tabSize.
const MaxTabSize = 64

// EditorConfig holds buffer display settings.
type EditorConfig struct {
	TabSize int
}

// AlignConfig holds the alignment loop budget.
type AlignConfig struct {
	Timeout       time.Duration
	MaxIterations int
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string
}

// Config is the resolved configuration.
type Config struct {
	Editor  EditorConfig
	Align   AlignConfig
	Logging LoggingConfig

	layers *layer.Manager
}

// Defaults returns the built-in settings as a nested map.
func Defaults() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"tabSize": 4,
		},
		"align": map[string]any{
			"timeout":       align.DefaultInterval,
			"maxIterations": 0,
		},
		"logging": map[string]any{
			"level": "info",
		},
	}
}

// Default returns the configuration built from Defaults alone.
func Default() *Config {
	cfg, err := Load(WithEnviron(nil))
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return cfg
}

type options struct {
	path      string
	fs        loader.FileSystem
	envPrefix string
	environ   []string
	useOSEnv  bool
	overrides map[string]any
}

// Option configures Load.
type Option func(*options)

// WithFile loads path as the file layer. The file must exist.
func WithFile(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithFS reads config files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithEnviron reads the environment layer from environ ("KEY=value"
// entries) instead of the process environment. Nil disables the layer.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
		o.useOSEnv = false
	}
}

// WithOverride sets path in the arguments layer.
func WithOverride(path string, value any) Option {
	return func(o *options) {
		layer.SetByPath(o.overrides, path, value)
	}
}

// Load resolves the configuration from defaults, the optional file, the
// environment and overrides, in increasing priority.
func Load(opts ...Option) (*Config, error) {
	o := &options{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useOSEnv:  true,
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(o)
	}

	layers := layer.NewManager()
	layers.AddLayer(layer.NewLayerWithData(layer.SourceBuiltin, Defaults()))

	if o.path != "" {
		data, err := loader.ForPath(o.fs, o.path).Load()
		if err != nil {
			return nil, err
		}
		if data == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, o.path)
		}
		fileLayer := layer.NewLayerWithData(layer.SourceFile, data)
		fileLayer.Path = o.path
		layers.AddLayer(fileLayer)
	}

	var env *loader.EnvLoader
	switch {
	case o.useOSEnv:
		env = loader.NewEnvLoader(o.envPrefix)
	case o.environ != nil:
		env = loader.NewEnvLoaderFrom(o.envPrefix, o.environ)
	}
	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, err
		}
		layers.AddLayer(layer.NewLayerWithData(layer.SourceEnv, data))
	}

	if len(o.overrides) > 0 {
		layers.AddLayer(layer.NewLayerWithData(layer.SourceArgs, o.overrides))
	}

	cfg := &Config{layers: layers}
	if err := cfg.decode(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode() error {
	var err error
	if c.Editor.TabSize, err = c.intSetting(KeyTabSize); err != nil {
		return err
	}
	if c.Align.Timeout, err = c.durationSetting(KeyTimeout); err != nil {
		return err
	}
	if c.Align.MaxIterations, err = c.intSetting(KeyMaxIterations); err != nil {
		return err
	}
	if c.Logging.Level, err = c.stringSetting(KeyLogLevel); err != nil {
		return err
	}
	return nil
}

// Validate checks every setting's range.
func (c *Config) Validate() error {
	if c.Editor.TabSize < 1 || c.Editor.TabSize > MaxTabSize {
		return c.invalid(KeyTabSize, fmt.Errorf("%w: must be between 1 and %d, got %d",
			ErrValidationFailed, MaxTabSize, c.Editor.TabSize))
	}
	if c.Align.Timeout < 0 {
		return c.invalid(KeyTimeout, fmt.Errorf("%w: must not be negative", ErrValidationFailed))
	}
	if c.Align.MaxIterations < 0 {
		return c.invalid(KeyMaxIterations, fmt.Errorf("%w: must not be negative", ErrValidationFailed))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return c.invalid(KeyLogLevel, fmt.Errorf("%w: %v", ErrValidationFailed, err))
	}
	return nil
}

// Budget returns the alignment budget described by the align section.
func (c *Config) Budget() align.Budget {
	return align.Budget{
		Interval:      c.Align.Timeout,
		MaxIterations: c.Align.MaxIterations,
	}
}

// Source returns the name of the layer that supplied path, or "".
func (c *Config) Source(path string) string {
	if c.layers == nil {
		return ""
	}
	if _, l, ok := c.layers.Get(path); ok {
		return l.Name
	}
	return ""
}

// Sources maps every known setting path to the layer that supplied it.
func (c *Config) Sources() map[string]string {
	out := make(map[string]string)
	if c.layers == nil {
		return out
	}
	for _, key := range layer.FlattenKeys(c.layers.Merge()) {
		out[key] = c.Source(key)
	}
	return out
}

func (c *Config) invalid(path string, err error) error {
	return &SettingError{Path: path, Source: c.Source(path), Err: err}
}

func (c *Config) lookup(path string) any {
	v, _, _ := c.layers.Get(path)
	return v
}

func (c *Config) intSetting(path string) (int, error) {
	switch v := c.lookup(path).(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v <= math.MaxInt32 {
			return int(v), nil
		}
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	}
	return 0, c.mismatch(path, "an integer")
}

// durationSetting accepts a duration, a Go duration string, or a number of
// seconds.
func (c *Config) durationSetting(path string) (time.Duration, error) {
	switch v := c.lookup(path).(type) {
	case time.Duration:
		return v, nil
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d, nil
		}
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return 0, c.mismatch(path, "a duration")
}

func (c *Config) stringSetting(path string) (string, error) {
	if s, ok := c.lookup(path).(string); ok {
		return s, nil
	}
	return "", c.mismatch(path, "a string")
}

func (c *Config) mismatch(path, want string) error {
	return &SettingError{
		Path:   path,
		Source: c.Source(path),
		Err:    fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, want, c.lookup(path)),
	}
}

// DefaultPath returns the user config file path if one exists:
// $XDG_CONFIG_HOME/tabalign/config.toml (or .yaml), falling back to
// ~/.config. It returns "" when no file is present.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, "tabalign", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
