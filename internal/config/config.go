package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/htoml-dev/htoml/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "htoml.json"

	// DefaultPort is the default dev server port.
	DefaultPort = 4000

	// DefaultHost is the default dev server host.
	DefaultHost = "localhost"

	// DefaultRegion is the default S3 region for publishing.
	DefaultRegion = "us-east-1"

	// DefaultCacheSize is the default number of rendered pages kept by the dev server.
	DefaultCacheSize = 1000
)

// Config represents the complete htoml.json configuration.
type Config struct {
	// OutDir is where compiled HTML is written. Empty means next to the source.
	OutDir string `json:"outDir,omitempty"`

	// Escape enables HTML escaping of text and attribute values.
	Escape bool `json:"escape,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Serve contains dev server configuration.
	Serve ServeConfig `json:"serve,omitempty"`

	// Publish contains S3 publishing configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig contains dev server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Root is the directory holding the TOML documents.
	Root string `json:"root,omitempty"`

	// HotReload injects the reload client and pushes changes to browsers.
	HotReload *bool `json:"hotReload,omitempty"`

	// Ignore contains patterns the watcher skips.
	Ignore []string `json:"ignore,omitempty"`

	// CacheSize is the maximum number of rendered pages kept in memory.
	CacheSize int `json:"cacheSize,omitempty"`
}

// PublishConfig contains S3 upload settings.
type PublishConfig struct {
	// Bucket is the destination bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	hotReload := true
	return &Config{
		LogLevel: "info",
		Serve: ServeConfig{
			Host:      DefaultHost,
			Port:      DefaultPort,
			Root:      ".",
			HotReload: &hotReload,
			CacheSize: DefaultCacheSize,
		},
		Publish: PublishConfig{
			Region: DefaultRegion,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for htoml.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeInvalidConfig).
				WithDetail("No htoml.json found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New(errors.CodeInvalidConfig).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeInvalidConfig).
			WithDetail("Failed to parse htoml.json: " + err.Error()).
			WithSuggestion("Check that htoml.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeWriteFile).WithSubject(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.Root == "" {
		c.Serve.Root = "."
	}
	if c.Serve.HotReload == nil {
		hotReload := true
		c.Serve.HotReload = &hotReload
	}
	if c.Serve.CacheSize == 0 {
		c.Serve.CacheSize = DefaultCacheSize
	}
	if c.Publish.Region == "" {
		c.Publish.Region = DefaultRegion
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("serve.port must be between 0 and 65535")
	}
	if c.Serve.CacheSize < 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("serve.cacheSize must not be negative")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("logLevel must be one of debug, info, warn, error")
	}
	return nil
}

// HotReloadEnabled reports whether the dev server pushes reloads to browsers.
func (c *Config) HotReloadEnabled() bool {
	return c.Serve.HotReload == nil || *c.Serve.HotReload
}

// SetHotReload overrides the hot reload setting.
func (c *Config) SetHotReload(enabled bool) {
	c.Serve.HotReload = &enabled
}

// ServeAddress returns the address string for the dev server.
func (c *Config) ServeAddress() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// ServeURL returns the full URL for the dev server.
func (c *Config) ServeURL() string {
	return "http://" + c.ServeAddress()
}

// RootPath returns the absolute path of the directory served by the dev server.
func (c *Config) RootPath() string {
	return c.resolve(c.Serve.Root)
}

// OutputDir returns the resolved output directory, or "" when output goes
// next to the sources.
func (c *Config) OutputDir() string {
	if c.OutDir == "" {
		return ""
	}
	return c.resolve(c.OutDir)
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.Dir() == "" {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing htoml.json, or "" if there is none.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest htoml.json at or
// above the working directory. Without one, defaults are returned.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFromDir(wd)
}

// LoadFromDir is LoadFromWorkingDir starting at dir.
func LoadFromDir(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	if root == "" {
		return New(), nil
	}
	return Load(root)
}
