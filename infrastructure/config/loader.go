package config

import (
	"errors"
	"fmt"
	"os"

	"video-thumbnail/domain/thumbnail"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in the decoder and encoder sections
const (
	BackendFFmpeg = "ffmpeg"
	BackendOpenCV = "opencv"
	BackendVips   = "vips"
)

// Defaults applied to empty fields
const (
	DefaultFFmpegPath    = "ffmpeg"
	DefaultServerAddress = ":8080"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultFormat        = "jpeg"
	DefaultQuality       = 75
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete application configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Decoder  DecoderConfig  `yaml:"decoder"`
	Encoder  EncoderConfig  `yaml:"encoder"`
	Worker   WorkerConfig   `yaml:"worker"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// PathsConfig contains directories used when writing thumbnails
type PathsConfig struct {
	// CacheDirectory receives thumbnails of remote videos when no path is given.
	// Empty means the user cache directory.
	CacheDirectory string `yaml:"cache_directory"`
}

// FFmpegConfig locates the ffmpeg executable
type FFmpegConfig struct {
	Path string `yaml:"path"`
}

// DecoderConfig selects the frame decoder
type DecoderConfig struct {
	Backend string `yaml:"backend"`
}

// EncoderConfig selects the WEBP encoder
type EncoderConfig struct {
	WebP string `yaml:"webp"`
}

// WorkerConfig bounds the worker pool. Zero means unbounded.
type WorkerConfig struct {
	MaxConcurrency int `yaml:"max_concurrency"`
}

// ServerConfig contains the HTTP listener settings
type ServerConfig struct {
	Address string `yaml:"address"`
	// AllowOrigins enables CORS for the listed origins. Empty disables CORS.
	AllowOrigins []string `yaml:"allow_origins,omitempty"`
}

// LoggingConfig contains zap settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultsConfig holds values used when a call omits them
type DefaultsConfig struct {
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := newConfig()
	cfg.ApplyDefaults()
	return cfg
}

// newConfig presets fields whose zero value is meaningful. Decoding YAML over
// it keeps the preset only when the key is absent.
func newConfig() *Config {
	return &Config{Defaults: DefaultsConfig{Quality: DefaultQuality}}
}

// ApplyDefaults fills empty fields with their defaults. Defaults.Quality is
// left alone since 0 is a valid quality.
func (c *Config) ApplyDefaults() {
	if c.FFmpeg.Path == "" {
		c.FFmpeg.Path = DefaultFFmpegPath
	}
	if c.Decoder.Backend == "" {
		c.Decoder.Backend = BackendFFmpeg
	}
	if c.Encoder.WebP == "" {
		c.Encoder.WebP = BackendFFmpeg
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Defaults.Format == "" {
		c.Defaults.Format = DefaultFormat
	}
}

// Validate checks enumerated values and ranges
func (c *Config) Validate() error {
	switch c.Decoder.Backend {
	case BackendFFmpeg, BackendOpenCV:
	default:
		return fmt.Errorf("%w: decoder.backend %q (want ffmpeg or opencv)", ErrInvalidConfig, c.Decoder.Backend)
	}
	switch c.Encoder.WebP {
	case BackendFFmpeg, BackendVips:
	default:
		return fmt.Errorf("%w: encoder.webp %q (want ffmpeg or vips)", ErrInvalidConfig, c.Encoder.WebP)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format %q (want json or console)", ErrInvalidConfig, c.Logging.Format)
	}
	if c.Worker.MaxConcurrency < 0 {
		return fmt.Errorf("%w: worker.max_concurrency must not be negative", ErrInvalidConfig)
	}
	if _, err := thumbnail.ParseImageFormatName(c.Defaults.Format); err != nil {
		return fmt.Errorf("%w: defaults.format: %w", ErrInvalidConfig, err)
	}
	if c.Defaults.Quality < 0 || c.Defaults.Quality > 100 {
		return fmt.Errorf("%w: defaults.quality %d out of range 0-100", ErrInvalidConfig, c.Defaults.Quality)
	}
	return nil
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
