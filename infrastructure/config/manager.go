package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// field binds a dotted key to a Config field
type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func intField(ptr func(*Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func listField(ptr func(*Config) *[]string) field {
	return field{
		get: func(c *Config) string { return strings.Join(*ptr(c), ",") },
		set: func(c *Config, v string) error {
			var items []string
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			*ptr(c) = items
			return nil
		},
	}
}

var fields = map[string]field{
	"paths.cache_directory":  stringField(func(c *Config) *string { return &c.Paths.CacheDirectory }),
	"ffmpeg.path":            stringField(func(c *Config) *string { return &c.FFmpeg.Path }),
	"decoder.backend":        stringField(func(c *Config) *string { return &c.Decoder.Backend }),
	"encoder.webp":           stringField(func(c *Config) *string { return &c.Encoder.WebP }),
	"worker.max_concurrency": intField(func(c *Config) *int { return &c.Worker.MaxConcurrency }),
	"server.address":         stringField(func(c *Config) *string { return &c.Server.Address }),
	"server.allow_origins":   listField(func(c *Config) *[]string { return &c.Server.AllowOrigins }),
	"logging.level":          stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":         stringField(func(c *Config) *string { return &c.Logging.Format }),
	"defaults.format":        stringField(func(c *Config) *string { return &c.Defaults.Format }),
	"defaults.quality":       intField(func(c *Config) *int { return &c.Defaults.Quality }),
}

// Entry is one key/value pair of the configuration
type Entry struct {
	Key   string
	Value string
}

// ConfigManager reads and changes individual config keys
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Keys returns every supported key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns all entries sorted by key
func (m *ConfigManager) List() []Entry {
	keys := Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: fields[k].get(m.config)})
	}
	return entries
}

// Get returns the value of a dotted key
func (m *ConfigManager) Get(key string) (string, error) {
	f, ok := fields[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.get(m.config), nil
}

// Set changes a dotted key, validates the result and saves the file.
// The in-memory config is left unchanged when validation fails.
func (m *ConfigManager) Set(key, value string) error {
	f, ok := fields[normalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	next := *m.config
	if err := f.set(&next, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*m.config = next
	return Save(m.config, m.configPath)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
