// CLAUDE:SUMMARY Snapshot service configuration: storage dir, nav timeout, retention, browser lifecycle. YAML-loadable.
package snapshot

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config configures the snapshot service.
type Config struct {
	// StorageDir is the directory where captured PNGs are persisted
	// and served from.
	StorageDir string `yaml:"storage_dir"`

	// NavTimeout bounds navigation + load wait for one capture.
	NavTimeout time.Duration `yaml:"nav_timeout"`

	// Retention controls the background sweep of old captures.
	Retention RetentionConfig `yaml:"retention"`

	// Browser controls the Chrome lifecycle.
	Browser BrowserConfig `yaml:"browser"`

	// ListLimit caps GET /api/captures responses.
	ListLimit int `yaml:"list_limit"`
}

// RetentionConfig controls the retention sweeper.
type RetentionConfig struct {
	// Disabled turns the sweeper off; captures then live until the host
	// cleans the storage directory.
	Disabled bool `yaml:"disabled"`
	// MaxAge is how long a capture is kept. Default: 30 minutes.
	MaxAge time.Duration `yaml:"max_age"`
	// CheckInterval is how often the sweeper runs.
	CheckInterval time.Duration `yaml:"check_interval"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local headless Chrome.
	Remote string `yaml:"remote"`
	// MemoryLimit in bytes; Chrome is recycled when exceeded.
	MemoryLimit int64 `yaml:"memory_limit"`
	// RecycleInterval is the maximum lifetime of a Chrome process.
	RecycleInterval time.Duration `yaml:"recycle_interval"`
}

func (c *Config) defaults() {
	if c.StorageDir == "" {
		c.StorageDir = "screenshots"
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Retention.MaxAge <= 0 {
		c.Retention.MaxAge = 30 * time.Minute
	}
	if c.Retention.CheckInterval <= 0 {
		c.Retention.CheckInterval = time.Minute
	}
	if c.Browser.MemoryLimit <= 0 {
		c.Browser.MemoryLimit = 1 << 30
	}
	if c.Browser.RecycleInterval <= 0 {
		c.Browser.RecycleInterval = 4 * time.Hour
	}
	if c.ListLimit <= 0 {
		c.ListLimit = 100
	}
}

// DefaultConfig returns the standard configuration: screenshots/ storage,
// 30 s navigation timeout, 30 min retention swept every minute.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.defaults()
	return &cfg, nil
}
