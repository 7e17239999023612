package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexballas/xassetbrowser/asset"
	"github.com/alexballas/xassetbrowser/listing"
	"github.com/alexballas/xassetbrowser/selection"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds the browser settings read from config.yaml.
type Config struct {
	Selection struct {
		DebounceMS int `yaml:"debounce_ms"` // Quiet period before the preview loads
	} `yaml:"selection"`
	Listing struct {
		Sort       string   `yaml:"sort"`        // type or name
		Direction  string   `yaml:"direction"`   // asc or desc
		HideJPEG   bool     `yaml:"hide_jpg"`    // Hide .jpg and .jpeg
		HidePNG    bool     `yaml:"hide_png"`    // Hide .png
		HideOther  bool     `yaml:"hide_other"`  // Hide unrecognized files
		Ignore     []string `yaml:"ignore"`      // Glob patterns on file names
		ShowHidden bool     `yaml:"show_hidden"` // Show dotfiles
	} `yaml:"listing"`
	Thumbnails struct {
		Workers int `yaml:"workers"`
		Queue   int `yaml:"queue"`
	} `yaml:"thumbnails"`
	Watch struct {
		Enabled    bool `yaml:"enabled"`     // Refresh the listing on changes
		DebounceMS int  `yaml:"debounce_ms"` // Quiet period before refreshing
	} `yaml:"watch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Selection.DebounceMS = int(selection.DefaultDebounce / time.Millisecond)
	cfg.Listing.Sort = "type"
	cfg.Listing.Direction = "asc"
	cfg.Listing.Ignore = []string{}
	cfg.Thumbnails.Workers = asset.DefaultThumbnailWorkers
	cfg.Thumbnails.Queue = asset.DefaultThumbnailQueue
	cfg.Watch.Enabled = true
	cfg.Watch.DebounceMS = int(listing.DefaultWatchDelay / time.Millisecond)
	cfg.Log.Level = "info"
	return cfg
}

// DefaultPath is the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "xassetbrowser", "config.yaml"), nil
}

// Load reads the config from DefaultPath.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile reads path over the defaults. A missing file yields the
// defaults, keys absent from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := parseSortField(c.Listing.Sort); err != nil {
		return err
	}
	if _, err := parseDirection(c.Listing.Direction); err != nil {
		return err
	}
	if err := c.Filter().Validate(); err != nil {
		return fmt.Errorf("%w: listing.ignore: %v", ErrInvalid, err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	if c.Selection.DebounceMS < 0 {
		return fmt.Errorf("%w: selection.debounce_ms must not be negative", ErrInvalid)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: watch.debounce_ms must not be negative", ErrInvalid)
	}
	if c.Thumbnails.Workers < 0 || c.Thumbnails.Queue < 0 {
		return fmt.Errorf("%w: thumbnails settings must not be negative", ErrInvalid)
	}
	return nil
}

// Sort returns the listing sort order. Call Validate first.
func (c *Config) Sort() listing.SortSpec {
	field, _ := parseSortField(c.Listing.Sort)
	dir, _ := parseDirection(c.Listing.Direction)
	return listing.SortSpec{Field: field, Direction: dir}
}

func (c *Config) Filter() listing.FilterSpec {
	return listing.FilterSpec{
		HideJPEG:     c.Listing.HideJPEG,
		HidePNG:      c.Listing.HidePNG,
		HideOther:    c.Listing.HideOther,
		HideDotfiles: !c.Listing.ShowHidden,
		Ignore:       c.Listing.Ignore,
	}
}

func (c *Config) SelectionDebounce() time.Duration {
	return time.Duration(c.Selection.DebounceMS) * time.Millisecond
}

func (c *Config) WatchDelay() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// ApplyLogLevel sets the logrus standard logger level.
func (c *Config) ApplyLogLevel() {
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logrus.SetLevel(lvl)
	}
}

func parseSortField(s string) (listing.SortField, error) {
	switch s {
	case "", "type":
		return listing.SortByType, nil
	case "name":
		return listing.SortByName, nil
	default:
		return 0, fmt.Errorf("%w: listing.sort %q, want type or name", ErrInvalid, s)
	}
}

func parseDirection(s string) (listing.Direction, error) {
	switch s {
	case "", "asc":
		return listing.Ascending, nil
	case "desc":
		return listing.Descending, nil
	default:
		return 0, fmt.Errorf("%w: listing.direction %q, want asc or desc", ErrInvalid, s)
	}
}
