// Package config loads the downloader configuration from YAML files
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StdoutTarget as save_file_path streams the download to standard output
const StdoutTarget = "-"

// Config represents the entire application configuration
type Config struct {
	Download DownloadConfig `mapstructure:"download"`
	Progress ProgressConfig `mapstructure:"progress"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DownloadConfig contains the settings of a download session
type DownloadConfig struct {
	URL          string            `mapstructure:"url"`
	SaveFilePath string            `mapstructure:"save_file_path"`
	TimeOut      string            `mapstructure:"time_out"`
	MD5Enable    bool              `mapstructure:"md5_enable"`
	BufferSize   int               `mapstructure:"buffer_size"`
	RateLimit    int64             `mapstructure:"rate_limit"` // bytes per second, 0 = unlimited
	AbortGrace   string            `mapstructure:"abort_grace"`
	Headers      map[string]string `mapstructure:"headers"`
}

// ProgressConfig contains progress display settings
type ProgressConfig struct {
	Interval string `mapstructure:"interval"`
}

// HistoryConfig contains download history ledger settings
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("download.url", "")
	v.SetDefault("download.save_file_path", "")
	v.SetDefault("download.time_out", "5s")
	v.SetDefault("download.md5_enable", true)
	v.SetDefault("download.buffer_size", 10*1024)
	v.SetDefault("download.rate_limit", 0)
	v.SetDefault("download.abort_grace", "500ms")
	v.SetDefault("download.headers", map[string]string{})
	v.SetDefault("progress.interval", "200ms")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "download-history.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	return v
}

// Load loads configuration from the specified file path. An empty path
// yields the defaults. The result is not validated, so that command line
// flags can still fill in missing values before Validate is called.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate download config
	if c.Download.URL == "" {
		return fmt.Errorf("download.url is required")
	}
	if !strings.HasPrefix(c.Download.URL, "http://") && !strings.HasPrefix(c.Download.URL, "https://") {
		return fmt.Errorf("download.url must be an http or https URL: %s", c.Download.URL)
	}
	if c.Download.SaveFilePath == "" {
		return fmt.Errorf("download.save_file_path is required")
	}
	if d, err := time.ParseDuration(c.Download.TimeOut); err != nil {
		return fmt.Errorf("invalid download.time_out: %w", err)
	} else if d < 0 {
		return fmt.Errorf("download.time_out must not be negative")
	}
	if c.Download.BufferSize <= 0 {
		return fmt.Errorf("download.buffer_size must be positive")
	}
	if c.Download.RateLimit < 0 {
		return fmt.Errorf("download.rate_limit must not be negative")
	}
	if _, err := time.ParseDuration(c.Download.AbortGrace); err != nil {
		return fmt.Errorf("invalid download.abort_grace: %w", err)
	}

	if _, err := time.ParseDuration(c.Progress.Interval); err != nil {
		return fmt.Errorf("invalid progress.interval: %w", err)
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// Streaming reports whether the download goes to standard output
func (c *DownloadConfig) Streaming() bool {
	return c.SaveFilePath == StdoutTarget
}

// GetTimeOut returns the per-read stall limit as time.Duration
func (c *DownloadConfig) GetTimeOut() time.Duration {
	d, err := time.ParseDuration(c.TimeOut)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GetAbortGrace returns the abort grace period as time.Duration
func (c *DownloadConfig) GetAbortGrace() time.Duration {
	d, _ := time.ParseDuration(c.AbortGrace)
	if d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// GetInterval returns the minimum time between progress lines
func (c *ProgressConfig) GetInterval() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	if d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}
