// Package config handles conbridge configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (CONBRIDGE_*)
//  2. Config file (~/.config/conbridge/config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/conbridge/conbridge/internal/paths"
)

const (
	// DefaultScrapeIntervalMs is the console poll period in milliseconds (spec.md §3).
	DefaultScrapeIntervalMs = 25
	// DefaultSyncThreshold is the number of scraped rows before a new sync marker is placed.
	DefaultSyncThreshold = 200
	// DefaultBufferLineCount is the shadow buffer's line capacity.
	DefaultBufferLineCount = 3000
	// DefaultDSRTimeoutMs is how long the input translator waits for a DSR/CPR
	// reply before treating a bare ESC as an Escape keypress.
	DefaultDSRTimeoutMs = 1000
	// DefaultPipeConnectTimeoutMs is how long the adapter waits to connect to
	// the agent's named pipes after spawning it.
	DefaultPipeConnectTimeoutMs = 3000
	// DefaultMaxBufferWidth is the hard cap on console buffer width accepted
	// on resize (spec.md §9 open question resolution).
	DefaultMaxBufferWidth = 2000
)

// Config holds the conbridge configuration.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	// Set defaults
	v.SetDefault("console.scrape_interval_ms", DefaultScrapeIntervalMs)
	v.SetDefault("console.sync_threshold", DefaultSyncThreshold)
	v.SetDefault("console.buffer_line_count", DefaultBufferLineCount)
	v.SetDefault("console.max_buffer_width", DefaultMaxBufferWidth)
	v.SetDefault("input.dsr_timeout_ms", DefaultDSRTimeoutMs)
	v.SetDefault("transport.pipe_connect_timeout_ms", DefaultPipeConnectTimeoutMs)

	// Config file location
	if configDir, err := paths.ConfigRoot(); err == nil {
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("CONBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, but warn on other errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}

	return &Config{v: v}
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns a configuration value as int.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	configDir, err := paths.ConfigRoot()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	configFile := configDir + string(os.PathSeparator) + "config.yaml"
	return c.v.WriteConfigAs(configFile)
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// ScrapeIntervalMs returns the console poll period in milliseconds.
func (c *Config) ScrapeIntervalMs() int {
	return c.GetInt("console.scrape_interval_ms")
}

// SyncThreshold returns the row count between sync markers.
func (c *Config) SyncThreshold() int {
	return c.GetInt("console.sync_threshold")
}

// BufferLineCount returns the shadow buffer's line capacity.
func (c *Config) BufferLineCount() int {
	return c.GetInt("console.buffer_line_count")
}

// MaxBufferWidth returns the hard cap on console buffer width.
func (c *Config) MaxBufferWidth() int {
	return c.GetInt("console.max_buffer_width")
}

// DSRTimeoutMs returns the DSR/CPR reply timeout in milliseconds.
func (c *Config) DSRTimeoutMs() int {
	return c.GetInt("input.dsr_timeout_ms")
}

// PipeConnectTimeoutMs returns the named-pipe connect timeout in milliseconds.
func (c *Config) PipeConnectTimeoutMs() int {
	return c.GetInt("transport.pipe_connect_timeout_ms")
}
