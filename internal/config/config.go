// Package config loads clientdash settings through viper.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all clientdash settings.
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Sync     SyncConfig     `mapstructure:"sync"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
}

// StoreConfig selects and tunes the record store.
type StoreConfig struct {
	// URL of a remote store. When empty an in-process mock store is used.
	URL string `mapstructure:"url"`
	// SeedFile is a JSON file used to seed the mock store.
	// When empty, SeedCount records are generated.
	SeedFile    string        `mapstructure:"seed_file"`
	SeedCount   int           `mapstructure:"seed_count"`
	QueryDelay  time.Duration `mapstructure:"query_delay"`
	UpdateDelay time.Duration `mapstructure:"update_delay"`
	// Timeout bounds each request to a remote store.
	Timeout time.Duration `mapstructure:"timeout"`
}

// RealtimeConfig controls the push channel.
type RealtimeConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	URL               string        `mapstructure:"url"`
	ReconnectAttempts int           `mapstructure:"reconnect_attempts"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	QueueSize         int           `mapstructure:"queue_size"`
	// Heartbeat is how long a silent socket is trusted before reconnecting.
	Heartbeat         time.Duration `mapstructure:"heartbeat"`
}

// SyncConfig controls how the dashboard refreshes after an edit.
type SyncConfig struct {
	// RefreshMode is "requery" or "patch".
	RefreshMode string `mapstructure:"refresh_mode"`
}

// UIConfig controls the terminal dashboard.
type UIConfig struct {
	// Theme is "classic", "neon" or "mono".
	Theme        string        `mapstructure:"theme"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// Dir receives clientdash.log. Empty means the state dir for the TUI
	// and stderr for one-shot commands.
	Dir string `mapstructure:"dir"`
}

// ServerConfig controls the mock push server.
type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	Simulate time.Duration `mapstructure:"simulate"`
	Watch    bool          `mapstructure:"watch"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			SeedCount:   20,
			QueryDelay:  300 * time.Millisecond,
			UpdateDelay: 200 * time.Millisecond,
			Timeout:     10 * time.Second,
		},
		Realtime: RealtimeConfig{
			Enabled:           true,
			URL:               "http://localhost:4000",
			ReconnectAttempts: 5,
			ReconnectDelay:    time.Second,
			QueueSize:         64,
			Heartbeat:         30 * time.Second,
		},
		Sync: SyncConfig{
			RefreshMode: "requery",
		},
		UI: UIConfig{
			Theme:        "classic",
			TickInterval: time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":4000",
		},
	}
}

// SetDefaults registers default values with the global viper instance.
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values with v.
func SetDefaultsOn(v *viper.Viper) {
	d := Default()

	v.SetDefault("store.url", d.Store.URL)
	v.SetDefault("store.seed_file", d.Store.SeedFile)
	v.SetDefault("store.seed_count", d.Store.SeedCount)
	v.SetDefault("store.query_delay", d.Store.QueryDelay)
	v.SetDefault("store.update_delay", d.Store.UpdateDelay)
	v.SetDefault("store.timeout", d.Store.Timeout)

	v.SetDefault("realtime.enabled", d.Realtime.Enabled)
	v.SetDefault("realtime.url", d.Realtime.URL)
	v.SetDefault("realtime.reconnect_attempts", d.Realtime.ReconnectAttempts)
	v.SetDefault("realtime.reconnect_delay", d.Realtime.ReconnectDelay)
	v.SetDefault("realtime.queue_size", d.Realtime.QueueSize)
	v.SetDefault("realtime.heartbeat", d.Realtime.Heartbeat)

	v.SetDefault("sync.refresh_mode", d.Sync.RefreshMode)

	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.tick_interval", d.UI.TickInterval)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.simulate", d.Server.Simulate)
	v.SetDefault("server.watch", d.Server.Watch)
}

// Load reads the configuration from viper into a Config and validates it.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for an explicit viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the clientdash configuration directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "clientdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clientdash"
	}
	return filepath.Join(home, ".config", "clientdash")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for logs and other runtime state.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "clientdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clientdash"
	}
	return filepath.Join(home, ".local", "state", "clientdash")
}
