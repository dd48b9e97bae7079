package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Makepad-fr/clientdash/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // config key, e.g. "realtime.queue_size"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidRefreshModes returns the accepted sync.refresh_mode values.
func ValidRefreshModes() []string {
	return []string{"requery", "patch"}
}

// ValidThemes returns the accepted ui.theme values.
func ValidThemes() []string {
	return []string{"classic", "neon", "mono"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateStore()...)
	errs = append(errs, c.validateRealtime()...)
	errs = append(errs, c.validateSync()...)
	errs = append(errs, c.validateUI()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateStore() []ValidationError {
	var errs []ValidationError
	if c.Store.URL != "" && !isHTTPURL(c.Store.URL) {
		errs = append(errs, ValidationError{"store.url", c.Store.URL, "must be an http or https URL"})
	}
	if c.Store.SeedCount < 0 {
		errs = append(errs, ValidationError{"store.seed_count", c.Store.SeedCount, "must be non-negative"})
	}
	if c.Store.QueryDelay < 0 {
		errs = append(errs, ValidationError{"store.query_delay", c.Store.QueryDelay, "must be non-negative"})
	}
	if c.Store.UpdateDelay < 0 {
		errs = append(errs, ValidationError{"store.update_delay", c.Store.UpdateDelay, "must be non-negative"})
	}
	if c.Store.Timeout <= 0 {
		errs = append(errs, ValidationError{"store.timeout", c.Store.Timeout, "must be positive"})
	}
	return errs
}

func (c *Config) validateRealtime() []ValidationError {
	if !c.Realtime.Enabled {
		return nil
	}
	var errs []ValidationError
	if c.Realtime.URL == "" {
		errs = append(errs, ValidationError{"realtime.url", c.Realtime.URL, "required when realtime is enabled"})
	} else if u, err := url.Parse(c.Realtime.URL); err != nil || !slices.Contains([]string{"http", "https", "ws", "wss"}, u.Scheme) {
		errs = append(errs, ValidationError{"realtime.url", c.Realtime.URL, "must be an http, https, ws or wss URL"})
	}
	if c.Realtime.ReconnectAttempts < 0 {
		errs = append(errs, ValidationError{"realtime.reconnect_attempts", c.Realtime.ReconnectAttempts, "must be non-negative"})
	}
	if c.Realtime.ReconnectDelay < 0 {
		errs = append(errs, ValidationError{"realtime.reconnect_delay", c.Realtime.ReconnectDelay, "must be non-negative"})
	}
	if c.Realtime.Heartbeat <= 0 {
		errs = append(errs, ValidationError{"realtime.heartbeat", c.Realtime.Heartbeat, "must be positive"})
	}
	if c.Realtime.QueueSize < 1 {
		errs = append(errs, ValidationError{"realtime.queue_size", c.Realtime.QueueSize, "must be at least 1"})
	}
	return errs
}

func (c *Config) validateSync() []ValidationError {
	if !slices.Contains(ValidRefreshModes(), c.Sync.RefreshMode) {
		return []ValidationError{{"sync.refresh_mode", c.Sync.RefreshMode,
			fmt.Sprintf("must be one of %s", strings.Join(ValidRefreshModes(), ", "))}}
	}
	return nil
}

func (c *Config) validateUI() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidThemes(), c.UI.Theme) {
		errs = append(errs, ValidationError{"ui.theme", c.UI.Theme,
			fmt.Sprintf("must be one of %s", strings.Join(ValidThemes(), ", "))})
	}
	if c.UI.TickInterval <= 0 {
		errs = append(errs, ValidationError{"ui.tick_interval", c.UI.TickInterval, "must be positive"})
	}
	return errs
}

func (c *Config) validateLogging() []ValidationError {
	if !logging.IsValidLevel(c.Logging.Level) {
		return []ValidationError{{"logging.level", c.Logging.Level, "must be one of debug, info, warn, error"}}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
