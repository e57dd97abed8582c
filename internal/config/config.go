package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

// RuntimeConfig is read from the Nakama runtime environment (the "runtime.env" section of the server config).
type RuntimeConfig struct {
	Enabled               bool   `env:"warden_enabled" envDefault:"false"`
	IncentiveDelaySeconds int    `env:"warden_incentive_delay_sec" envDefault:"5"`
	TickRate              int    `env:"warden_tick_rate" envDefault:"10"`
	NoticeMillis          int    `env:"warden_notice_ms" envDefault:"5000"`
	DefaultLocale         string `env:"warden_default_locale" envDefault:"en"`
	ConsoleSecret         string `env:"warden_console_secret"`
	ConsoleIssuer         string `env:"warden_console_issuer" envDefault:"warden"`
	ConfigPath            string `env:"warden_config_path" envDefault:"data/warden_config.json"`
}

// ParseRuntimeEnv builds a RuntimeConfig from the runtime env map, applying defaults for missing keys.
func ParseRuntimeEnv(vars map[string]string) (RuntimeConfig, error) {
	var c RuntimeConfig
	if err := env.ParseWithOptions(&c, env.Options{Environment: vars}); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parse runtime env: %w", err)
	}
	if c.TickRate < 1 || c.TickRate > 60 {
		return RuntimeConfig{}, fmt.Errorf("warden_tick_rate must be between 1 and 60, got %d", c.TickRate)
	}
	if c.IncentiveDelaySeconds < 0 {
		return RuntimeConfig{}, fmt.Errorf("warden_incentive_delay_sec must not be negative, got %d", c.IncentiveDelaySeconds)
	}
	return c, nil
}

// IncentiveDelay returns the configured reminder delay.
func (c RuntimeConfig) IncentiveDelay() time.Duration {
	return time.Duration(c.IncentiveDelaySeconds) * time.Second
}

// WardenConfig holds file-based settings that do not fit in the runtime env.
type WardenConfig struct {
	// Permissions grants capabilities to user ids on top of account metadata.
	Permissions map[string][]string `json:"permissions"`
}

var (
	cfg      *WardenConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadWardenConfig loads the warden configuration from the given path.
// Only the first call reads the file.
func LoadWardenConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read warden config: %w", err)
			return
		}

		var c WardenConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal warden config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetWardenConfig returns the loaded configuration, or nil if none was loaded.
func GetWardenConfig() *WardenConfig {
	return cfg
}

// HasGrant reports whether the file grants capability to userID.
func (c *WardenConfig) HasGrant(userID, capability string) bool {
	if c == nil {
		return false
	}
	for _, granted := range c.Permissions[userID] {
		if granted == capability || granted == "*" {
			return true
		}
	}
	return false
}
