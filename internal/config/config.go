// Package config loads server settings from an optional TOML file and
// applies environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds every runtime tunable.
type Config struct {
	Addr     string `toml:"addr"`
	TickRate int    `toml:"tick_rate"`

	IdleTimeoutSec       int `toml:"idle_timeout_sec"`
	SweepIntervalSec     int `toml:"sweep_interval_sec"`
	HeartbeatIntervalSec int `toml:"heartbeat_interval_sec"`
}

// Default returns the reference settings.
func Default() Config {
	return Config{
		Addr:                 ":8080",
		TickRate:             60,
		IdleTimeoutSec:       30,
		SweepIntervalSec:     10,
		HeartbeatIntervalSec: 2,
	}
}

// Load reads the TOML file at path (skipped when path is empty or the file
// is absent), then applies environment overrides. A .env file in the working
// directory is honored if present.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: %w", err)
			}
		}
	}

	godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PONG_ADDR"); v != "" {
		cfg.Addr = v
	}
	overrideInt("PONG_TICK_RATE", &cfg.TickRate)
	overrideInt("PONG_IDLE_TIMEOUT_SEC", &cfg.IdleTimeoutSec)
	overrideInt("PONG_SWEEP_INTERVAL_SEC", &cfg.SweepIntervalSec)
	overrideInt("PONG_HEARTBEAT_INTERVAL_SEC", &cfg.HeartbeatIntervalSec)
}

func overrideInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

func (c Config) validate() error {
	if c.TickRate <= 0 || c.TickRate > 240 {
		return fmt.Errorf("config: tick_rate %d out of range", c.TickRate)
	}
	if c.IdleTimeoutSec <= 0 {
		return fmt.Errorf("config: idle_timeout_sec must be positive")
	}
	if c.SweepIntervalSec <= 0 {
		return fmt.Errorf("config: sweep_interval_sec must be positive")
	}
	if c.HeartbeatIntervalSec <= 0 {
		return fmt.Errorf("config: heartbeat_interval_sec must be positive")
	}
	return nil
}

// TickInterval is the duration between simulation ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// IdleTimeout converts the idle timeout to a duration.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSec) * time.Second
}

// SweepInterval converts the sweep interval to a duration.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// HeartbeatInterval converts the heartbeat interval to a duration.
func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalSec) * time.Second
}
