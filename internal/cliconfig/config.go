package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds CLI configuration for centronic.
type Config struct {
	Device    string
	StoreDir  string
	InitDummy bool

	DialTimeout time.Duration
	FrameGap    time.Duration

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int

	SpoolDir string
}

// DefaultHome returns ~/.centronic, or .centronic if the home directory is
// not accessible.
func DefaultHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".centronic")
	}
	return ".centronic"
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	home := DefaultHome()
	return Config{
		StoreDir:      home,
		DialTimeout:   5 * time.Second,
		FrameGap:      100 * time.Millisecond,
		LogLevel:      "info",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		SpoolDir:      filepath.Join(home, "spool"),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StoreDir == "" {
		return fmt.Errorf("store-dir is required")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial timeout must be positive")
	}
	if c.FrameGap <= 0 {
		return fmt.Errorf("frame gap must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RequireDevice returns an error if no device is configured.
func (c *Config) RequireDevice() error {
	if c.Device == "" {
		return errors.New("device is required (--device, CENTRONIC_DEVICE or config file)")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
