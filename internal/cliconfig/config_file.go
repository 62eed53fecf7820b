package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Device        string `toml:"device"`
	StoreDir      string `toml:"store_dir"`
	InitDummy     *bool  `toml:"init_dummy"`
	DialTimeout   string `toml:"dial_timeout"`
	FrameGap      string `toml:"frame_gap"`
	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	SpoolDir      string `toml:"spool_dir"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.centronic/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".centronic", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", fc.Device, &cfg.Device)
	s.setString("store-dir", fc.StoreDir, &cfg.StoreDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-file", fc.LogFile, &cfg.LogFile)
	s.setString("spool-dir", fc.SpoolDir, &cfg.SpoolDir)

	if err := s.setDuration("dial-timeout", fc.DialTimeout, &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("frame-gap", fc.FrameGap, &cfg.FrameGap); err != nil {
		return err
	}

	s.setInt("log-max-size", fc.LogMaxSizeMB, &cfg.LogMaxSizeMB)
	s.setInt("log-max-backups", fc.LogMaxBackups, &cfg.LogMaxBackups)

	s.setBool("init-dummy", fc.InitDummy, &cfg.InitDummy)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
