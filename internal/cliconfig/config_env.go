package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CENTRONIC_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", os.Getenv("CENTRONIC_DEVICE"), &cfg.Device)
	s.setString("store-dir", os.Getenv("CENTRONIC_STORE_DIR"), &cfg.StoreDir)
	s.setString("log-level", os.Getenv("CENTRONIC_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-file", os.Getenv("CENTRONIC_LOG_FILE"), &cfg.LogFile)
	s.setString("spool-dir", os.Getenv("CENTRONIC_SPOOL_DIR"), &cfg.SpoolDir)

	if err := s.setDuration("dial-timeout", os.Getenv("CENTRONIC_DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("frame-gap", os.Getenv("CENTRONIC_FRAME_GAP"), &cfg.FrameGap); err != nil {
		return err
	}

	if err := s.setIntFromString("log-max-size", os.Getenv("CENTRONIC_LOG_MAX_SIZE_MB"), &cfg.LogMaxSizeMB); err != nil {
		return err
	}
	if err := s.setIntFromString("log-max-backups", os.Getenv("CENTRONIC_LOG_MAX_BACKUPS"), &cfg.LogMaxBackups); err != nil {
		return err
	}

	s.setBoolFromString("init-dummy", os.Getenv("CENTRONIC_INIT_DUMMY"), &cfg.InitDummy)

	return nil
}
