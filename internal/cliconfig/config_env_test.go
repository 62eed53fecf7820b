package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"CENTRONIC_DEVICE":          "bridge.local",
				"CENTRONIC_STORE_DIR":       "/env/store",
				"CENTRONIC_INIT_DUMMY":      "true",
				"CENTRONIC_DIAL_TIMEOUT":    "3s",
				"CENTRONIC_FRAME_GAP":       "50ms",
				"CENTRONIC_LOG_LEVEL":       "warn",
				"CENTRONIC_LOG_FILE":        "/env/centronic.log",
				"CENTRONIC_LOG_MAX_SIZE_MB": "7",
				"CENTRONIC_SPOOL_DIR":       "/env/spool",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Device:       "bridge.local",
				StoreDir:     "/env/store",
				InitDummy:    true,
				DialTimeout:  3 * time.Second,
				FrameGap:     50 * time.Millisecond,
				LogLevel:     "warn",
				LogFile:      "/env/centronic.log",
				LogMaxSizeMB: 7,
				SpoolDir:     "/env/spool",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"CENTRONIC_DEVICE":    "bridge.local",
				"CENTRONIC_STORE_DIR": "/env/store",
			},
			changed: map[string]bool{"device": true},
			initial: Config{Device: "/dev/ttyACM0"},
			expected: Config{
				Device:   "/dev/ttyACM0",
				StoreDir: "/env/store",
			},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"CENTRONIC_DIAL_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"CENTRONIC_LOG_MAX_BACKUPS": "many"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "handles bool '1' as true",
			envVars:  map[string]string{"CENTRONIC_INIT_DUMMY": "1"},
			changed:  map[string]bool{},
			expected: Config{InitDummy: true},
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"CENTRONIC_INIT_DUMMY": "false"},
			changed:  map[string]bool{},
			initial:  Config{InitDummy: true},
			expected: Config{InitDummy: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		Device:    "/dev/file",
		StoreDir:  "/file/store",
		LogLevel:  "error",
		InitDummy: &trueVal,
	}

	t.Setenv("CENTRONIC_DEVICE", "env.local")
	t.Setenv("CENTRONIC_STORE_DIR", "/env/store")
	t.Setenv("CENTRONIC_SPOOL_DIR", "/env/spool")

	changed := map[string]bool{
		"device": true,
	}

	cfg := Config{
		Device: "/dev/cli",
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Device != "/dev/cli" {
		t.Errorf("Device = %v, want /dev/cli (CLI should win)", cfg.Device)
	}
	if cfg.StoreDir != "/env/store" {
		t.Errorf("StoreDir = %v, want /env/store (env should override file)", cfg.StoreDir)
	}
	if cfg.SpoolDir != "/env/spool" {
		t.Errorf("SpoolDir = %v, want /env/spool (env should set)", cfg.SpoolDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %v, want error (file should set)", cfg.LogLevel)
	}
	if !cfg.InitDummy {
		t.Error("InitDummy = false, want true (file should set)")
	}
}
