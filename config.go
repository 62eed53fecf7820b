package centronic

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/centronic/internal/adapters/socket"
	"github.com/bft-labs/centronic/internal/sequencer"
)

// Config holds the construction parameters of a Centronic instance.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// Device is a serial device path, or "host[:port]" of a serial bridge.
	Device string

	// StoreDir holds units.json.
	StoreDir string

	// InitDummy seeds a placeholder unit when the store is empty.
	InitDummy bool

	// DialTimeout bounds connecting to a serial bridge.
	DialTimeout time.Duration

	// FrameGap is the pause after every frame.
	FrameGap time.Duration
}

// DefaultStoreDir returns $HOME/.centronic, or .centronic when the home
// directory cannot be determined.
func DefaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".centronic"
	}
	return filepath.Join(home, ".centronic")
}

// DefaultConfig returns a Config with sensible default values.
// Device must still be set.
func DefaultConfig() Config {
	return Config{
		StoreDir:    DefaultStoreDir(),
		DialTimeout: socket.DefaultDialTimeout,
		FrameGap:    sequencer.DefaultFrameGap,
	}
}

// SetDefaults fills zero fields with their default values.
func (c *Config) SetDefaults() {
	if c.StoreDir == "" {
		c.StoreDir = DefaultStoreDir()
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = socket.DefaultDialTimeout
	}
	if c.FrameGap <= 0 {
		c.FrameGap = sequencer.DefaultFrameGap
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Device == "" {
		return ErrNoDevice
	}
	if c.StoreDir == "" {
		return errors.New("store directory is required")
	}
	if c.DialTimeout < 0 {
		return errors.New("dial timeout must not be negative")
	}
	if c.FrameGap < 0 {
		return errors.New("frame gap must not be negative")
	}
	return nil
}

// IsSerial reports whether Device names a local serial device.
func (c Config) IsSerial() bool {
	return isSerialAddress(c.Device)
}
