// Package serial writes frames to a Centronic stick attached as a local
// serial device.
package serial

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tarm "github.com/tarm/serial"

	"github.com/bft-labs/centronic/internal/domain"
	"github.com/bft-labs/centronic/internal/ports"
)

// Fixed line settings of the stick.
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = time.Second
)

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/serial/by-id/usb-BECKER-ANTRIEBE_GmbH_CDC_RS232_v125_Centronic-if00")
	Device string

	// Baud rate
	Baud int

	// ReadTimeout bounds reads from the stick
	ReadTimeout time.Duration
}

// DefaultConfig returns the stick's line settings for device.
func DefaultConfig(device string) Config {
	return Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
	}
}

// OpenFunc opens the underlying port. Replaced in tests.
type OpenFunc func(cfg *tarm.Config) (io.ReadWriteCloser, error)

func openTarm(cfg *tarm.Config) (io.ReadWriteCloser, error) {
	return tarm.OpenPort(cfg)
}

// Transport implements ports.FrameWriter on a serial device.
// Write failures are returned as-is; there is no reconnect.
type Transport struct {
	port   io.ReadWriteCloser
	cfg    Config
	logger ports.Logger
}

// Open opens the serial device.
// Returns an error wrapping domain.ErrConnection if the device is missing or cannot be opened.
func Open(cfg Config, logger ports.Logger) (*Transport, error) {
	return open(cfg, logger, openTarm)
}

func open(cfg Config, logger ports.Logger, openPort OpenFunc) (*Transport, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("%w: empty device path", domain.ErrConnection)
	}
	if _, err := os.Stat(cfg.Device); err != nil {
		return nil, fmt.Errorf("%w: %s is not existing", domain.ErrConnection, cfg.Device)
	}
	if cfg.Baud <= 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	port, err := openPort(&tarm.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: error when trying to establish connection using %s: %v",
			domain.ErrConnection, cfg.Device, err)
	}

	logger.Info("serial device opened",
		ports.String("device", cfg.Device),
		ports.Int("baud", cfg.Baud))

	return &Transport{port: port, cfg: cfg, logger: logger}, nil
}

// Write passes the frame straight to the device.
func (t *Transport) Write(ctx context.Context, frame []byte) error {
	if t.port == nil {
		return fmt.Errorf("%w: %w", domain.ErrTransportWrite, domain.ErrClosed)
	}
	n, err := t.port.Write(frame)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTransportWrite, t.cfg.Device, err)
	}
	if n != len(frame) {
		return fmt.Errorf("%w: %s: short write %d/%d", domain.ErrTransportWrite, t.cfg.Device, n, len(frame))
	}
	return nil
}

// Close closes the serial port.
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

// Device returns the device path.
func (t *Transport) Device() string {
	return t.cfg.Device
}
