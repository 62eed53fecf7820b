package centronic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/centronic/internal/adapters/fs"
	logAdapter "github.com/bft-labs/centronic/internal/adapters/log"
	"github.com/bft-labs/centronic/internal/adapters/serial"
	"github.com/bft-labs/centronic/internal/adapters/socket"
	"github.com/bft-labs/centronic/internal/app"
	"github.com/bft-labs/centronic/internal/domain"
	"github.com/bft-labs/centronic/internal/ports"
	"github.com/bft-labs/centronic/internal/sequencer"
	"github.com/bft-labs/centronic/pkg/log"
)

// Unit is a transmitter unit known to the store.
type Unit struct {
	ID      int    `json:"id" yaml:"id"`
	Counter uint64 `json:"counter" yaml:"counter"`
	Paired  bool   `json:"paired" yaml:"paired"`
}

// Direction is the travel direction of a timed move.
type Direction = domain.Direction

// Directions for MoveFor.
const (
	Up   = domain.Up
	Down = domain.Down
)

// MaxMoveSeconds is the largest seconds value accepted by UP:<seconds> and
// DOWN:<seconds>.
const MaxMoveSeconds = domain.MaxMoveSeconds

// ParseDirection parses "up" or "down" in any case.
func ParseDirection(s string) (Direction, error) {
	return domain.ParseDirection(s)
}

// LoadUnits returns the units stored in storeDir without opening a device.
func LoadUnits(ctx context.Context, storeDir string) ([]Unit, error) {
	units, err := fs.NewUnitFileRepository(storeDir).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toUnits(units), nil
}

// Centronic sends commands to roller shutters through one transmitter stick.
// Use New() to create an instance and Close() to release the transport.
//
// A Centronic is not safe for concurrent use.
type Centronic struct {
	config     Config
	controller *app.Controller
	units      ports.UnitRepository
	logger     ports.Logger
}

// New creates a Centronic instance. It opens the transport named by
// cfg.Device unless one is injected with WithTransport, and seeds the store
// when cfg.InitDummy is set.
func New(cfg Config, opts ...Option) (*Centronic, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Discard
	}
	if o.sleeper == nil {
		o.sleeper = ports.RealSleeper
	}

	logger := ports.Logger(logAdapter.WithFields(o.logger, ports.String("device", cfg.Device)))

	units := fs.NewUnitFileRepository(cfg.StoreDir)
	if cfg.InitDummy {
		if err := units.InitDummy(context.Background()); err != nil {
			return nil, fmt.Errorf("seed unit store: %w", err)
		}
	}

	writer := o.transport
	if writer == nil {
		var err error
		writer, err = openTransport(cfg, o.sleeper, logger)
		if err != nil {
			logger.Error("failed to open transport", ports.Err(err))
			return nil, err
		}
	}

	var emitter app.EventEmitter
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	seq := sequencer.New(cfg.FrameGap, o.sleeper, logger)
	return &Centronic{
		config:     cfg,
		controller: app.NewController(cfg.Device, units, writer, seq, logger, emitter),
		units:      units,
		logger:     logger,
	}, nil
}

// MoveUp moves the shutter up.
func (c *Centronic) MoveUp(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.MoveUp), false)
}

// MoveUpIntermediate moves the shutter up to its intermediate position.
func (c *Centronic) MoveUpIntermediate(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.MoveUpIntermediate), false)
}

// MoveDown moves the shutter down.
func (c *Centronic) MoveDown(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.MoveDown), false)
}

// MoveDownIntermediate moves the shutter down to its intermediate position.
func (c *Centronic) MoveDownIntermediate(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.MoveDownIntermediate), false)
}

// Stop halts the shutter.
func (c *Centronic) Stop(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.Halt), false)
}

// Pair teaches the receiver on channel the unit's address. The receiver
// must be in learning mode.
func (c *Centronic) Pair(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.Pair), false)
}

// Unpair removes the unit from the receiver on channel.
func (c *Centronic) Unpair(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.Unpair), false)
}

// ClearPosition clears the stored intermediate position of the receiver.
func (c *Centronic) ClearPosition(ctx context.Context, channel string) error {
	return c.send(ctx, channel, domain.NewCommand(domain.ClearPosition), false)
}

// MoveFor moves in dir for d and then halts. It blocks for d.
func (c *Centronic) MoveFor(ctx context.Context, channel string, dir Direction, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative duration %s", ErrInvalidCommand, d)
	}
	return c.send(ctx, channel, domain.NewTimedMove(dir, d), false)
}

// Send parses keyword (UP, UP2, DOWN, DOWN2, HALT, TRAIN, CLEARPOS, REMOVE,
// UP:<seconds> or DOWN:<seconds>) and sends it to channel. With dryRun the
// frames are transmitted but the counters are not persisted.
func (c *Centronic) Send(ctx context.Context, channel, keyword string, dryRun bool) error {
	cmd, err := domain.ParseCommand(keyword)
	if err != nil {
		c.logger.Error("unknown command", ports.String("keyword", keyword), ports.Err(err))
		return err
	}
	return c.send(ctx, channel, cmd, dryRun)
}

// ListUnits returns every known unit ordered by id.
func (c *Centronic) ListUnits(ctx context.Context) ([]Unit, error) {
	units, err := c.controller.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	return toUnits(units), nil
}

func toUnits(units []domain.Unit) []Unit {
	out := make([]Unit, len(units))
	for i, u := range units {
		out[i] = Unit{ID: u.ID(), Counter: u.Counter(), Paired: u.Paired()}
	}
	return out
}

// Close releases the transport.
func (c *Centronic) Close() error {
	return c.controller.Close()
}

// Config returns the effective configuration.
func (c *Centronic) Config() Config {
	return c.config
}

func (c *Centronic) send(ctx context.Context, channel string, cmd domain.Command, dryRun bool) error {
	return c.controller.Send(ctx, channel, cmd, dryRun)
}

func isSerialAddress(device string) bool {
	return strings.Contains(device, "/")
}

// openTransport opens a serial port for device paths and a TCP connection
// otherwise.
func openTransport(cfg Config, sleeper ports.Sleeper, logger ports.Logger) (ports.FrameWriter, error) {
	if isSerialAddress(cfg.Device) {
		t, err := serial.Open(serial.DefaultConfig(cfg.Device), logger)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	opts := socket.DefaultOptions()
	opts.DialTimeout = cfg.DialTimeout
	opts.Sleeper = sleeper
	t, err := socket.Open(context.Background(), cfg.Device, opts, logger)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// eventEmitterWrapper adapts EventHandler to the controller's emitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e eventEmitterWrapper) OnCommandSent(unitID, channel int, cmd domain.Command, frames int, dryRun bool) {
	e.handler.OnCommandSent(CommandSentEvent{
		Unit:    unitID,
		Channel: channel,
		Command: cmd.String(),
		Frames:  frames,
		DryRun:  dryRun,
	})
}

func (e eventEmitterWrapper) OnCommandFailed(unitID, channel int, cmd domain.Command, frames int, err error) {
	e.handler.OnCommandFailed(CommandFailedEvent{
		Unit:    unitID,
		Channel: channel,
		Command: cmd.String(),
		Frames:  frames,
		Error:   err,
	})
}
