package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/centronic/internal/domain"
	"github.com/bft-labs/centronic/internal/ports"
	"github.com/bft-labs/centronic/internal/sequencer"
)

// EventEmitter is notified after every per-unit command outcome.
type EventEmitter interface {
	OnCommandSent(unitID, channel int, cmd domain.Command, frames int, dryRun bool)
	OnCommandFailed(unitID, channel int, cmd domain.Command, frames int, err error)
}

// Controller validates addresses, resolves target units, runs the command
// sequence for each of them and persists their counters.
//
// A Controller is not safe for concurrent use. Hosts with several callers
// must serialize calls.
type Controller struct {
	device  string
	units   ports.UnitRepository
	writer  ports.FrameWriter
	seq     *sequencer.Sequencer
	logger  ports.Logger
	emitter EventEmitter
}

// NewController creates a controller. It takes ownership of units and writer.
// emitter may be nil.
func NewController(
	device string,
	units ports.UnitRepository,
	writer ports.FrameWriter,
	seq *sequencer.Sequencer,
	logger ports.Logger,
	emitter EventEmitter,
) *Controller {
	return &Controller{
		device:  device,
		units:   units,
		writer:  writer,
		seq:     seq,
		logger:  logger,
		emitter: emitter,
	}
}

// Send runs cmd against the channel addressed by channelSpec.
//
// Invalid addresses and a missing device are logged and rejected before any
// frame is built. When the address targets every unit, unpaired units are
// skipped and the remaining units are still served; the first error is
// returned.
func (c *Controller) Send(ctx context.Context, channelSpec string, cmd domain.Command, dryRun bool) error {
	addr, err := domain.ParseAddress(channelSpec)
	if err != nil {
		c.logger.Error("channel must be in range of 1-7 or 15",
			ports.String("channel", channelSpec),
			ports.Err(err))
		return err
	}

	if c.device == "" {
		c.logger.Error("no device defined")
		return domain.ErrNoDevice
	}

	targets, err := c.resolve(ctx, addr, cmd)
	if err != nil {
		c.logger.Error("failed to resolve unit",
			ports.Stringer("address", addr),
			ports.Err(err))
		return err
	}

	var firstErr error
	for _, unit := range targets {
		if addr.Broadcast() && cmd.Kind != domain.Pair && !unit.Paired() {
			c.logger.Error("the unit is not configured, skipping",
				ports.Int("unit", unit.ID()))
			continue
		}
		if err := c.run(ctx, addr.Channel, unit, cmd, dryRun); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ListUnits returns every known unit ordered by id.
func (c *Controller) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	return c.units.GetAll(ctx)
}

// Close releases the transport.
func (c *Controller) Close() error {
	return c.writer.Close()
}

// resolve returns the units addressed. A pairing attempt against an
// unknown unit id creates it.
func (c *Controller) resolve(ctx context.Context, addr domain.Address, cmd domain.Command) ([]domain.Unit, error) {
	if addr.Broadcast() {
		return c.units.GetAll(ctx)
	}

	unit, err := c.units.Get(ctx, addr.Unit)
	if err == nil {
		return []domain.Unit{unit}, nil
	}
	if errors.Is(err, domain.ErrUnitNotFound) && cmd.Kind == domain.Pair {
		c.logger.Info("creating unit for pairing", ports.Int("unit", addr.Unit))
		return []domain.Unit{domain.NewUnit(addr.Unit, 0, false)}, nil
	}
	return nil, err
}

// run transmits cmd for one unit and persists the counter it reached.
// Frames already sent are never rolled back.
func (c *Controller) run(ctx context.Context, channel int, unit domain.Unit, cmd domain.Command, dryRun bool) error {
	sent, err := c.seq.Run(ctx, channel, &unit, cmd, c.writer)
	if errors.Is(err, domain.ErrUnitNotPaired) {
		c.logger.Error("the unit is not configured", ports.Int("unit", unit.ID()))
		c.failed(unit.ID(), channel, cmd, 0, err)
		return err
	}

	if sent > 0 {
		if perr := c.units.Set(ctx, unit, dryRun); perr != nil {
			c.logger.Error("failed to persist unit",
				ports.Int("unit", unit.ID()),
				ports.Uint64("counter", unit.Counter()),
				ports.Err(perr))
			err = errors.Join(err, fmt.Errorf("persist unit %d: %w", unit.ID(), perr))
		}
	}

	if err != nil {
		c.logger.Error("command failed",
			ports.Int("unit", unit.ID()),
			ports.Int("channel", channel),
			ports.Stringer("command", cmd),
			ports.Int("frames_sent", sent),
			ports.Err(err))
		c.failed(unit.ID(), channel, cmd, sent, err)
		return err
	}

	c.logger.Info("command sent",
		ports.Int("unit", unit.ID()),
		ports.Int("channel", channel),
		ports.Stringer("command", cmd),
		ports.Int("frames", sent),
		ports.Uint64("counter", unit.Counter()),
		ports.Bool("paired", unit.Paired()),
		ports.Bool("dry_run", dryRun))
	if c.emitter != nil {
		c.emitter.OnCommandSent(unit.ID(), channel, cmd, sent, dryRun)
	}
	return nil
}

func (c *Controller) failed(unitID, channel int, cmd domain.Command, frames int, err error) {
	if c.emitter != nil {
		c.emitter.OnCommandFailed(unitID, channel, cmd, frames, err)
	}
}
