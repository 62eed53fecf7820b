package sequencer

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/centronic/internal/domain"
	"github.com/bft-labs/centronic/internal/ports"
	"github.com/bft-labs/centronic/internal/protocol"
)

// DefaultFrameGap is the pause after every frame so the receiver can
// process it before the next one arrives.
const DefaultFrameGap = 100 * time.Millisecond

// Sequencer builds and transmits the frames of a command.
// It holds no per-unit state.
type Sequencer struct {
	gap     time.Duration
	sleeper ports.Sleeper
	logger  ports.Logger
}

// New creates a sequencer. A non-positive gap selects DefaultFrameGap.
func New(gap time.Duration, sleeper ports.Sleeper, logger ports.Logger) *Sequencer {
	if gap <= 0 {
		gap = DefaultFrameGap
	}
	if sleeper == nil {
		sleeper = ports.RealSleeper
	}
	return &Sequencer{gap: gap, sleeper: sleeper, logger: logger}
}

// Run transmits cmd on channel for unit through w.
//
// The unit's counter is advanced once per frame written, so on error it
// reflects exactly the frames that reached the transport. The paired flag
// changes only after the last frame of a pairing or unpairing plan.
// Returns the number of frames written.
func (s *Sequencer) Run(ctx context.Context, channel int, unit *domain.Unit, cmd domain.Command, w ports.FrameWriter) (int, error) {
	if cmd.Kind != domain.Pair && !unit.Paired() {
		return 0, fmt.Errorf("%w: unit %d", domain.ErrUnitNotPaired, unit.ID())
	}

	plan, ok := PlanFor(cmd)
	if !ok {
		return 0, fmt.Errorf("%w: kind %d", domain.ErrInvalidCommand, cmd.Kind)
	}

	if cmd.Kind == domain.TimedMove {
		s.logger.Info("moving for duration",
			ports.Stringer("direction", cmd.Direction),
			ports.Duration("duration", cmd.Duration),
			ports.Int("unit", unit.ID()),
			ports.Int("channel", channel))
	}

	sent := 0
	warned := false
	for _, step := range plan.Steps {
		if step.Delay > 0 {
			s.sleeper.Sleep(step.Delay)
		}

		if unit.Counter() > protocol.MaxWireCounter && !warned {
			s.logger.Warn("rolling counter exceeds 16 bits, receivers may reject frames; re-pair the unit",
				ports.Int("unit", unit.ID()),
				ports.Uint64("counter", unit.Counter()))
			warned = true
		}

		frame, err := protocol.Build(channel, *unit, step.Opcode)
		if err != nil {
			return sent, fmt.Errorf("build %s frame: %w", step.Opcode, err)
		}
		if err := w.Write(ctx, frame); err != nil {
			return sent, fmt.Errorf("write %s frame: %w", step.Opcode, err)
		}

		s.logger.Debug("frame sent",
			ports.Int("unit", unit.ID()),
			ports.Int("channel", channel),
			ports.Stringer("opcode", step.Opcode),
			ports.Uint64("counter", unit.Counter()))

		unit.Advance()
		sent++

		s.sleeper.Sleep(s.gap)
	}

	switch plan.Paired {
	case PairedSet:
		unit.SetPaired(true)
	case PairedCleared:
		unit.SetPaired(false)
	}

	return sent, nil
}
