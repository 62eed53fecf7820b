// Package sequencer maps shutter commands to ordered frame sequences and
// transmits them with the inter-frame timing the receivers require.
package sequencer

import (
	"time"

	"github.com/bft-labs/centronic/internal/domain"
	"github.com/bft-labs/centronic/internal/protocol"
)

// PairedEffect is the change to a unit's paired flag once a plan completes.
type PairedEffect int

const (
	PairedUnchanged PairedEffect = iota
	PairedSet
	PairedCleared
)

// Step is one frame of a plan.
type Step struct {
	// Delay is waited before the frame is built and sent.
	Delay time.Duration

	// Opcode is the command byte of the frame.
	Opcode protocol.Opcode
}

// Plan is the ordered list of frames for a command.
// Every step consumes exactly one counter value.
type Plan struct {
	Steps  []Step
	Paired PairedEffect
}

type planFunc func(domain.Command) Plan

// plans holds one generator per command kind, indexed by kind.
var plans = [...]planFunc{
	domain.MoveUp:               single(protocol.OpUp),
	domain.MoveUpIntermediate:   single(protocol.OpUp5),
	domain.MoveDown:             single(protocol.OpDown),
	domain.MoveDownIntermediate: single(protocol.OpDown5),
	domain.Halt:                 single(protocol.OpHalt),
	domain.Pair: func(domain.Command) Plan {
		return Plan{
			Steps:  steps(protocol.OpPair2, protocol.OpPair2),
			Paired: PairedSet,
		}
	},
	domain.ClearPosition: func(domain.Command) Plan {
		return Plan{
			Steps: steps(protocol.OpPair, protocol.OpClearPos, protocol.OpClearPos2,
				protocol.OpClearPos3, protocol.OpClearPos4),
		}
	},
	domain.Unpair: func(domain.Command) Plan {
		return Plan{
			Steps:  steps(protocol.OpPair2, protocol.OpPair2, protocol.OpPair3, protocol.OpPair4),
			Paired: PairedCleared,
		}
	},
	domain.TimedMove: func(c domain.Command) Plan {
		move := protocol.OpUp
		if c.Direction == domain.Down {
			move = protocol.OpDown
		}
		return Plan{
			Steps: []Step{
				{Opcode: move},
				{Delay: c.Duration, Opcode: protocol.OpHalt},
			},
		}
	},
}

// Fails to compile unless plans has exactly one slot per command kind.
var _ = [1]struct{}{}[len(plans)-int(domain.CommandKindCount)]

// PlanFor returns the frame plan for cmd.
func PlanFor(cmd domain.Command) (Plan, bool) {
	if cmd.Kind < 0 || cmd.Kind >= domain.CommandKindCount {
		return Plan{}, false
	}
	return plans[cmd.Kind](cmd), true
}

func single(op protocol.Opcode) planFunc {
	return func(domain.Command) Plan {
		return Plan{Steps: steps(op)}
	}
}

func steps(ops ...protocol.Opcode) []Step {
	out := make([]Step, len(ops))
	for i, op := range ops {
		out[i] = Step{Opcode: op}
	}
	return out
}
