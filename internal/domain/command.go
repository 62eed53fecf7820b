package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CommandKind enumerates the shutter commands the transmitter supports.
type CommandKind int

const (
	MoveUp CommandKind = iota
	MoveUpIntermediate
	MoveDown
	MoveDownIntermediate
	Halt
	Pair
	ClearPosition
	Unpair
	TimedMove

	// CommandKindCount is the number of command kinds.
	CommandKindCount
)

// Keywords accepted by ParseCommand.
const (
	KeywordUp       = "UP"
	KeywordUp2      = "UP2"
	KeywordDown     = "DOWN"
	KeywordDown2    = "DOWN2"
	KeywordHalt     = "HALT"
	KeywordTrain    = "TRAIN"
	KeywordClearPos = "CLEARPOS"
	KeywordRemove   = "REMOVE"
)

// String returns the keyword for the kind.
func (k CommandKind) String() string {
	switch k {
	case MoveUp:
		return KeywordUp
	case MoveUpIntermediate:
		return KeywordUp2
	case MoveDown:
		return KeywordDown
	case MoveDownIntermediate:
		return KeywordDown2
	case Halt:
		return KeywordHalt
	case Pair:
		return KeywordTrain
	case ClearPosition:
		return KeywordClearPos
	case Unpair:
		return KeywordRemove
	case TimedMove:
		return "MOVE"
	default:
		return "UNKNOWN"
	}
}

// Direction is the travel direction of a timed move.
type Direction int

const (
	Up Direction = iota
	Down
)

// String returns "UP" or "DOWN".
func (d Direction) String() string {
	if d == Down {
		return KeywordDown
	}
	return KeywordUp
}

// ParseDirection parses "up" or "down" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case KeywordUp:
		return Up, nil
	case KeywordDown:
		return Down, nil
	default:
		return Up, fmt.Errorf("%w: direction %q", ErrInvalidCommand, s)
	}
}

// Command is a single logical operation against a receiver channel.
// Direction and Duration are only used by TimedMove.
type Command struct {
	Kind      CommandKind
	Direction Direction
	Duration  time.Duration
}

// NewCommand returns a command of the given kind.
func NewCommand(kind CommandKind) Command {
	return Command{Kind: kind}
}

// NewTimedMove returns a command that moves in dir for d and then halts.
func NewTimedMove(dir Direction, d time.Duration) Command {
	return Command{Kind: TimedMove, Direction: dir, Duration: d}
}

// String renders the command as its keyword.
func (c Command) String() string {
	if c.Kind == TimedMove {
		return fmt.Sprintf("%s:%d", c.Direction, int64(c.Duration/time.Second))
	}
	return c.Kind.String()
}

// MaxMoveSeconds is the longest timed move that fits in a time.Duration.
const MaxMoveSeconds = math.MaxInt64 / int64(time.Second)

var keywordKinds = map[string]CommandKind{
	KeywordUp:       MoveUp,
	KeywordUp2:      MoveUpIntermediate,
	KeywordDown:     MoveDown,
	KeywordDown2:    MoveDownIntermediate,
	KeywordHalt:     Halt,
	KeywordTrain:    Pair,
	KeywordClearPos: ClearPosition,
	KeywordRemove:   Unpair,
}

// ParseCommand parses a command keyword such as "UP", "TRAIN" or "DOWN:12".
func ParseCommand(s string) (Command, error) {
	kw := strings.ToUpper(strings.TrimSpace(s))
	if kind, ok := keywordKinds[kw]; ok {
		return NewCommand(kind), nil
	}

	dirPart, secPart, ok := strings.Cut(kw, ":")
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, s)
	}
	if dirPart != KeywordUp && dirPart != KeywordDown {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, s)
	}
	dir, _ := ParseDirection(dirPart)

	if secPart == "" || strings.TrimLeft(secPart, "0123456789") != "" {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, s)
	}
	secs, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || secs > MaxMoveSeconds {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, s)
	}
	return NewTimedMove(dir, time.Duration(secs)*time.Second), nil
}
