package centronic

import (
	"github.com/bft-labs/centronic/internal/ports"
	"github.com/bft-labs/centronic/pkg/log"
)

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField represents a structured log field.
type LogField = log.Field

// Transport writes finalized frames to the transmitter stick.
type Transport = ports.FrameWriter

// Sleeper blocks for a duration. It paces frames and timed moves.
type Sleeper = ports.Sleeper

// Option configures optional behavior of Centronic.
type Option func(*options)

type options struct {
	logger       ports.Logger
	transport    ports.FrameWriter
	sleeper      ports.Sleeper
	eventHandler EventHandler
}

func defaultOptions() options {
	return options{
		logger:  log.NewNoopLogger(),
		sleeper: ports.RealSleeper,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTransport replaces the transport chosen from Config.Device.
// Centronic takes ownership and closes it on Close.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithSleeper replaces the wall-clock sleeper used between frames and
// during timed moves.
func WithSleeper(s Sleeper) Option {
	return func(o *options) {
		o.sleeper = s
	}
}

// WithEventHandler sets a handler for command outcomes.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
