package socket

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bft-labs/centronic/internal/domain"
	"github.com/bft-labs/centronic/internal/ports"
)

// DefaultPort is used when the address carries no port.
const DefaultPort = "5000"

// Default timeouts.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

// ReconnectPolicy bounds recovery from a failed write.
type ReconnectPolicy struct {
	// MaxAttempts is the number of reconnect-and-retry rounds per write.
	MaxAttempts int

	// Backoff is waited before the first reconnect and doubled for each
	// further round, up to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// DefaultReconnectPolicy reconnects once, immediately.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{MaxAttempts: 1, Backoff: 0}
}

// Options configures a Transport.
type Options struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Policy       ReconnectPolicy
	Dial         DialFunc
	Sleeper      ports.Sleeper
}

// DefaultOptions returns the defaults used by Open.
func DefaultOptions() Options {
	var d net.Dialer
	return Options{
		DialTimeout:  DefaultDialTimeout,
		WriteTimeout: DefaultWriteTimeout,
		Policy:       DefaultReconnectPolicy(),
		Dial:         d.DialContext,
		Sleeper:      ports.RealSleeper,
	}
}

// Transport implements ports.FrameWriter over TCP.
type Transport struct {
	conn    *Connection
	policy  ReconnectPolicy
	sleeper ports.Sleeper
	logger  ports.Logger
	closed  bool
}

// ResolveAddress returns host:port, adding DefaultPort when missing.
func ResolveAddress(address string) string {
	if host, port, err := net.SplitHostPort(address); err == nil {
		if port == "" {
			port = DefaultPort
		}
		return net.JoinHostPort(host, port)
	}
	return net.JoinHostPort(address, DefaultPort)
}

// Open connects to the bridge at address ("host" or "host:port").
// Returns an error wrapping domain.ErrConnection if the first dial fails.
func Open(ctx context.Context, address string, opts Options, logger ports.Logger) (*Transport, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", domain.ErrConnection)
	}
	def := DefaultOptions()
	if opts.Dial == nil {
		opts.Dial = def.Dial
	}
	if opts.Sleeper == nil {
		opts.Sleeper = def.Sleeper
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = def.DialTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if opts.Policy.MaxAttempts < 0 {
		opts.Policy.MaxAttempts = 0
	}

	conn := newConnection(ResolveAddress(address), opts.Dial, opts.DialTimeout, opts.WriteTimeout, logger)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}

	logger.Info("socket connected", ports.String("address", conn.address))

	return &Transport{
		conn:    conn,
		policy:  opts.Policy,
		sleeper: opts.Sleeper,
		logger:  logger,
	}, nil
}

// Write sends the frame. On failure the connection is re-established and
// the send retried, at most policy.MaxAttempts times.
func (t *Transport) Write(ctx context.Context, frame []byte) error {
	if t.closed {
		return fmt.Errorf("%w: %w", domain.ErrTransportWrite, domain.ErrClosed)
	}
	err := t.conn.Send(frame)
	if err == nil {
		return nil
	}

	wait := newBackoff(t.policy.Backoff, t.policy.MaxBackoff, t.sleeper.Sleep)
	for attempt := 1; attempt <= t.policy.MaxAttempts; attempt++ {
		t.logger.Warn("write failed, reconnecting",
			ports.String("address", t.conn.address),
			ports.Int("attempt", attempt),
			ports.Err(err))

		_ = t.conn.Disconnect()
		wait.Sleep()
		if err = t.conn.Connect(ctx); err != nil {
			continue
		}
		if err = t.conn.Send(frame); err == nil {
			t.logger.Info("write succeeded after reconnect", ports.String("address", t.conn.address))
			return nil
		}
	}

	_ = t.conn.Disconnect()
	return fmt.Errorf("%w: %v", domain.ErrTransportWrite, err)
}

// Close closes the connection. Later writes fail with domain.ErrClosed.
func (t *Transport) Close() error {
	t.closed = true
	return t.conn.Disconnect()
}

// State returns the connection state.
func (t *Transport) State() State {
	return t.conn.State()
}

// Address returns the resolved host:port.
func (t *Transport) Address() string {
	return t.conn.address
}
