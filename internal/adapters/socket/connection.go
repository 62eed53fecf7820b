// Package socket writes frames to a Centronic stick exposed over TCP by a
// serial bridge (e.g. ser2net).
package socket

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bft-labs/centronic/internal/ports"
)

// State is the state of a Connection.
type State int

const (
	StateDisconnected State = iota
	StateConnected
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// DialFunc opens a network connection.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Connection is a TCP connection that is either Connected or Disconnected.
type Connection struct {
	address      string
	dial         DialFunc
	dialTimeout  time.Duration
	writeTimeout time.Duration
	logger       ports.Logger

	conn  net.Conn
	state State
}

func newConnection(address string, dial DialFunc, dialTimeout, writeTimeout time.Duration, logger ports.Logger) *Connection {
	return &Connection{
		address:      address,
		dial:         dial,
		dialTimeout:  dialTimeout,
		writeTimeout: writeTimeout,
		logger:       logger,
		state:        StateDisconnected,
	}
}

// State returns the current connection state.
func (c *Connection) State() State {
	return c.state
}

// Connect dials the bridge. A connected Connection is left as is.
func (c *Connection) Connect(ctx context.Context) error {
	if c.state == StateConnected {
		return nil
	}

	dialCtx := ctx
	if c.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.dialTimeout)
		defer cancel()
	}

	conn, err := c.dial(dialCtx, "tcp", c.address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.address, err)
	}
	c.transition(StateConnected, conn)
	return nil
}

// Disconnect closes the connection and moves to Disconnected.
func (c *Connection) Disconnect() error {
	if c.state == StateDisconnected {
		return nil
	}
	err := c.conn.Close()
	c.transition(StateDisconnected, nil)
	return err
}

// Send writes b in full. Sending while Disconnected fails.
func (c *Connection) Send(b []byte) error {
	if c.state != StateConnected {
		return fmt.Errorf("send to %s: not connected", c.address)
	}
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	for len(b) > 0 {
		n, err := c.conn.Write(b)
		if err != nil {
			return fmt.Errorf("send to %s: %w", c.address, err)
		}
		b = b[n:]
	}
	return nil
}

func (c *Connection) transition(to State, conn net.Conn) {
	from := c.state
	c.state = to
	c.conn = conn
	c.logger.Debug("connection state transition",
		ports.String("address", c.address),
		ports.String("from", from.String()),
		ports.String("to", to.String()))
}
