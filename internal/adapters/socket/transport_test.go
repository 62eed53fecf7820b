package socket

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/centronic/internal/domain"
	"github.com/bft-labs/centronic/pkg/log"
)

// peer is a loopback TCP server that records everything it receives.
type peer struct {
	ln net.Listener
	wg sync.WaitGroup

	mu       sync.Mutex
	received []byte
	accepted int
}

func newPeer(t *testing.T) *peer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	p := &peer{ln: ln}
	p.wg.Add(1)
	go p.serve()
	t.Cleanup(func() { ln.Close() })
	return p
}

func (p *peer) serve() {
	defer p.wg.Done()
	for {
		conn, err := p.ln.Accept()
		if err != nil {
			return
		}
		p.mu.Lock()
		p.accepted++
		p.mu.Unlock()

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			defer conn.Close()
			data, _ := io.ReadAll(conn)
			p.mu.Lock()
			p.received = append(p.received, data...)
			p.mu.Unlock()
		}()
	}
}

// wait closes the listener and waits until every connection has drained.
func (p *peer) wait() []byte {
	p.ln.Close()
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.received...)
}

// flakyConn fails every write without touching the socket.
type flakyConn struct {
	net.Conn
}

func (c *flakyConn) Write(b []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

// scriptedDialer dials the real address but wraps the connections whose
// 1-based dial number is listed in flaky.
type scriptedDialer struct {
	mu       sync.Mutex
	dials    int
	flaky    map[int]bool
	failDial map[int]bool
}

func (d *scriptedDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	d.mu.Lock()
	d.dials++
	n := d.dials
	d.mu.Unlock()

	if d.failDial[n] {
		return nil, errors.New("connection refused")
	}
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	if d.flaky[n] {
		return &flakyConn{Conn: conn}, nil
	}
	return conn, nil
}

func TestResolveAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bridge.local", "bridge.local:5000"},
		{"bridge.local:7000", "bridge.local:7000"},
		{"10.0.0.5", "10.0.0.5:5000"},
		{"10.0.0.5:", "10.0.0.5:5000"},
		{"[::1]:6000", "[::1]:6000"},
	}
	for _, tt := range tests {
		if got := ResolveAddress(tt.in); got != tt.want {
			t.Errorf("ResolveAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpen_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = Open(context.Background(), addr, Options{DialTimeout: time.Second}, log.NewNoopLogger())
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("Open() error = %v, want ErrConnection", err)
	}
}

func TestTransport_Write(t *testing.T) {
	p := newPeer(t)
	tr, err := Open(context.Background(), p.ln.Addr().String(), Options{}, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	if tr.State() != StateConnected {
		t.Errorf("State() = %s, want Connected", tr.State())
	}

	frames := [][]byte{[]byte("\x02first\x03"), []byte("\x02second\x03")}
	for _, f := range frames {
		if err := tr.Write(context.Background(), f); err != nil {
			t.Fatalf("Write() unexpected error: %v", err)
		}
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	got := p.wait()
	if want := bytes.Join(frames, nil); !bytes.Equal(got, want) {
		t.Errorf("peer received %q, want %q", got, want)
	}
}

func TestTransport_ReconnectsOnceAndDeliversOnce(t *testing.T) {
	p := newPeer(t)
	d := &scriptedDialer{flaky: map[int]bool{1: true}}

	tr, err := Open(context.Background(), p.ln.Addr().String(), Options{Dial: d.Dial}, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}

	frame := []byte("\x02frame\x03")
	if err := tr.Write(context.Background(), frame); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if d.dials != 2 {
		t.Errorf("dials = %d, want 2 (initial + one reconnect)", d.dials)
	}
	if tr.State() != StateConnected {
		t.Errorf("State() = %s, want Connected", tr.State())
	}
	tr.Close()

	if got := p.wait(); !bytes.Equal(got, frame) {
		t.Errorf("peer received %q, want exactly one %q", got, frame)
	}
}

func TestTransport_SecondFailurePropagates(t *testing.T) {
	p := newPeer(t)
	d := &scriptedDialer{flaky: map[int]bool{1: true, 2: true, 3: true}}

	tr, err := Open(context.Background(), p.ln.Addr().String(), Options{Dial: d.Dial}, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}

	err = tr.Write(context.Background(), []byte("x"))
	if !errors.Is(err, domain.ErrTransportWrite) {
		t.Fatalf("Write() error = %v, want ErrTransportWrite", err)
	}
	if d.dials != 2 {
		t.Errorf("dials = %d, want 2 (no more than one reconnect)", d.dials)
	}
	if tr.State() != StateDisconnected {
		t.Errorf("State() = %s, want Disconnected", tr.State())
	}

	if got := p.wait(); len(got) != 0 {
		t.Errorf("peer received %q, want nothing", got)
	}
}

func TestTransport_ReconnectDialFailurePropagates(t *testing.T) {
	p := newPeer(t)
	d := &scriptedDialer{flaky: map[int]bool{1: true}, failDial: map[int]bool{2: true}}

	tr, err := Open(context.Background(), p.ln.Addr().String(), Options{Dial: d.Dial}, log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Write(context.Background(), []byte("x")); !errors.Is(err, domain.ErrTransportWrite) {
		t.Fatalf("Write() error = %v, want ErrTransportWrite", err)
	}

	// The next write starts from Disconnected and reconnects on its own.
	if err := tr.Write(context.Background(), []byte("y")); err != nil {
		t.Fatalf("Write() after recovery unexpected error: %v", err)
	}
	tr.Close()

	if got := p.wait(); string(got) != "y" {
		t.Errorf("peer received %q, want %q", got, "y")
	}
}

func TestTransport_WriteAfterClose(t *testing.T) {
	p := newPeer(t)
	d := &scriptedDialer{}

	tr, err := Open(context.Background(), p.ln.Addr().String(), Options{Dial: d.Dial}, log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	err = tr.Write(context.Background(), []byte("x"))
	if !errors.Is(err, domain.ErrTransportWrite) || !errors.Is(err, domain.ErrClosed) {
		t.Fatalf("Write() after Close error = %v, want ErrTransportWrite and ErrClosed", err)
	}
	if d.dials != 1 {
		t.Errorf("dials = %d, want 1 (no reconnect after Close)", d.dials)
	}
	if got := p.wait(); len(got) != 0 {
		t.Errorf("peer received %q, want nothing", got)
	}
}

func TestTransport_BackoffUsesSleeper(t *testing.T) {
	p := newPeer(t)
	d := &scriptedDialer{flaky: map[int]bool{1: true}}
	var slept []time.Duration

	tr, err := Open(context.Background(), p.ln.Addr().String(), Options{
		Dial:    d.Dial,
		Policy:  ReconnectPolicy{MaxAttempts: 1, Backoff: 250 * time.Millisecond},
		Sleeper: sleeperFunc(func(d time.Duration) { slept = append(slept, d) }),
	}, log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Write(context.Background(), []byte("x")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	tr.Close()
	p.wait()

	if len(slept) != 1 || slept[0] != 250*time.Millisecond {
		t.Errorf("slept = %v, want [250ms]", slept)
	}
}

type sleeperFunc func(time.Duration)

func (f sleeperFunc) Sleep(d time.Duration) { f(d) }

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDisconnected, "Disconnected"},
		{StateConnected, "Connected"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}
