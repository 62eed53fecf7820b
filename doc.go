// Package centronic drives Becker Centronic roller shutters through a USB
// transmitter stick.
//
// The stick is reached either as a local serial device or through a TCP
// serial bridge. Every frame carries a rolling counter per transmitter unit,
// which is persisted in a small JSON store so receivers keep accepting
// commands across restarts.
//
// # Basic Usage
//
//	cfg := centronic.DefaultConfig()
//	cfg.Device = "/dev/serial/by-id/usb-BECKER-ANTRIEBE_CentronicStick"
//
//	c, err := centronic.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.MoveDown(ctx, "1:2"); err != nil {
//	    log.Print(err)
//	}
//
// # Addressing
//
// Channels are addressed as "<unit>:<channel>" or "<channel>", in which case
// unit 1 is used. Channels 1 to 7 select a single receiver channel and 15
// selects all channels of the unit. A unit of 0 sends to every known unit.
//
// # Remote sticks
//
// A Device without a path separator is treated as "host[:port]" of a serial
// bridge, port 5000 by default. A failed write is retried once on a fresh
// connection.
//
// # Dependency Injection
//
// For testing, the transport, the logger and the sleeper can be replaced:
//
//	c, err := centronic.New(cfg,
//	    centronic.WithTransport(recorder),
//	    centronic.WithLogger(logger),
//	    centronic.WithSleeper(noSleep),
//	)
package centronic
