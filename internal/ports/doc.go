// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [UnitRepository]: Persists transmitter units and their rolling counters
//   - [FrameWriter]: Writes finalized frames to the transmitter stick
//   - [Sleeper]: Waits between frames and during timed moves
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with a JSON
// file store, a tarm/serial device, a TCP socket and zerolog.
package ports
