// Package domain contains the core domain entities and value objects for centronic.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (serial ports, sockets, file
// system, logging) and contains only the rules of the Centronic protocol.
//
// # Entities
//
//   - [Unit]: A paired transmitter identity with its rolling counter
//   - [Address]: A unit/channel pair parsed from "<unit>:<channel>"
//   - [Command]: One of the closed set of shutter commands
//
// # Design Principles
//
// Domain entities are:
//   - Mutated only through accessors that keep their invariants
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
