package domain

import "errors"

// Domain errors represent error conditions in the centronic domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrConnection is returned when the transmitter device cannot be opened.
	ErrConnection = errors.New("centronic: connection failed")

	// ErrTransportWrite is returned when a frame could not be written.
	ErrTransportWrite = errors.New("centronic: transport write failed")

	// ErrNoDevice is returned when no device address was configured.
	ErrNoDevice = errors.New("centronic: no device defined")

	// ErrInvalidChannel is returned for malformed or out-of-range channel addresses.
	ErrInvalidChannel = errors.New("centronic: channel must be in range of 1-7 or 15")

	// ErrInvalidCommand is returned for unknown command keywords.
	ErrInvalidCommand = errors.New("centronic: invalid command")

	// ErrUnitNotFound is returned when a unit id is not in the store.
	ErrUnitNotFound = errors.New("centronic: unit not found")

	// ErrUnitNotPaired is returned when a non-pairing command targets an unpaired unit.
	ErrUnitNotPaired = errors.New("centronic: unit is not configured")

	// ErrCounterRegression is returned when a counter would move backwards.
	ErrCounterRegression = errors.New("centronic: counter regression")

	// ErrInvalidFrame is returned when frame fields do not fit the wire layout.
	ErrInvalidFrame = errors.New("centronic: invalid frame")

	// ErrClosed is returned when an operation is attempted on a closed transport.
	ErrClosed = errors.New("centronic: closed")
)
