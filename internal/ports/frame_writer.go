package ports

import "context"

// FrameWriter transmits finalized frames to the transmitter stick.
// Writes are issued by a single caller; implementations need no locking.
type FrameWriter interface {
	// Write sends one finalized frame.
	// Returns an error wrapping domain.ErrTransportWrite on failure.
	Write(ctx context.Context, frame []byte) error

	// Close releases the underlying device or connection.
	Close() error
}
