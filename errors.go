package centronic

import "github.com/bft-labs/centronic/internal/domain"

// Errors returned by Centronic. Check them with errors.Is.
var (
	ErrConnection        = domain.ErrConnection
	ErrTransportWrite    = domain.ErrTransportWrite
	ErrNoDevice          = domain.ErrNoDevice
	ErrInvalidChannel    = domain.ErrInvalidChannel
	ErrInvalidCommand    = domain.ErrInvalidCommand
	ErrUnitNotFound      = domain.ErrUnitNotFound
	ErrUnitNotPaired     = domain.ErrUnitNotPaired
	ErrCounterRegression = domain.ErrCounterRegression
	ErrClosed            = domain.ErrClosed
)
