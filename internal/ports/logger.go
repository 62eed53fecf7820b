package ports

import "github.com/bft-labs/centronic/pkg/log"

// Logger is the observability port injected into the controller.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors re-exported for adapters and the application layer.
var (
	String   = log.String
	Int      = log.Int
	Uint64   = log.Uint64
	Bool     = log.Bool
	Duration = log.Duration
	Stringer = log.Stringer
	Err      = log.Err
)
