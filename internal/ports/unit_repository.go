package ports

import (
	"context"

	"github.com/bft-labs/centronic/internal/domain"
)

// UnitRepository persists transmitter units.
// Implementations must make Set durable before returning.
type UnitRepository interface {
	// Get returns the unit with the given id.
	// Returns domain.ErrUnitNotFound if it does not exist.
	Get(ctx context.Context, id int) (domain.Unit, error)

	// GetAll returns every unit ordered by id.
	GetAll(ctx context.Context) ([]domain.Unit, error)

	// Set stores the unit's counter and paired flag.
	// When dryRun is true nothing is written.
	Set(ctx context.Context, unit domain.Unit, dryRun bool) error

	// InitDummy seeds one placeholder unit if the repository is empty.
	InitDummy(ctx context.Context) error
}
