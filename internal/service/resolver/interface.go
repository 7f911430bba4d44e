package resolver

import (
	"context"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
)

type (
	// MappingStore reads the persisted reverse-mapping artifact.
	MappingStore interface {
		LoadMappings(ctx context.Context) ([]models.ConstraintMapping, error)
	}

	// ListAPI is the live-lookup surface of the upstream platform used as
	// the fallback path when an id is absent from the cached table.
	ListAPI interface {
		DriverList(ctx context.Context, tenant string) ([]models.ConstraintMapping, error)
		VehicleList(ctx context.Context, tenant string) ([]models.ConstraintMapping, error)
	}
)
