package fleet

import (
	"context"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

type (
	// DispatchAPI is the tenant-scoped surface of the upstream platform
	// consumed by one aggregation pass.
	DispatchAPI interface {
		Vehicles(ctx context.Context, tenant string) ([]models.VehicleInventoryRecord, error)
		VehicleStatuses(ctx context.Context, tenant string) ([]models.StatusRecord, error)
		VehiclePositions(ctx context.Context, tenant string) ([]models.GpsRecord, error)
		LiveShifts(ctx context.Context, tenant string) ([]models.ShiftRecord, error)
	}

	// ConstraintResolver turns opaque internal ids into external handles.
	ConstraintResolver interface {
		Resolve(ctx context.Context, id int64, kind types.ConstraintKind) (models.Resolution, bool)
	}

	// Roster is the loaded driver/vehicle authorization table.
	Roster interface {
		// Loaded reports whether a roster has ever been loaded. When it
		// has not, filtering is permissive and every vehicle passes.
		Loaded() bool
		Match(callsign string) (models.RosterEntry, bool)
	}
)
