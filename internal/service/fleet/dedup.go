package fleet

import (
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
)

// dedupInventory merges the concatenated inventory of all tenants into one
// record per external callsign. Internal ids are tenant-scoped, so the
// callsign is the only stable merge key.
//
// Inactive and suspended vehicles are excluded before merging. When two
// records share a callsign, the one with the strictly larger internal id
// wins; the reduction is pairwise, so the result does not depend on input
// order.
func dedupInventory(records []models.VehicleInventoryRecord) map[string]models.VehicleInventoryRecord {
	merged := make(map[string]models.VehicleInventoryRecord, len(records))

	for _, rec := range records {
		if !rec.Active || rec.Suspended {
			continue
		}

		existing, ok := merged[rec.Callsign]
		if !ok || rec.ID > existing.ID {
			merged[rec.Callsign] = rec
		}
	}

	return merged
}
