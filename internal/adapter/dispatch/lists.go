package dispatch

import (
	"context"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

// The list endpoints back the constraint resolver's live fallback path. They
// return the full tenant roster keyed by internal id, so a single match is
// enough to resolve an opaque identifier.

type driverListPayload struct {
	ID       int64  `json:"id"`
	Callsign string `json:"callsign"`
	FullName string `json:"fullName"`
}

// DriverList returns one tenant's full driver list.
func (c *Client) DriverList(ctx context.Context, tenant string) ([]models.ConstraintMapping, error) {
	const op = "dispatch.DriverList"

	var payload []driverListPayload
	if err := c.getJSON(ctx, tenant, "/drivers", &payload); err != nil {
		return nil, opErr(op, err)
	}

	mappings := make([]models.ConstraintMapping, 0, len(payload))
	for _, d := range payload {
		mappings = append(mappings, models.ConstraintMapping{
			Kind:     types.ConstraintDriver,
			ID:       d.ID,
			Callsign: d.Callsign,
			Name:     d.FullName,
		})
	}
	return mappings, nil
}

// VehicleList returns one tenant's vehicle list reduced to id/callsign pairs.
func (c *Client) VehicleList(ctx context.Context, tenant string) ([]models.ConstraintMapping, error) {
	const op = "dispatch.VehicleList"

	var payload []vehiclePayload
	if err := c.getJSON(ctx, tenant, "/vehicles", &payload); err != nil {
		return nil, opErr(op, err)
	}

	mappings := make([]models.ConstraintMapping, 0, len(payload))
	for _, v := range payload {
		mappings = append(mappings, models.ConstraintMapping{
			Kind:     types.ConstraintVehicle,
			ID:       v.ID,
			Callsign: v.Callsign,
		})
	}
	return mappings, nil
}
