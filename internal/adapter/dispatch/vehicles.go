package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
)

type vehiclePayload struct {
	ID           int64  `json:"id"`
	Callsign     string `json:"callsign"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Registration string `json:"registration"`
	Active       bool   `json:"isActive"`
	Suspended    bool   `json:"isSuspended"`
}

// Vehicles returns one tenant's vehicle inventory.
func (c *Client) Vehicles(ctx context.Context, tenant string) ([]models.VehicleInventoryRecord, error) {
	const op = "dispatch.Vehicles"

	var payload []vehiclePayload
	if err := c.getJSON(ctx, tenant, "/vehicles", &payload); err != nil {
		return nil, opErr(op, err)
	}

	records := make([]models.VehicleInventoryRecord, 0, len(payload))
	for _, v := range payload {
		records = append(records, models.VehicleInventoryRecord{
			Tenant:       tenant,
			ID:           v.ID,
			Callsign:     v.Callsign,
			Make:         v.Make,
			Model:        v.Model,
			Registration: v.Registration,
			Active:       v.Active,
			Suspended:    v.Suspended,
		})
	}
	return records, nil
}

type statusPayload struct {
	VehicleID          int64           `json:"vehicleId"`
	Callsign           string          `json:"vehicleCallsign"`
	StatusType         string          `json:"vehicleStatusType"`
	AtPickup           bool            `json:"atPickupAddress"`
	DispatchInProgress bool            `json:"dispatchInProgress"`
	HasPrebookings     bool            `json:"hasPrebookings"`
	InDestinationMode  bool            `json:"inDestinationMode"`
	Penalty            json.RawMessage `json:"penalty"` // opaque, presence only
	SoonToClear        bool            `json:"isSoonToClear"`

	DestinationModeSecondsRemaining *int64     `json:"destinationModeSecondsRemaining"`
	QueuePosition                   *int       `json:"queuePosition"`
	ZoneID                          *int64     `json:"zoneId"`
	ZoneName                        string     `json:"zoneName"`
	TimeEnteredZone                 *time.Time `json:"timeEnteredZone"`
}

// VehicleStatuses returns one tenant's live vehicle status signals.
func (c *Client) VehicleStatuses(ctx context.Context, tenant string) ([]models.StatusRecord, error) {
	const op = "dispatch.VehicleStatuses"

	var payload []statusPayload
	if err := c.getJSON(ctx, tenant, "/vehicles/statuses", &payload); err != nil {
		return nil, opErr(op, err)
	}

	records := make([]models.StatusRecord, 0, len(payload))
	for _, s := range payload {
		rec := models.StatusRecord{
			Tenant:             tenant,
			VehicleID:          s.VehicleID,
			Callsign:           s.Callsign,
			StatusType:         s.StatusType,
			AtPickup:           s.AtPickup,
			DispatchInProgress: s.DispatchInProgress,
			HasPrebookings:     s.HasPrebookings,
			InDestinationMode:  s.InDestinationMode,
			HasPenalty:         len(s.Penalty) > 0 && string(s.Penalty) != "null",
			SoonToClear:        s.SoonToClear,
			QueuePosition:      s.QueuePosition,
			ZoneID:             s.ZoneID,
			ZoneName:           s.ZoneName,
			TimeEnteredZone:    s.TimeEnteredZone,
		}
		if s.DestinationModeSecondsRemaining != nil {
			d := time.Duration(*s.DestinationModeSecondsRemaining) * time.Second
			rec.DestinationModeTimeRemaining = &d
		}
		records = append(records, rec)
	}
	return records, nil
}

type gpsPayload struct {
	VehicleID int64 `json:"vehicleId"`
	Location  struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Empty     bool    `json:"isEmpty"`
	} `json:"location"`
}

// VehiclePositions returns one tenant's raw GPS reports.
func (c *Client) VehiclePositions(ctx context.Context, tenant string) ([]models.GpsRecord, error) {
	const op = "dispatch.VehiclePositions"

	var payload []gpsPayload
	if err := c.getJSON(ctx, tenant, "/vehicles/gps", &payload); err != nil {
		return nil, opErr(op, err)
	}

	records := make([]models.GpsRecord, 0, len(payload))
	for _, g := range payload {
		records = append(records, models.GpsRecord{
			Tenant:    tenant,
			VehicleID: g.VehicleID,
			Latitude:  g.Location.Latitude,
			Longitude: g.Location.Longitude,
			Empty:     g.Location.Empty,
		})
	}
	return records, nil
}
