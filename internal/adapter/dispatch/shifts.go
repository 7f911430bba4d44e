package dispatch

import (
	"context"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
)

type shiftPayload struct {
	DriverID        int64     `json:"driverId"`
	DriverCallsign  string    `json:"driverCallsign"`
	DriverName      string    `json:"driverName"`
	VehicleCallsign string    `json:"vehicleCallsign"`
	Started         time.Time `json:"started"`
	CashJobs        int       `json:"cashJobs"`
	AccountJobs     int       `json:"accountJobs"`
}

// LiveShifts returns one tenant's currently-active driver shifts.
func (c *Client) LiveShifts(ctx context.Context, tenant string) ([]models.ShiftRecord, error) {
	const op = "dispatch.LiveShifts"

	var payload []shiftPayload
	if err := c.getJSON(ctx, tenant, "/drivers/shifts/live", &payload); err != nil {
		return nil, opErr(op, err)
	}

	records := make([]models.ShiftRecord, 0, len(payload))
	for _, s := range payload {
		records = append(records, models.ShiftRecord{
			Tenant:          tenant,
			DriverID:        s.DriverID,
			DriverCallsign:  s.DriverCallsign,
			DriverName:      s.DriverName,
			VehicleCallsign: s.VehicleCallsign,
			Started:         s.Started,
			CashJobs:        s.CashJobs,
			AccountJobs:     s.AccountJobs,
		})
	}
	return records, nil
}
