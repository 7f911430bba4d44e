package models

import "time"

// ShiftRecord is a currently-active driver/vehicle pairing. A vehicle with no
// live shift has no identified driver and is not part of the fleet for the
// duration of that snapshot.
type ShiftRecord struct {
	Tenant          string
	DriverID        int64  // internal driver id, used when the callsign is absent
	DriverCallsign  string // may be empty on some tenants
	DriverName      string
	VehicleCallsign string
	Started         time.Time
	CashJobs        int
	AccountJobs     int
}
