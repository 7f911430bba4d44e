package models

import "time"

// RosterEntry is an externally authored authorization record pairing a
// licensed driver with a vehicle. The roster source is replaced wholesale and
// never mutated by this engine.
type RosterEntry struct {
	DriverCallsign  string
	DriverName      string
	Company         string
	VehicleCallsign string
	LastLogon       time.Time
}
