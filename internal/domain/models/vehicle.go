package models

import (
	"time"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

// VehicleInventoryRecord is a vehicle's identity as one tenant publishes it.
// Internal ids are tenant-scoped and collide across tenants; the callsign is
// the stable human-facing handle.
type VehicleInventoryRecord struct {
	Tenant       string // tenant the record came from
	ID           int64  // internal numeric id, tenant-scoped
	Callsign     string // external callsign, e.g. "301"
	Make         string
	Model        string
	Registration string
	Active       bool
	Suspended    bool
}

// StatusRecord carries the raw per-vehicle operational signals of one tenant.
// StatusType is an open enumeration owned by the upstream platform.
type StatusRecord struct {
	Tenant             string
	VehicleID          int64
	Callsign           string // fallback correlation key, may be empty
	StatusType         string
	AtPickup           bool
	DispatchInProgress bool
	HasPrebookings     bool
	InDestinationMode  bool
	HasPenalty         bool
	SoonToClear        bool

	DestinationModeTimeRemaining *time.Duration
	QueuePosition                *int
	ZoneID                       *int64
	ZoneName                     string
	TimeEnteredZone              *time.Time
}

// GpsRecord is a raw position report. Empty flag, zero coordinates or a point
// outside the configured envelope all mean "no position", never an error.
type GpsRecord struct {
	Tenant    string
	VehicleID int64
	Latitude  float64
	Longitude float64
	Empty     bool // upstream "no fix" flag
}

// Position is a validated coordinate pair attached to a canonical vehicle.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CanonicalVehicle is the engine's unified per-callsign output record. It
// lives for one snapshot only; the assembler exclusively owns its
// construction.
type CanonicalVehicle struct {
	Callsign     string            `json:"callsign"`
	Make         string            `json:"make,omitempty"`
	Model        string            `json:"model,omitempty"`
	Registration string            `json:"registration,omitempty"`
	StatusColor  types.StatusColor `json:"status_color"`

	Position *Position `json:"position,omitempty"` // nil when no valid fix

	DriverName     string `json:"driver_name,omitempty"`
	DriverCallsign string `json:"driver_callsign,omitempty"`

	QueuePosition   *int       `json:"queue_position,omitempty"`
	ZoneName        string     `json:"zone_name,omitempty"`
	TimeEnteredZone *time.Time `json:"time_entered_zone,omitempty"`

	CashJobs           int       `json:"cash_jobs"`
	AccountJobs        int       `json:"account_jobs"`
	ShiftStart         time.Time `json:"shift_start"`
	ShiftDurationHours float64   `json:"shift_duration_hours"`
}

// Snapshot is one complete aggregation result.
type Snapshot struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Vehicles    []CanonicalVehicle `json:"vehicles"`
}
