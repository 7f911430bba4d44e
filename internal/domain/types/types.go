package types

// StatusColor is the canonical operational state of a vehicle on the map.
type StatusColor string

const (
	StatusGreen  StatusColor = "GREEN"  // available
	StatusYellow StatusColor = "YELLOW" // dispatched / going to client
	StatusRed    StatusColor = "RED"    // passenger aboard / at pickup
	StatusGray   StatusColor = "GRAY"   // destination mode or penalised
)

func (c StatusColor) String() string {
	return string(c)
}

// ResourceKind identifies one upstream per-tenant endpoint family.
type ResourceKind string

const (
	ResourceInventory ResourceKind = "inventory"
	ResourceStatus    ResourceKind = "status"
	ResourceGPS       ResourceKind = "gps"
	ResourceShifts    ResourceKind = "shifts"
)

// ConstraintKind selects which upstream list a constraint id belongs to.
type ConstraintKind string

const (
	ConstraintDriver  ConstraintKind = "driver"
	ConstraintVehicle ConstraintKind = "vehicle"
)

func (k ConstraintKind) String() string {
	return string(k)
}
