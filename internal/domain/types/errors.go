package types

import "errors"

var (
	// ErrNoInventoryData means no tenant returned inventory at all. It is the
	// only failure an aggregation pass propagates to callers.
	ErrNoInventoryData = errors.New("no tenant returned vehicle inventory")

	ErrVehicleNotFound = errors.New("vehicle not found in snapshot")

	ErrNotFound = errors.New("requested item not found")
)
