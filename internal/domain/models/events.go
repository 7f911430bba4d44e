package models

import "time"

// SnapshotEvent is the RabbitMQ message published after a pass produced a snapshot
// that differs from the previous one. Downstream dispatch logic consumes it
// instead of polling the HTTP API.
type SnapshotEvent struct {
	GeneratedAt  time.Time `json:"generated_at"`
	VehicleCount int       `json:"vehicle_count"`
	Green        int       `json:"green"`
	Yellow       int       `json:"yellow"`
	Red          int       `json:"red"`
	Gray         int       `json:"gray"`
}
