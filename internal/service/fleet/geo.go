package fleet

import (
	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
)

// Bounds is the geographic envelope a position must fall inside to count as
// a real fix.
type Bounds struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

func BoundsFromConfig(cfg config.GeoConfig) Bounds {
	return Bounds{
		MinLatitude:  cfg.MinLatitude,
		MaxLatitude:  cfg.MaxLatitude,
		MinLongitude: cfg.MinLongitude,
		MaxLongitude: cfg.MaxLongitude,
	}
}

// Filter validates one raw GPS report. It returns nil for a no-fix flag,
// exact-zero coordinates or a point outside the envelope. Absence of a
// position is a normal state for a vehicle, never an error.
func (b Bounds) Filter(rec models.GpsRecord) *models.Position {
	if rec.Empty {
		return nil
	}
	if rec.Latitude == 0 || rec.Longitude == 0 {
		return nil
	}
	if rec.Latitude < b.MinLatitude || rec.Latitude > b.MaxLatitude {
		return nil
	}
	if rec.Longitude < b.MinLongitude || rec.Longitude > b.MaxLongitude {
		return nil
	}

	return &models.Position{
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
	}
}
