package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

// overridesFile is the on-disk shape of the hand-confirmed pairs:
//
//	{
//	  "drivers":  {"4811": {"callsign": "45", "name": "J Smith"}},
//	  "vehicles": {"902":  {"callsign": "301"}}
//	}
//
// These exist for ids known to resolve incorrectly via the generic path.
// They are data, not code; extend the file, not this package.
type overridesFile struct {
	Drivers  map[string]overrideEntry `json:"drivers"`
	Vehicles map[string]overrideEntry `json:"vehicles"`
}

type overrideEntry struct {
	Callsign string `json:"callsign"`
	Name     string `json:"name"`
}

func loadOverrides(path string) (map[mappingKey]models.Resolution, error) {
	out := make(map[mappingKey]models.Resolution)
	if path == "" {
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read overrides file: %w", err)
	}

	var file overridesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not parse overrides file: %w", err)
	}

	if err := addOverrides(out, file.Drivers, types.ConstraintDriver); err != nil {
		return nil, err
	}
	if err := addOverrides(out, file.Vehicles, types.ConstraintVehicle); err != nil {
		return nil, err
	}

	return out, nil
}

func addOverrides(dst map[mappingKey]models.Resolution, src map[string]overrideEntry, kind types.ConstraintKind) error {
	for rawID, entry := range src {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s override id %q: %w", kind, rawID, err)
		}
		dst[mappingKey{kind, id}] = models.Resolution{
			Callsign: entry.Callsign,
			Name:     entry.Name,
		}
	}
	return nil
}
