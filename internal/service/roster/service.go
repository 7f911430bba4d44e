package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/arlan-b/fleet-snapshot-system/pkg/metrics"
)

// rosterTable is one immutable generation of the loaded roster, keyed by
// vehicle callsign. Load builds a new table and publishes it wholesale.
type rosterTable struct {
	byVehicle map[string]models.RosterEntry
}

/*
Service holds the externally maintained driver/vehicle authorization roster.

The roster file is replaced by an outside process; Load parses it into an
immutable table and swaps the published generation atomically, so concurrent
aggregation passes always see one fully-formed roster.
*/
type Service struct {
	path        string
	serviceName string

	table atomic.Pointer[rosterTable]

	l logger.Logger
}

func New(cfg config.Config, l logger.Logger) *Service {
	return &Service{
		path:        cfg.Roster.Path,
		serviceName: cfg.App.ServiceName,
		l:           l,
	}
}

// Loaded reports whether any roster generation has been published. Until one
// has, Match-based filtering is permissive.
func (s *Service) Loaded() bool {
	return s.table.Load() != nil
}

// Match finds the roster entry for a vehicle callsign. Upstream systems are
// inconsistent about numeric zero padding, so after an exact miss the
// zero-padded ("8" -> "08") and zero-stripped ("08" -> "8") forms are tried.
func (s *Service) Match(callsign string) (models.RosterEntry, bool) {
	table := s.table.Load()
	if table == nil {
		return models.RosterEntry{}, false
	}

	if entry, ok := table.byVehicle[callsign]; ok {
		return entry, true
	}
	if padded := "0" + callsign; padded != callsign {
		if entry, ok := table.byVehicle[padded]; ok {
			return entry, true
		}
	}
	if stripped := strings.TrimLeft(callsign, "0"); stripped != "" && stripped != callsign {
		if entry, ok := table.byVehicle[stripped]; ok {
			return entry, true
		}
	}

	return models.RosterEntry{}, false
}

// Load parses the roster file and publishes a new generation. Duplicate
// vehicle assignments are resolved here, once, by last-logon recency: the
// later logon wins and the loser is logged for operational visibility.
func (s *Service) Load(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRosterReload)

	file, err := os.Open(s.path)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not open roster file: %w", err))
	}
	defer file.Close()

	entries, err := parseRoster(file)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not parse roster file: %w", err))
	}

	byVehicle := make(map[string]models.RosterEntry, len(entries))
	conflicts := 0
	for _, entry := range entries {
		existing, ok := byVehicle[entry.VehicleCallsign]
		if !ok {
			byVehicle[entry.VehicleCallsign] = entry
			continue
		}

		conflicts++
		winner, loser := entry, existing
		if existing.LastLogon.After(entry.LastLogon) {
			winner, loser = existing, entry
		}
		byVehicle[entry.VehicleCallsign] = winner

		s.l.Warn(ctx, "duplicate vehicle assignment in roster",
			"vehicle", entry.VehicleCallsign,
			"kept_driver", winner.DriverCallsign,
			"dropped_driver", loser.DriverCallsign,
		)
	}

	if conflicts > 0 {
		metrics.RosterConflictsTotal.WithLabelValues(s.serviceName).Add(float64(conflicts))
	}

	s.table.Store(&rosterTable{byVehicle: byVehicle})

	s.l.Info(ctx, "roster loaded",
		"path", s.path,
		"vehicles", len(byVehicle),
		"conflicts", conflicts,
	)

	return nil
}

// Roster CSV columns, with a header row:
// driver_callsign, driver_name, company, vehicle_callsign, last_logon (RFC 3339)
func parseRoster(r io.Reader) ([]models.RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Skip the header row
	rows = rows[1:]

	entries := make([]models.RosterEntry, 0, len(rows))
	for i, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("row %d: expected 5 columns, got %d", i+2, len(row))
		}

		lastLogon, err := time.Parse(time.RFC3339, strings.TrimSpace(row[4]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid last_logon: %w", i+2, err)
		}

		entries = append(entries, models.RosterEntry{
			DriverCallsign:  strings.TrimSpace(row[0]),
			DriverName:      strings.TrimSpace(row[1]),
			Company:         strings.TrimSpace(row[2]),
			VehicleCallsign: strings.TrimSpace(row[3]),
			LastLogon:       lastLogon,
		})
	}

	return entries, nil
}
