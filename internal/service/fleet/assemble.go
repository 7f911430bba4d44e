package fleet

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

// recordKey qualifies a tenant-scoped internal id so ids from different
// tenants never collide in one index.
type recordKey struct {
	tenant string
	id     int64
}

// assemble composes the fetched resources into the canonical vehicle set.
// Pure transformation over already-fetched data; the assembler is the only
// component that constructs CanonicalVehicle values.
func (s *Service) assemble(ctx context.Context, res *fetchResult) *models.Snapshot {
	now := s.now()

	vehicles := dedupInventory(res.inventory)

	statusByKey := make(map[recordKey]*models.StatusRecord, len(res.statuses))
	statusByCallsign := make(map[string][]*models.StatusRecord)
	for i := range res.statuses {
		rec := &res.statuses[i]
		statusByKey[recordKey{rec.Tenant, rec.VehicleID}] = rec
		if rec.Callsign != "" {
			statusByCallsign[rec.Callsign] = append(statusByCallsign[rec.Callsign], rec)
		}
	}

	positionByKey := make(map[recordKey]*models.Position, len(res.positions))
	for _, rec := range res.positions {
		if pos := s.bounds.Filter(rec); pos != nil {
			positionByKey[recordKey{rec.Tenant, rec.VehicleID}] = pos
		}
	}

	// The later shift start wins when several tenants report a shift for the
	// same vehicle, so the merge stays order-independent.
	shiftByVehicle := make(map[string]models.ShiftRecord, len(res.shifts))
	for _, shift := range res.shifts {
		existing, ok := shiftByVehicle[shift.VehicleCallsign]
		if !ok || shiftWins(shift, existing) {
			shiftByVehicle[shift.VehicleCallsign] = shift
		}
	}

	out := make([]models.CanonicalVehicle, 0, len(vehicles))
	for callsign, inv := range vehicles {
		// Only vehicles whose driver is currently on shift are in the fleet.
		shift, onShift := shiftByVehicle[callsign]
		if !onShift {
			continue
		}

		entry, authorized := s.roster.Match(callsign)
		if s.roster.Loaded() && !authorized {
			continue
		}

		status, ok := statusByKey[recordKey{inv.Tenant, inv.ID}]
		if !ok {
			status = pickStatus(statusByCallsign[callsign], inv.Tenant)
		}

		cv := models.CanonicalVehicle{
			Callsign:     callsign,
			Make:         inv.Make,
			Model:        inv.Model,
			Registration: inv.Registration,
			StatusColor:  Classify(status),

			Position: positionByKey[recordKey{inv.Tenant, inv.ID}],

			CashJobs:           shift.CashJobs,
			AccountJobs:        shift.AccountJobs,
			ShiftStart:         shift.Started,
			ShiftDurationHours: roundHours(now.Sub(shift.Started)),
		}

		if status != nil {
			cv.QueuePosition = status.QueuePosition
			cv.ZoneName = status.ZoneName
			cv.TimeEnteredZone = status.TimeEnteredZone
		}

		cv.DriverName, cv.DriverCallsign = s.driverIdentity(ctx, shift, entry, authorized)

		out = append(out, cv)
	}

	slices.SortFunc(out, func(a, b models.CanonicalVehicle) int {
		return strings.Compare(a.Callsign, b.Callsign)
	})

	return &models.Snapshot{
		GeneratedAt: now,
		Vehicles:    out,
	}
}

// pickStatus chooses one status out of the callsign-fallback candidates.
// The fetch appends records in goroutine completion order, so the choice
// must not depend on slice order: a status from the tenant that won the
// inventory merge beats any other, then the lexicographically smaller
// tenant wins, then the larger vehicle id.
func pickStatus(candidates []*models.StatusRecord, tenant string) *models.StatusRecord {
	var best *models.StatusRecord
	for _, c := range candidates {
		if best == nil || statusWins(c, best, tenant) {
			best = c
		}
	}
	return best
}

func statusWins(a, b *models.StatusRecord, tenant string) bool {
	if (a.Tenant == tenant) != (b.Tenant == tenant) {
		return a.Tenant == tenant
	}
	if a.Tenant != b.Tenant {
		return a.Tenant < b.Tenant
	}
	return a.VehicleID > b.VehicleID
}

// shiftWins reports whether shift a replaces shift b for the same vehicle.
// The later start wins; an exact tie breaks on tenant name and driver id so
// the outcome never depends on fetch order.
func shiftWins(a, b models.ShiftRecord) bool {
	if !a.Started.Equal(b.Started) {
		return a.Started.After(b.Started)
	}
	if a.Tenant != b.Tenant {
		return a.Tenant < b.Tenant
	}
	return a.DriverID > b.DriverID
}

// driverIdentity picks the driver's display identity for one vehicle. The
// shift is the primary source, the roster entry fills gaps, and the
// constraint resolver handles shifts that carry only an internal driver id.
// An identity that resolves nowhere stays empty; never guess a value.
func (s *Service) driverIdentity(
	ctx context.Context,
	shift models.ShiftRecord,
	entry models.RosterEntry,
	authorized bool,
) (name, callsign string) {
	name = shift.DriverName
	callsign = shift.DriverCallsign

	if callsign == "" && shift.DriverID != 0 {
		if r, ok := s.resolver.Resolve(ctx, shift.DriverID, types.ConstraintDriver); ok {
			callsign = r.Callsign
			if name == "" {
				name = r.Name
			}
		}
	}

	if authorized {
		if name == "" {
			name = entry.DriverName
		}
		if callsign == "" {
			callsign = entry.DriverCallsign
		}
	}

	return name, callsign
}

// roundHours converts a shift duration to hours, one decimal.
func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*10) / 10
}
