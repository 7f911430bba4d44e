package fleet

import (
	"context"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/arlan-b/fleet-snapshot-system/pkg/metrics"
)

/*
Service is the fleet status aggregation engine. One call to Snapshot is one
complete pass: fan out to every tenant, merge, classify, cross-reference the
roster and assemble the canonical vehicle set. The service holds no state
between passes.
*/
type Service struct {
	api      DispatchAPI
	resolver ConstraintResolver
	roster   Roster
	bounds   Bounds

	cfg config.Config
	l   logger.Logger

	// now is swappable for tests; defaults to time.Now
	now func() time.Time
}

// New returns a new instance of the fleet service with all dependencies injected.
func New(api DispatchAPI, resolver ConstraintResolver, roster Roster, cfg config.Config, l logger.Logger) *Service {
	return &Service{
		api:      api,
		resolver: resolver,
		roster:   roster,
		bounds:   BoundsFromConfig(cfg.Geo),
		cfg:      cfg,
		l:        l,
		now:      time.Now,
	}
}

// Snapshot runs one aggregation pass and returns the canonical vehicle set.
//
// The pass tolerates any partial upstream failure except one: when zero
// tenants returned inventory there is nothing to aggregate, and the pass
// fails with ErrNoInventoryData and an empty vehicle list.
func (s *Service) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	ctx = wrap.WithAction(ctx, types.ActionAggregationPass)
	started := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Dispatch.PassDeadline)
	defer cancel()

	res := s.fetchAll(ctx)

	if res.inventoryTenants == 0 {
		err := wrap.Error(ctx, types.ErrNoInventoryData)
		metrics.RecordAggregationPass(s.cfg.App.ServiceName, err, s.now().Sub(started))
		return &models.Snapshot{GeneratedAt: s.now(), Vehicles: []models.CanonicalVehicle{}}, err
	}

	snapshot := s.assemble(ctx, res)

	metrics.RecordAggregationPass(s.cfg.App.ServiceName, nil, s.now().Sub(started))
	metrics.SnapshotVehiclesGauge.WithLabelValues(s.cfg.App.ServiceName).Set(float64(len(snapshot.Vehicles)))

	s.l.Debug(ctx, "aggregation pass completed",
		"vehicles", len(snapshot.Vehicles),
		"inventory_tenants", res.inventoryTenants,
		"duration", s.now().Sub(started),
	)

	return snapshot, nil
}

// Vehicle runs one pass and picks a single canonical vehicle out of it.
func (s *Service) Vehicle(ctx context.Context, callsign string) (*models.CanonicalVehicle, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for i := range snapshot.Vehicles {
		if snapshot.Vehicles[i].Callsign == callsign {
			return &snapshot.Vehicles[i], nil
		}
	}

	return nil, wrap.Error(wrap.WithCallsign(ctx, callsign), types.ErrVehicleNotFound)
}
