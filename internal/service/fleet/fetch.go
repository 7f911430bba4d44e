package fleet

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/arlan-b/fleet-snapshot-system/pkg/metrics"
)

// fetchResult is everything one pass obtained from upstream. Counts of
// successful inventory calls decide whether the pass is viable at all.
type fetchResult struct {
	inventory []models.VehicleInventoryRecord
	statuses  []models.StatusRecord
	positions []models.GpsRecord
	shifts    []models.ShiftRecord

	inventoryTenants int
}

// fetchAll issues one call per (tenant, resource kind) pair, bounded by the
// configured in-flight limit. A failed or timed-out call contributes zero
// records; only the merge decides what that means for the pass.
func (s *Service) fetchAll(ctx context.Context) *fetchResult {
	res := &fetchResult{}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Dispatch.MaxInFlight)

	for _, tenant := range s.cfg.Dispatch.Tenants {
		g.Go(func() error {
			records, err := call(gctx, s, tenant, types.ResourceInventory, s.api.Vehicles)
			if err != nil {
				return nil
			}
			mu.Lock()
			res.inventory = append(res.inventory, records...)
			res.inventoryTenants++
			mu.Unlock()
			return nil
		})

		g.Go(func() error {
			records, err := call(gctx, s, tenant, types.ResourceStatus, s.api.VehicleStatuses)
			if err != nil {
				return nil
			}
			mu.Lock()
			res.statuses = append(res.statuses, records...)
			mu.Unlock()
			return nil
		})

		g.Go(func() error {
			records, err := call(gctx, s, tenant, types.ResourceGPS, s.api.VehiclePositions)
			if err != nil {
				return nil
			}
			mu.Lock()
			res.positions = append(res.positions, records...)
			mu.Unlock()
			return nil
		})

		g.Go(func() error {
			records, err := call(gctx, s, tenant, types.ResourceShifts, s.api.LiveShifts)
			if err != nil {
				return nil
			}
			mu.Lock()
			res.shifts = append(res.shifts, records...)
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; Wait only orders the joins.
	_ = g.Wait()

	return res
}

// call runs one upstream fetch with its own timeout. Failure is local: it is
// logged, counted and swallowed.
func call[T any](
	ctx context.Context,
	s *Service,
	tenant string,
	kind types.ResourceKind,
	fn func(context.Context, string) ([]T, error),
) ([]T, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Dispatch.CallTimeout)
	defer cancel()

	callCtx = wrap.WithTenant(callCtx, tenant)

	records, err := fn(callCtx, tenant)
	if err != nil {
		metrics.TenantCallFailuresTotal.WithLabelValues(s.cfg.App.ServiceName, tenant, string(kind)).Inc()
		s.l.Warn(callCtx, "upstream call failed",
			"tenant", tenant,
			"resource", string(kind),
			"err", err.Error(),
		)
		return nil, err
	}

	return records, nil
}
