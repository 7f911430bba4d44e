package resolver

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/arlan-b/fleet-snapshot-system/pkg/metrics"
)

// mappingKey identifies one constraint id within its kind.
type mappingKey struct {
	kind types.ConstraintKind
	id   int64
}

// mappingTable is one immutable generation of the reverse-mapping table.
// Refresh builds a fresh table and publishes it wholesale; readers in flight
// keep the generation they started with.
type mappingTable struct {
	entries map[mappingKey]models.Resolution
}

/*
Service resolves opaque internal identifiers to external callsigns and names.

Resolution order: the cached table built from the persisted artifact, then
the hand-confirmed override pairs, then a live per-tenant lookup bounded by a
short timeout. A miss everywhere is "unresolved" and the caller must render a
placeholder rather than fabricate a value.
*/
type Service struct {
	store     MappingStore
	api       ListAPI
	tenants   []string
	overrides map[mappingKey]models.Resolution

	table atomic.Pointer[mappingTable]

	cfg config.ResolverConfig
	l   logger.Logger

	serviceName string
}

func New(store MappingStore, api ListAPI, cfg config.Config, l logger.Logger) (*Service, error) {
	overrides, err := loadOverrides(cfg.Resolver.OverridesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load resolver overrides: %w", err)
	}

	s := &Service{
		store:       store,
		api:         api,
		tenants:     cfg.Dispatch.Tenants,
		overrides:   overrides,
		cfg:         cfg.Resolver,
		l:           l,
		serviceName: cfg.App.ServiceName,
	}
	s.table.Store(&mappingTable{entries: map[mappingKey]models.Resolution{}})

	return s, nil
}

// Refresh replaces the cached table with a freshly loaded generation.
func (s *Service) Refresh(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionResolverRefresh)

	mappings, err := s.store.LoadMappings(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to load constraint mappings: %w", err))
	}

	entries := make(map[mappingKey]models.Resolution, len(mappings))
	for _, m := range mappings {
		entries[mappingKey{m.Kind, m.ID}] = models.Resolution{
			Callsign: m.Callsign,
			Name:     m.Name,
		}
	}

	s.table.Store(&mappingTable{entries: entries})

	s.l.Info(ctx, "constraint mapping table refreshed", "entries", len(entries))

	return nil
}

// RunRefreshLoop refreshes the table on the configured interval until the
// context is cancelled.
func (s *Service) RunRefreshLoop(ctx context.Context) {
	if s.cfg.RefreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.l.Warn(ctx, "scheduled mapping refresh failed", "err", err.Error())
			}
		}
	}
}

// Resolve looks an id up in the cached table, then the overrides, then the
// live tenant lists. The second return value is false when the id resolved
// nowhere.
func (s *Service) Resolve(ctx context.Context, id int64, kind types.ConstraintKind) (models.Resolution, bool) {
	key := mappingKey{kind, id}

	if r, ok := s.table.Load().entries[key]; ok {
		return r, true
	}

	if r, ok := s.overrides[key]; ok {
		return r, true
	}

	if r, ok := s.resolveLive(ctx, id, kind); ok {
		return r, true
	}

	metrics.UnresolvedConstraintsTotal.WithLabelValues(s.serviceName, kind.String()).Inc()
	s.l.Warn(ctx, "constraint id resolved nowhere", "id", id, "kind", kind.String())

	return models.Resolution{}, false
}

// resolveLive walks the tenants in order and stops at the first list that
// contains the id. Each tenant call gets its own short timeout so a slow
// tenant cannot stall an entire snapshot. The result is not written back
// into the cached table; the next scheduled Refresh picks it up.
func (s *Service) resolveLive(ctx context.Context, id int64, kind types.ConstraintKind) (models.Resolution, bool) {
	for _, tenant := range s.tenants {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.FallbackTimeout)

		var (
			mappings []models.ConstraintMapping
			err      error
		)
		switch kind {
		case types.ConstraintDriver:
			mappings, err = s.api.DriverList(callCtx, tenant)
		case types.ConstraintVehicle:
			mappings, err = s.api.VehicleList(callCtx, tenant)
		}
		cancel()

		if err != nil {
			s.l.Debug(ctx, "live lookup failed", "tenant", tenant, "kind", kind.String(), "err", err.Error())
			continue
		}

		for _, m := range mappings {
			if m.ID == id {
				return models.Resolution{Callsign: m.Callsign, Name: m.Name}, true
			}
		}
	}

	return models.Resolution{}, false
}
