package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
)

type fakeStore struct {
	mappings []models.ConstraintMapping
	err      error
}

func (f *fakeStore) LoadMappings(_ context.Context) ([]models.ConstraintMapping, error) {
	return f.mappings, f.err
}

type fakeListAPI struct {
	drivers  map[string][]models.ConstraintMapping
	vehicles map[string][]models.ConstraintMapping

	driverCalls int
}

func (f *fakeListAPI) DriverList(_ context.Context, tenant string) ([]models.ConstraintMapping, error) {
	f.driverCalls++
	if list, ok := f.drivers[tenant]; ok {
		return list, nil
	}
	return nil, errors.New("tenant unavailable")
}

func (f *fakeListAPI) VehicleList(_ context.Context, tenant string) ([]models.ConstraintMapping, error) {
	if list, ok := f.vehicles[tenant]; ok {
		return list, nil
	}
	return nil, errors.New("tenant unavailable")
}

func testConfig(overridesPath string, tenants ...string) config.Config {
	return config.Config{
		App:      config.AppConfig{ServiceName: "fleet-test"},
		Dispatch: config.DispatchConfig{Tenants: tenants},
		Resolver: config.ResolverConfig{
			FallbackTimeout: time.Second,
			OverridesPath:   overridesPath,
		},
	}
}

func newTestService(t *testing.T, store MappingStore, api ListAPI, overridesPath string, tenants ...string) *Service {
	t.Helper()

	log := logger.InitLogger("resolver-test", logger.LevelError)
	s, err := New(store, api, testConfig(overridesPath, tenants...), log)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return s
}

func TestResolve_CachedTableHit(t *testing.T) {
	store := &fakeStore{mappings: []models.ConstraintMapping{
		{Kind: types.ConstraintDriver, ID: 4811, Callsign: "45", Name: "J Smith"},
		{Kind: types.ConstraintVehicle, ID: 902, Callsign: "301"},
	}}
	api := &fakeListAPI{}
	s := newTestService(t, store, api, "", "alpha")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	r, ok := s.Resolve(context.Background(), 4811, types.ConstraintDriver)
	if !ok || r.Callsign != "45" || r.Name != "J Smith" {
		t.Fatalf("table hit failed: %+v ok=%v", r, ok)
	}

	r, ok = s.Resolve(context.Background(), 902, types.ConstraintVehicle)
	if !ok || r.Callsign != "301" {
		t.Fatalf("vehicle table hit failed: %+v ok=%v", r, ok)
	}

	if api.driverCalls != 0 {
		t.Fatalf("table hit must not reach the live fallback, got %d calls", api.driverCalls)
	}
}

// Kinds are separate namespaces: a driver id must not resolve to a vehicle.
func TestResolve_KindsDoNotCollide(t *testing.T) {
	store := &fakeStore{mappings: []models.ConstraintMapping{
		{Kind: types.ConstraintDriver, ID: 7, Callsign: "45"},
	}}
	s := newTestService(t, store, &fakeListAPI{}, "")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if _, ok := s.Resolve(context.Background(), 7, types.ConstraintVehicle); ok {
		t.Fatalf("vehicle lookup matched a driver id")
	}
}

func TestResolve_OverrideBeforeLiveFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	contents := `{"drivers": {"4811": {"callsign": "45", "name": "J Smith"}}}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}

	api := &fakeListAPI{}
	s := newTestService(t, &fakeStore{}, api, path, "alpha")

	r, ok := s.Resolve(context.Background(), 4811, types.ConstraintDriver)
	if !ok || r.Callsign != "45" {
		t.Fatalf("override not applied: %+v ok=%v", r, ok)
	}
	if api.driverCalls != 0 {
		t.Fatalf("override hit must not reach the live fallback")
	}
}

func TestResolve_LiveFallback(t *testing.T) {
	api := &fakeListAPI{drivers: map[string][]models.ConstraintMapping{
		"beta": {{Kind: types.ConstraintDriver, ID: 4811, Callsign: "45", Name: "J Smith"}},
	}}
	s := newTestService(t, &fakeStore{}, api, "", "alpha", "beta")

	r, ok := s.Resolve(context.Background(), 4811, types.ConstraintDriver)
	if !ok || r.Callsign != "45" {
		t.Fatalf("live fallback failed: %+v ok=%v", r, ok)
	}
}

func TestResolve_MissEverywhere(t *testing.T) {
	s := newTestService(t, &fakeStore{}, &fakeListAPI{}, "", "alpha")

	if _, ok := s.Resolve(context.Background(), 31337, types.ConstraintDriver); ok {
		t.Fatalf("expected unresolved")
	}
}

func TestRefresh_SwapsWholesale(t *testing.T) {
	store := &fakeStore{mappings: []models.ConstraintMapping{
		{Kind: types.ConstraintDriver, ID: 1, Callsign: "10"},
	}}
	s := newTestService(t, store, &fakeListAPI{}, "")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	store.mappings = []models.ConstraintMapping{
		{Kind: types.ConstraintDriver, ID: 2, Callsign: "20"},
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}

	if _, ok := s.Resolve(context.Background(), 1, types.ConstraintDriver); ok {
		t.Fatalf("stale entry survived the swap")
	}
	if r, ok := s.Resolve(context.Background(), 2, types.ConstraintDriver); !ok || r.Callsign != "20" {
		t.Fatalf("fresh entry missing: %+v ok=%v", r, ok)
	}
}

func TestRefresh_FailureKeepsCurrentTable(t *testing.T) {
	store := &fakeStore{mappings: []models.ConstraintMapping{
		{Kind: types.ConstraintDriver, ID: 1, Callsign: "10"},
	}}
	s := newTestService(t, store, &fakeListAPI{}, "")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	store.err = errors.New("db down")
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}

	if r, ok := s.Resolve(context.Background(), 1, types.ConstraintDriver); !ok || r.Callsign != "10" {
		t.Fatalf("previous generation must survive a failed refresh: %+v ok=%v", r, ok)
	}
}
