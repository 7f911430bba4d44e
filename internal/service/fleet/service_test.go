package fleet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
)

type fakeAPI struct {
	inventory map[string][]models.VehicleInventoryRecord
	statuses  map[string][]models.StatusRecord
	positions map[string][]models.GpsRecord
	shifts    map[string][]models.ShiftRecord

	failing map[string]bool // tenant -> every call fails
}

func (f *fakeAPI) Vehicles(_ context.Context, tenant string) ([]models.VehicleInventoryRecord, error) {
	if f.failing[tenant] {
		return nil, errors.New("connection refused")
	}
	return f.inventory[tenant], nil
}

func (f *fakeAPI) VehicleStatuses(_ context.Context, tenant string) ([]models.StatusRecord, error) {
	if f.failing[tenant] {
		return nil, errors.New("connection refused")
	}
	return f.statuses[tenant], nil
}

func (f *fakeAPI) VehiclePositions(_ context.Context, tenant string) ([]models.GpsRecord, error) {
	if f.failing[tenant] {
		return nil, errors.New("connection refused")
	}
	return f.positions[tenant], nil
}

func (f *fakeAPI) LiveShifts(_ context.Context, tenant string) ([]models.ShiftRecord, error) {
	if f.failing[tenant] {
		return nil, errors.New("connection refused")
	}
	return f.shifts[tenant], nil
}

type fakeResolver struct {
	drivers map[int64]models.Resolution
}

func (f *fakeResolver) Resolve(_ context.Context, id int64, kind types.ConstraintKind) (models.Resolution, bool) {
	if kind != types.ConstraintDriver {
		return models.Resolution{}, false
	}
	r, ok := f.drivers[id]
	return r, ok
}

type fakeRoster struct {
	loaded    bool
	byVehicle map[string]models.RosterEntry
}

func (f *fakeRoster) Loaded() bool { return f.loaded }

func (f *fakeRoster) Match(callsign string) (models.RosterEntry, bool) {
	entry, ok := f.byVehicle[callsign]
	return entry, ok
}

func testConfig(tenants ...string) config.Config {
	return config.Config{
		App: config.AppConfig{ServiceName: "fleet-test"},
		Dispatch: config.DispatchConfig{
			Tenants:      tenants,
			CallTimeout:  time.Second,
			PassDeadline: 5 * time.Second,
			MaxInFlight:  4,
		},
		Geo: config.GeoConfig{
			MinLatitude:  49.5,
			MaxLatitude:  61.0,
			MinLongitude: -8.5,
			MaxLongitude: 2.0,
		},
	}
}

func newTestService(api DispatchAPI, resolver ConstraintResolver, roster Roster, tenants ...string) *Service {
	log := logger.InitLogger("fleet-test", logger.LevelError)
	s := New(api, resolver, roster, testConfig(tenants...), log)
	s.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSnapshot_PartialTenantFailure(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {{Tenant: "alpha", ID: 1, Callsign: "301", Active: true}},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {{Tenant: "alpha", VehicleCallsign: "301", DriverCallsign: "45", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}},
		},
		failing: map[string]bool{"beta": true, "gamma": true},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha", "beta", "gamma")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("one healthy tenant must be enough: %v", err)
	}
	if len(snapshot.Vehicles) != 1 || snapshot.Vehicles[0].Callsign != "301" {
		t.Fatalf("unexpected vehicles: %+v", snapshot.Vehicles)
	}
}

func TestSnapshot_NoInventoryAnywhere(t *testing.T) {
	api := &fakeAPI{failing: map[string]bool{"alpha": true, "beta": true}}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha", "beta")

	snapshot, err := s.Snapshot(context.Background())
	if !errors.Is(err, types.ErrNoInventoryData) {
		t.Fatalf("expected ErrNoInventoryData, got %v", err)
	}
	if snapshot == nil || len(snapshot.Vehicles) != 0 {
		t.Fatalf("failed pass must still carry an empty vehicle list: %+v", snapshot)
	}
}

// A tenant that returns an empty inventory still counts as answering; the
// pass only fails when nobody answered.
func TestSnapshot_EmptyInventoryIsAnAnswer(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("empty inventory is not a failure: %v", err)
	}
	if len(snapshot.Vehicles) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot.Vehicles)
	}
}

func TestSnapshot_ShiftGate(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {
				{Tenant: "alpha", ID: 1, Callsign: "301", Active: true},
				{Tenant: "alpha", ID: 2, Callsign: "302", Active: true},
			},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {{Tenant: "alpha", VehicleCallsign: "301", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}},
		},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Vehicles) != 1 || snapshot.Vehicles[0].Callsign != "301" {
		t.Fatalf("vehicle without a live shift must be excluded: %+v", snapshot.Vehicles)
	}
}

func TestSnapshot_RosterFiltering(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {
				{Tenant: "alpha", ID: 1, Callsign: "301", Active: true},
				{Tenant: "alpha", ID: 2, Callsign: "302", Active: true},
			},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {
				{Tenant: "alpha", VehicleCallsign: "301", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
				{Tenant: "alpha", VehicleCallsign: "302", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
			},
		},
	}

	roster := &fakeRoster{
		loaded: true,
		byVehicle: map[string]models.RosterEntry{
			"301": {DriverCallsign: "45", DriverName: "J Smith", VehicleCallsign: "301"},
		},
	}
	s := newTestService(api, &fakeResolver{}, roster, "alpha")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Vehicles) != 1 || snapshot.Vehicles[0].Callsign != "301" {
		t.Fatalf("unrostered vehicle must be excluded when a roster is loaded: %+v", snapshot.Vehicles)
	}
	if snapshot.Vehicles[0].DriverName != "J Smith" {
		t.Fatalf("roster must fill a missing driver name, got %q", snapshot.Vehicles[0].DriverName)
	}
}

func TestSnapshot_NoRosterIsPermissive(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {{Tenant: "alpha", ID: 1, Callsign: "301", Active: true}},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {{Tenant: "alpha", VehicleCallsign: "301", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}},
		},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{loaded: false}, "alpha")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Vehicles) != 1 {
		t.Fatalf("without a roster every on-shift vehicle passes: %+v", snapshot.Vehicles)
	}
}

func TestSnapshot_CallsignUniqueAndSorted(t *testing.T) {
	started := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {
				{Tenant: "alpha", ID: 10, Callsign: "302", Active: true},
				{Tenant: "alpha", ID: 11, Callsign: "301", Active: true},
			},
			"beta": {{Tenant: "beta", ID: 42, Callsign: "301", Active: true, Make: "Skoda"}},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {
				{Tenant: "alpha", VehicleCallsign: "301", Started: started},
				{Tenant: "alpha", VehicleCallsign: "302", Started: started},
			},
		},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha", "beta")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(snapshot.Vehicles))
	}
	if snapshot.Vehicles[0].Callsign != "301" || snapshot.Vehicles[1].Callsign != "302" {
		t.Fatalf("vehicles not sorted by callsign: %+v", snapshot.Vehicles)
	}
	// Larger internal id won the duplicate.
	if snapshot.Vehicles[0].Make != "Skoda" {
		t.Fatalf("expected tenant beta's record (id 42) to win, got %+v", snapshot.Vehicles[0])
	}
}

func TestSnapshot_StatusPositionAndShiftHours(t *testing.T) {
	started := time.Date(2026, 3, 14, 8, 33, 0, 0, time.UTC) // 3.45h before the fixed now
	queuePos := 2

	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {{Tenant: "alpha", ID: 7, Callsign: "301", Active: true}},
		},
		statuses: map[string][]models.StatusRecord{
			"alpha": {{Tenant: "alpha", VehicleID: 7, StatusType: "Dispatched", QueuePosition: &queuePos, ZoneName: "Rank"}},
		},
		positions: map[string][]models.GpsRecord{
			"alpha": {{Tenant: "alpha", VehicleID: 7, Latitude: 51.5, Longitude: -0.12}},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {{Tenant: "alpha", VehicleCallsign: "301", Started: started, CashJobs: 3, AccountJobs: 1}},
		},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := snapshot.Vehicles[0]

	if v.StatusColor != types.StatusYellow {
		t.Errorf("expected YELLOW, got %s", v.StatusColor)
	}
	if v.Position == nil || v.Position.Latitude != 51.5 {
		t.Errorf("expected validated position, got %+v", v.Position)
	}
	if v.QueuePosition == nil || *v.QueuePosition != 2 || v.ZoneName != "Rank" {
		t.Errorf("zone details missing: %+v", v)
	}
	if v.CashJobs != 3 || v.AccountJobs != 1 {
		t.Errorf("job counters missing: %+v", v)
	}
	if v.ShiftDurationHours != 3.5 {
		t.Errorf("shift hours must round to one decimal, got %v", v.ShiftDurationHours)
	}
}

// A shift that carries only an internal driver id goes through the resolver.
func TestSnapshot_DriverIdentityViaResolver(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {{Tenant: "alpha", ID: 1, Callsign: "301", Active: true}},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {{Tenant: "alpha", VehicleCallsign: "301", DriverID: 4811, Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}},
		},
	}
	resolver := &fakeResolver{drivers: map[int64]models.Resolution{
		4811: {Callsign: "45", Name: "J Smith"},
	}}
	s := newTestService(api, resolver, &fakeRoster{}, "alpha")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := snapshot.Vehicles[0]
	if v.DriverCallsign != "45" || v.DriverName != "J Smith" {
		t.Fatalf("resolver identity not applied: %+v", v)
	}
}

// An id that resolves nowhere leaves the identity empty. Never a guess.
func TestSnapshot_UnresolvedDriverStaysEmpty(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {{Tenant: "alpha", ID: 1, Callsign: "301", Active: true}},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {{Tenant: "alpha", VehicleCallsign: "301", DriverID: 9999, Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}},
		},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha")

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := snapshot.Vehicles[0]
	if v.DriverCallsign != "" || v.DriverName != "" {
		t.Fatalf("unresolved identity must stay empty: %+v", v)
	}
}

func TestVehicle_ByCallsign(t *testing.T) {
	api := &fakeAPI{
		inventory: map[string][]models.VehicleInventoryRecord{
			"alpha": {{Tenant: "alpha", ID: 1, Callsign: "301", Active: true}},
		},
		shifts: map[string][]models.ShiftRecord{
			"alpha": {{Tenant: "alpha", VehicleCallsign: "301", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}},
		},
	}
	s := newTestService(api, &fakeResolver{}, &fakeRoster{}, "alpha")

	v, err := s.Vehicle(context.Background(), "301")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Callsign != "301" {
		t.Fatalf("wrong vehicle: %+v", v)
	}

	if _, err := s.Vehicle(context.Background(), "999"); !errors.Is(err, types.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

// slowAPI delays every call for the listed tenants until the caller's
// context expires.
type slowAPI struct {
	inner *fakeAPI
	slow  map[string]bool
}

func (f *slowAPI) Vehicles(ctx context.Context, tenant string) ([]models.VehicleInventoryRecord, error) {
	if f.slow[tenant] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.inner.Vehicles(ctx, tenant)
}

func (f *slowAPI) VehicleStatuses(ctx context.Context, tenant string) ([]models.StatusRecord, error) {
	if f.slow[tenant] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.inner.VehicleStatuses(ctx, tenant)
}

func (f *slowAPI) VehiclePositions(ctx context.Context, tenant string) ([]models.GpsRecord, error) {
	if f.slow[tenant] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.inner.VehiclePositions(ctx, tenant)
}

func (f *slowAPI) LiveShifts(ctx context.Context, tenant string) ([]models.ShiftRecord, error) {
	if f.slow[tenant] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.inner.LiveShifts(ctx, tenant)
}

func TestSnapshot_TenantTimeoutIsJustAFailure(t *testing.T) {
	api := &slowAPI{
		inner: &fakeAPI{
			inventory: map[string][]models.VehicleInventoryRecord{
				"alpha": {{Tenant: "alpha", ID: 1, Callsign: "301", Active: true}},
			},
			shifts: map[string][]models.ShiftRecord{
				"alpha": {{Tenant: "alpha", VehicleCallsign: "301", DriverCallsign: "45", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}},
			},
		},
		slow: map[string]bool{"beta": true},
	}

	cfg := testConfig("alpha", "beta")
	cfg.Dispatch.CallTimeout = 50 * time.Millisecond

	log := logger.InitLogger("fleet-test", logger.LevelError)
	s := New(api, &fakeResolver{}, &fakeRoster{}, cfg, log)
	s.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	snapshot, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("a timed out tenant must not abort the pass: %v", err)
	}
	if len(snapshot.Vehicles) != 1 || snapshot.Vehicles[0].Callsign != "301" {
		t.Fatalf("unexpected vehicles: %+v", snapshot.Vehicles)
	}
}

func TestAssemble_StatusFallbackOrderIndependent(t *testing.T) {
	s := newTestService(&fakeAPI{}, &fakeResolver{}, &fakeRoster{}, "alpha", "beta", "gamma")

	inventory := []models.VehicleInventoryRecord{
		{Tenant: "gamma", ID: 9, Callsign: "301", Active: true},
	}
	shifts := []models.ShiftRecord{
		{Tenant: "gamma", VehicleCallsign: "301", DriverCallsign: "45", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
	}
	statuses := []models.StatusRecord{
		{Tenant: "alpha", VehicleID: 7, Callsign: "301", StatusType: "BusyMeterOn"},
		{Tenant: "beta", VehicleID: 8, Callsign: "301", StatusType: "Clear"},
	}

	colorOf := func(recs []models.StatusRecord) types.StatusColor {
		res := &fetchResult{inventory: inventory, statuses: recs, shifts: shifts, inventoryTenants: 3}
		snap := s.assemble(context.Background(), res)
		if len(snap.Vehicles) != 1 {
			t.Fatalf("expected one vehicle, got %+v", snap.Vehicles)
		}
		return snap.Vehicles[0].StatusColor
	}

	forward := colorOf(statuses)
	reversed := colorOf([]models.StatusRecord{statuses[1], statuses[0]})

	if forward != reversed {
		t.Fatalf("status color depends on fetch order: %v vs %v", forward, reversed)
	}
	if forward != types.StatusRed {
		t.Fatalf("alpha's record should win the fallback tie, got %v", forward)
	}
}

func TestAssemble_StatusFallbackPrefersInventoryTenant(t *testing.T) {
	s := newTestService(&fakeAPI{}, &fakeResolver{}, &fakeRoster{}, "alpha", "beta")

	res := &fetchResult{
		inventory: []models.VehicleInventoryRecord{
			{Tenant: "beta", ID: 1, Callsign: "301", Active: true},
		},
		shifts: []models.ShiftRecord{
			{Tenant: "beta", VehicleCallsign: "301", DriverCallsign: "45", Started: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
		},
		statuses: []models.StatusRecord{
			{Tenant: "alpha", VehicleID: 7, Callsign: "301", StatusType: "BusyMeterOn"},
			{Tenant: "beta", VehicleID: 8, Callsign: "301", StatusType: "Clear"},
		},
		inventoryTenants: 2,
	}

	snap := s.assemble(context.Background(), res)
	if len(snap.Vehicles) != 1 {
		t.Fatalf("expected one vehicle, got %+v", snap.Vehicles)
	}
	if got := snap.Vehicles[0].StatusColor; got != types.StatusGreen {
		t.Fatalf("status from the inventory tenant must win, got %v", got)
	}
}

func TestAssemble_ShiftStartTieIsDeterministic(t *testing.T) {
	s := newTestService(&fakeAPI{}, &fakeResolver{}, &fakeRoster{}, "alpha", "beta")

	started := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	inventory := []models.VehicleInventoryRecord{
		{Tenant: "alpha", ID: 1, Callsign: "301", Active: true},
	}
	shifts := []models.ShiftRecord{
		{Tenant: "alpha", DriverID: 10, VehicleCallsign: "301", DriverCallsign: "45", Started: started},
		{Tenant: "beta", DriverID: 20, VehicleCallsign: "301", DriverCallsign: "88", Started: started},
	}

	driverOf := func(recs []models.ShiftRecord) string {
		res := &fetchResult{inventory: inventory, shifts: recs, inventoryTenants: 2}
		snap := s.assemble(context.Background(), res)
		if len(snap.Vehicles) != 1 {
			t.Fatalf("expected one vehicle, got %+v", snap.Vehicles)
		}
		return snap.Vehicles[0].DriverCallsign
	}

	forward := driverOf(shifts)
	reversed := driverOf([]models.ShiftRecord{shifts[1], shifts[0]})

	if forward != reversed {
		t.Fatalf("shift winner depends on fetch order: %q vs %q", forward, reversed)
	}
	if forward != "45" {
		t.Fatalf("alpha's shift should win the tie, got %q", forward)
	}
}
