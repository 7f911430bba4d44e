package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
)

const rosterHeader = "driver_callsign,driver_name,company,vehicle_callsign,last_logon\n"

func writeRoster(t *testing.T, dir, contents string) string {
	t.Helper()

	path := filepath.Join(dir, "roster.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	return path
}

func newTestService(t *testing.T, path string) *Service {
	t.Helper()

	cfg := config.Config{
		App:    config.AppConfig{ServiceName: "roster-test"},
		Roster: config.RosterConfig{Path: path},
	}
	return New(cfg, logger.InitLogger("roster-test", logger.LevelError))
}

func TestLoad_And_Match(t *testing.T) {
	path := writeRoster(t, t.TempDir(), rosterHeader+
		"45,J Smith,City Cars,301,2026-03-13T22:10:00Z\n"+
		"71,A Jones,City Cars,302,2026-03-13T21:00:00Z\n")

	s := newTestService(t, path)
	if s.Loaded() {
		t.Fatalf("must not report loaded before the first Load")
	}

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !s.Loaded() {
		t.Fatalf("must report loaded after Load")
	}

	entry, ok := s.Match("301")
	if !ok || entry.DriverCallsign != "45" || entry.DriverName != "J Smith" {
		t.Fatalf("match failed: %+v ok=%v", entry, ok)
	}

	if _, ok := s.Match("999"); ok {
		t.Fatalf("unknown vehicle matched")
	}
}

// Upstream systems disagree about numeric zero padding, in both directions.
func TestMatch_ZeroPadding(t *testing.T) {
	path := writeRoster(t, t.TempDir(), rosterHeader+
		"45,J Smith,City Cars,08,2026-03-13T22:10:00Z\n"+
		"71,A Jones,City Cars,9,2026-03-13T21:00:00Z\n")

	s := newTestService(t, path)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if entry, ok := s.Match("8"); !ok || entry.DriverCallsign != "45" {
		t.Fatalf("bare callsign must match padded roster entry: %+v ok=%v", entry, ok)
	}
	if entry, ok := s.Match("09"); !ok || entry.DriverCallsign != "71" {
		t.Fatalf("padded callsign must match bare roster entry: %+v ok=%v", entry, ok)
	}
}

func TestLoad_DuplicateVehicleRecencyWins(t *testing.T) {
	path := writeRoster(t, t.TempDir(), rosterHeader+
		"45,J Smith,City Cars,301,2026-03-12T09:00:00Z\n"+
		"71,A Jones,City Cars,301,2026-03-13T22:10:00Z\n")

	s := newTestService(t, path)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	entry, ok := s.Match("301")
	if !ok || entry.DriverCallsign != "71" {
		t.Fatalf("later logon must win: %+v ok=%v", entry, ok)
	}
}

func TestLoad_ReplacesPreviousGeneration(t *testing.T) {
	dir := t.TempDir()
	path := writeRoster(t, dir, rosterHeader+
		"45,J Smith,City Cars,301,2026-03-13T22:10:00Z\n")

	s := newTestService(t, path)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	writeRoster(t, dir, rosterHeader+
		"71,A Jones,City Cars,302,2026-03-14T06:00:00Z\n")
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if _, ok := s.Match("301"); ok {
		t.Fatalf("entry from the replaced file survived")
	}
	if _, ok := s.Match("302"); !ok {
		t.Fatalf("entry from the new file missing")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestService(t, filepath.Join(t.TempDir(), "absent.csv"))
	if err := s.Load(context.Background()); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if s.Loaded() {
		t.Fatalf("failed load must not publish a generation")
	}
}

func TestLoad_MalformedRow(t *testing.T) {
	path := writeRoster(t, t.TempDir(), rosterHeader+
		"45,J Smith,City Cars,301,not-a-timestamp\n")

	s := newTestService(t, path)
	if err := s.Load(context.Background()); err == nil {
		t.Fatalf("expected an error for a bad last_logon")
	}
}
