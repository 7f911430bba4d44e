package fleet

import (
	"testing"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

func TestClassify_NoStatusRecord(t *testing.T) {
	if got := Classify(nil); got != types.StatusGreen {
		t.Fatalf("vehicle without status must default to GREEN, got %s", got)
	}
}

func TestClassify_Ladder(t *testing.T) {
	tests := []struct {
		name string
		rec  models.StatusRecord
		want types.StatusColor
	}{
		{"clear", models.StatusRecord{StatusType: "Clear"}, types.StatusGreen},
		{"meter on", models.StatusRecord{StatusType: "BusyMeterOn"}, types.StatusRed},
		{"meter on from meter off cash", models.StatusRecord{StatusType: "BusyMeterOnFromMeterOffCash"}, types.StatusRed},
		{"dispatched", models.StatusRecord{StatusType: "Dispatched"}, types.StatusYellow},
		{"meter off", models.StatusRecord{StatusType: "BusyMeterOff"}, types.StatusYellow},
		{"dispatch in progress", models.StatusRecord{StatusType: "Clear", DispatchInProgress: true}, types.StatusYellow},
		{"prebookings", models.StatusRecord{StatusType: "Clear", HasPrebookings: true}, types.StatusYellow},
		{"at pickup", models.StatusRecord{StatusType: "Clear", AtPickup: true}, types.StatusRed},
		{"prebookings at pickup", models.StatusRecord{StatusType: "Clear", HasPrebookings: true, AtPickup: true}, types.StatusRed},
		{"unknown tag", models.StatusRecord{StatusType: "SomethingNew"}, types.StatusGreen},
	}

	for _, tc := range tests {
		if got := Classify(&tc.rec); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

// A meter-off tag with atPickup stays YELLOW: the dispatched rung sits above
// the at-pickup rung.
func TestClassify_MeterOffAtPickup(t *testing.T) {
	rec := models.StatusRecord{StatusType: "BusyMeterOffCash", AtPickup: true}
	if got := Classify(&rec); got != types.StatusYellow {
		t.Fatalf("meter-off at pickup must stay YELLOW, got %s", got)
	}
}

func TestClassify_GrayOverride(t *testing.T) {
	remaining := 5 * time.Minute

	tests := []struct {
		name string
		rec  models.StatusRecord
	}{
		{"destination mode over red", models.StatusRecord{StatusType: "BusyMeterOn", InDestinationMode: true}},
		{"penalty over yellow", models.StatusRecord{StatusType: "Dispatched", HasPenalty: true}},
		{"penalty over green", models.StatusRecord{StatusType: "Clear", HasPenalty: true}},
		{"soon to clear with countdown", models.StatusRecord{StatusType: "Clear", SoonToClear: true, DestinationModeTimeRemaining: &remaining}},
	}

	for _, tc := range tests {
		if got := Classify(&tc.rec); got != types.StatusGray {
			t.Errorf("%s: got %s, want GRAY", tc.name, got)
		}
	}
}

// Soon-to-clear without a destination mode countdown is not enough for GRAY.
func TestClassify_SoonToClearWithoutCountdown(t *testing.T) {
	rec := models.StatusRecord{StatusType: "Clear", SoonToClear: true}
	if got := Classify(&rec); got != types.StatusGreen {
		t.Fatalf("got %s, want GREEN", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	rec := models.StatusRecord{StatusType: "Dispatched", HasPrebookings: true}
	first := Classify(&rec)
	for i := 0; i < 100; i++ {
		if got := Classify(&rec); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", first, got)
		}
	}
}
