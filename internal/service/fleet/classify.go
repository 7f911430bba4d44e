package fleet

import (
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

// Status-type tags are an open enumeration owned by the upstream platform;
// these sets cover the tags observed so far. Unknown tags fall through the
// ladder and classify by the boolean signals alone.
var (
	// meter running / passenger aboard
	redStatusTypes = map[string]struct{}{
		"Busy":                                 {},
		"BusyMeterOn":                          {},
		"BusyMeterOnFromMeterOffCash":          {},
		"BusyMeterOnFromMeterOffAccount":       {},
		"BusyMeterOnFromMeterOffOnlineAndCash": {},
	}

	// dispatched / offered, driver on the way
	yellowStatusTypes = map[string]struct{}{
		"BusyMeterOff":        {},
		"BusyMeterOffCash":    {},
		"BusyMeterOffAccount": {},
		"Dispatched":          {},
		"JobOffered":          {},
	}
)

// Classify maps one status record to the canonical operational state. It is a
// pure function: no hidden state, no dependence on other vehicles.
//
// The ladder decides top to bottom; the GRAY override is evaluated last and
// wins over whatever the ladder produced. A vehicle with no status record at
// all is available by default (GREEN); absence of status is common for cars
// with no recent activity.
//
// A meter-off tag combined with atPickup reads YELLOW here: the dispatched
// rung sits above the at-pickup rung, so a car still travelling to the client
// keeps its "going to client" color. Upstream is inconsistent about this
// combination; keep the rule in one place so a correction stays local.
func Classify(rec *models.StatusRecord) types.StatusColor {
	if rec == nil {
		return types.StatusGreen
	}

	color := types.StatusGreen
	switch {
	case isRedStatusType(rec.StatusType):
		color = types.StatusRed
	case isYellowStatusType(rec.StatusType),
		rec.DispatchInProgress,
		rec.HasPrebookings && !rec.AtPickup:
		color = types.StatusYellow
	case rec.AtPickup:
		color = types.StatusRed
	}

	// GRAY override: destination mode, penalties and soon-to-clear force the
	// car off the dispatchable map regardless of the ladder.
	if rec.InDestinationMode ||
		rec.HasPenalty ||
		(rec.SoonToClear && rec.DestinationModeTimeRemaining != nil) {
		return types.StatusGray
	}

	return color
}

func isRedStatusType(statusType string) bool {
	_, ok := redStatusTypes[statusType]
	return ok
}

func isYellowStatusType(statusType string) bool {
	_, ok := yellowStatusTypes[statusType]
	return ok
}
