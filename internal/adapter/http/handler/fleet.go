package handler

import (
	"context"
	"net/http"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
)

type FleetService interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	Vehicle(ctx context.Context, callsign string) (*models.CanonicalVehicle, error)
}

type Fleet struct {
	s FleetService
	l logger.Logger
}

func NewFleet(s FleetService, l logger.Logger) *Fleet {
	return &Fleet{
		s: s,
		l: l,
	}
}

// GetSnapshot godoc
// @Summary      Fleet snapshot
// @Description  Runs one aggregation pass and returns the canonical vehicle set
// @Tags         Fleet
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      502  {object}  map[string]string
// @Router       /fleet/vehicles [get]
func (h *Fleet) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fleet_get_snapshot")

	snapshot, err := h.s.Snapshot(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "aggregation pass failed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"snapshot": snapshot}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetVehicle godoc
// @Summary      Single canonical vehicle
// @Description  Runs one aggregation pass and returns one vehicle by callsign
// @Tags         Fleet
// @Produce      json
// @Param        callsign  path  string  true  "vehicle callsign"
// @Success      200  {object}  models.CanonicalVehicle
// @Failure      404  {object}  map[string]string
// @Router       /fleet/vehicles/{callsign} [get]
func (h *Fleet) GetVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fleet_get_vehicle")

	callsign := r.PathValue("callsign")
	if callsign == "" {
		badRequestResponse(w, "callsign is required")
		return
	}
	ctx = wrap.WithCallsign(ctx, callsign)

	vehicle, err := h.s.Vehicle(ctx, callsign)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"vehicle": vehicle}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
