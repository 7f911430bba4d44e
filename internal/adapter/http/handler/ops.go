package handler

import (
	"context"
	"net/http"

	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
)

type RosterReloader interface {
	Load(ctx context.Context) error
}

type ResolverRefresher interface {
	Refresh(ctx context.Context) error
}

// Ops exposes operational endpoints for on-demand reloads.
type Ops struct {
	roster   RosterReloader
	resolver ResolverRefresher
	l        logger.Logger
}

func NewOps(roster RosterReloader, resolver ResolverRefresher, l logger.Logger) *Ops {
	return &Ops{
		roster:   roster,
		resolver: resolver,
		l:        l,
	}
}

// ReloadRoster godoc
// @Summary      Reload roster
// @Description  Re-reads the roster file and swaps the active table
// @Tags         Ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /roster/reload [post]
func (h *Ops) ReloadRoster(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "roster_reload")

	if err := h.roster.Load(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to reload roster", err)
		internalErrorResponse(w, err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"status": "reloaded"}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// RefreshResolver godoc
// @Summary      Refresh constraint mappings
// @Description  Reloads the cached constraint mapping table from the database
// @Tags         Ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /resolver/refresh [post]
func (h *Ops) RefreshResolver(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "resolver_refresh")

	if err := h.resolver.Refresh(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to refresh mappings", err)
		internalErrorResponse(w, err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"status": "refreshed"}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
