package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/adapter/http/handler"
	"github.com/arlan-b/fleet-snapshot-system/internal/adapter/http/middleware"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	ws "github.com/arlan-b/fleet-snapshot-system/pkg/wsHub"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health *handler.Health
	fleet  *handler.Fleet
	ops    *handler.Ops
	ws     *handler.FleetWS
}

func New(
	cfg config.Config,
	fleetService handler.FleetService,
	roster handler.RosterReloader,
	resolver handler.ResolverRefresher,
	hub *ws.ConnectionHub,
	log logger.Logger,
) (*API, error) {
	if fleetService == nil {
		return nil, errors.New("fleet service is required")
	}

	routes := &handlers{
		health: handler.NewHealth(cfg.App.ServiceName, log),
		fleet:  handler.NewFleet(fleetService, log),
		ops:    handler.NewOps(roster, resolver, log),
		ws:     handler.NewFleetWS(hub, cfg.App.ServiceName, log),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(log),
		addr:   fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port),
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes)

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	metrics := a.m.Metrics(a.cfg.App.ServiceName)
	return a.m.Recover(a.m.RequestID(a.m.Logging(metrics(a.mux))))
}
