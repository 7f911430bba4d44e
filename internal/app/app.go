package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arlan-b/fleet-snapshot-system/config"
	"github.com/arlan-b/fleet-snapshot-system/internal/adapter/dispatch"
	"github.com/arlan-b/fleet-snapshot-system/internal/adapter/http/server"
	repo "github.com/arlan-b/fleet-snapshot-system/internal/adapter/postgres"
	broker "github.com/arlan-b/fleet-snapshot-system/internal/adapter/rabbit"
	"github.com/arlan-b/fleet-snapshot-system/internal/service/fleet"
	"github.com/arlan-b/fleet-snapshot-system/internal/service/resolver"
	"github.com/arlan-b/fleet-snapshot-system/internal/service/roster"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	"github.com/arlan-b/fleet-snapshot-system/pkg/postgres"
	"github.com/arlan-b/fleet-snapshot-system/pkg/rabbit"
	ws "github.com/arlan-b/fleet-snapshot-system/pkg/wsHub"
)

type App struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	broker     *broker.FleetBroker
	hub        *ws.ConnectionHub

	fleetService *fleet.Service
	roster       *roster.Service
	resolver     *resolver.Service

	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	var (
		rabbitMQ    *rabbit.RabbitMQ
		fleetBroker *broker.FleetBroker
	)
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "Failed to setup rabbitmq", err)
			return nil, err
		}

		fleetBroker = broker.NewFleetBroker(rabbitMQ, log)
		if err := fleetBroker.Setup(ctx); err != nil {
			log.Error(ctx, "Failed to declare rabbitmq topology", err)
			return nil, err
		}
	}

	api := dispatch.New(cfg.Dispatch.BaseURL, cfg.Dispatch.APIKey, cfg.Dispatch.CallTimeout)

	constraintRepo := repo.NewConstraintRepo(postgresDB.Pool)
	resolverService, err := resolver.New(constraintRepo, api, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to setup constraint resolver", err)
		return nil, err
	}

	rosterService := roster.New(cfg, log)
	if err := rosterService.Load(ctx); err != nil {
		// The service starts without a roster and runs permissive until
		// the file shows up.
		log.Warn(ctx, "roster not loaded on startup", "path", cfg.Roster.Path, "err", err.Error())
	}

	fleetService := fleet.New(api, resolverService, rosterService, cfg, log)

	hub := ws.NewConnHub(log)

	httpServer, err := server.New(cfg, fleetService, rosterService, resolverService, hub, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return &App{
		postgresDB:   postgresDB,
		rabbitMQ:     rabbitMQ,
		broker:       fleetBroker,
		hub:          hub,
		fleetService: fleetService,
		roster:       rosterService,
		resolver:     resolverService,
		httpServer:   httpServer,
		cfg:          cfg,
		log:          log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "fleet service closed")
	}()

	if err := a.resolver.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "initial mapping refresh failed", "err", err.Error())
	}
	go a.resolver.RunRefreshLoop(ctx)

	if a.cfg.Roster.Watch {
		go func() {
			if err := a.roster.Watch(ctx); err != nil {
				a.log.Warn(ctx, "roster watcher stopped", "err", err.Error())
			}
		}()
	}

	go a.runPoller(ctx)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "fleet service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.hub != nil {
		a.hub.Close()
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close rabbitmq", "error", err.Error())
		}
	}

	if a.postgresDB != nil && a.postgresDB.Pool != nil {
		a.postgresDB.Pool.Close()
	}
}
