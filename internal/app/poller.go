package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	"github.com/arlan-b/fleet-snapshot-system/pkg/hasher"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
)

// runPoller drives the background aggregation loop. Each tick runs a full
// pass; when the resulting vehicle set differs from the previous one the
// snapshot is pushed to WebSocket subscribers and announced on RabbitMQ.
func (a *App) runPoller(ctx context.Context) {
	if a.cfg.App.PollInterval <= 0 {
		return
	}

	ctx = wrap.WithAction(ctx, types.ActionAggregationPass)

	ticker := time.NewTicker(a.cfg.App.PollInterval)
	defer ticker.Stop()

	var lastHash string

	for {
		select {
		case <-ctx.Done():
			a.log.Info(ctx, "aggregation poller stopped")
			return
		case <-ticker.C:
			lastHash = a.poll(ctx, lastHash)
		}
	}
}

func (a *App) poll(ctx context.Context, lastHash string) string {
	snapshot, err := a.fleetService.Snapshot(ctx)
	if err != nil {
		a.log.Warn(wrap.ErrorCtx(ctx, err), "aggregation pass failed", "err", err.Error())
		return lastHash
	}

	body, err := json.Marshal(snapshot.Vehicles)
	if err != nil {
		a.log.Error(ctx, "failed to encode snapshot", err)
		return lastHash
	}

	hash := hasher.SumBytes(body)
	if hash == lastHash {
		return lastHash
	}

	a.hub.Broadcast(snapshot)

	if a.broker != nil {
		event := snapshotEvent(snapshot)
		if err := a.broker.PublishSnapshotEvent(ctx, event); err != nil {
			a.log.Warn(wrap.ErrorCtx(ctx, err), "failed to publish snapshot event", "err", err.Error())
		}
	}

	a.log.Debug(ctx, "snapshot changed",
		"vehicles", len(snapshot.Vehicles),
		"hash", hash,
	)

	return hash
}

func snapshotEvent(s *models.Snapshot) models.SnapshotEvent {
	event := models.SnapshotEvent{
		GeneratedAt:  s.GeneratedAt,
		VehicleCount: len(s.Vehicles),
	}

	for _, v := range s.Vehicles {
		switch v.StatusColor {
		case types.StatusGreen:
			event.Green++
		case types.StatusYellow:
			event.Yellow++
		case types.StatusRed:
			event.Red++
		case types.StatusGray:
			event.Gray++
		}
	}

	return event
}
