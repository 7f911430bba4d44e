package handler

import (
	"context"
	"net/http"

	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/arlan-b/fleet-snapshot-system/pkg/metrics"
	"github.com/arlan-b/fleet-snapshot-system/pkg/uuid"
	ws "github.com/arlan-b/fleet-snapshot-system/pkg/wsHub"
	"github.com/gorilla/websocket"
)

type FleetWS struct {
	hub         *ws.ConnectionHub
	upgrader    websocket.Upgrader
	serviceName string
	l           logger.Logger
}

func NewFleetWS(hub *ws.ConnectionHub, serviceName string, l logger.Logger) *FleetWS {
	return &FleetWS{
		hub:         hub,
		serviceName: serviceName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		l: l,
	}
}

// Subscribe godoc
// @Summary      Subscribe to fleet snapshots
// @Description  Upgrades to WebSocket and pushes a snapshot event whenever the fleet state changes
// @Tags         Fleet
// @Router       /ws/fleet [get]
func (h *FleetWS) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fleet_ws_subscribe")

	id, err := uuid.New()
	if err != nil {
		h.l.Error(ctx, "failed to generate connection id", err)
		internalErrorResponse(w, "failed to open connection")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.l.Error(ctx, "websocket upgrade failed", err)
		return
	}

	// The request context dies when this handler returns, so the
	// connection gets its own lifetime.
	wsConn := ws.NewConn(context.Background(), id, conn)
	if err := h.hub.Add(wsConn); err != nil {
		h.l.Error(ctx, "failed to register connection", err)
		_ = wsConn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Inc()
	h.l.Info(ctx, "fleet subscriber connected", "conn_id", id)

	// Subscribers are push-only. The read loop exists to detect disconnects.
	go func() {
		defer func() {
			_ = h.hub.Delete(id)
			metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Dec()
			h.l.Info(ctx, "fleet subscriber disconnected", "conn_id", id)
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
