package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	mux.HandleFunc("GET /fleet/vehicles", routes.fleet.GetSnapshot)            // Current canonical fleet snapshot
	mux.HandleFunc("GET /fleet/vehicles/{callsign}", routes.fleet.GetVehicle)  // One vehicle by callsign
	mux.HandleFunc("GET /ws/fleet", routes.ws.Subscribe)                       // WebSocket snapshot push

	mux.HandleFunc("POST /roster/reload", routes.ops.ReloadRoster)
	mux.HandleFunc("POST /resolver/refresh", routes.ops.RefreshResolver)

	// Swagger UI endpoint
	mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName("fleet")))

	mux.Handle("/metrics", promhttp.Handler())
}
