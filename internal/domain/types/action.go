package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionExternalServiceFailed = "external_service_failed"
	ActionAggregationPass       = "aggregation_pass"
	ActionRosterReload          = "roster_reload"
	ActionResolverRefresh       = "resolver_refresh"
)
