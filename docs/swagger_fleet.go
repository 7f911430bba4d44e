package docs

// @title           Fleet Status Aggregation API
// @version         1.0
// @description     Aggregates vehicle inventory, live status, GPS and shift data from per-tenant dispatch endpoints into a single canonical fleet snapshot. Exposes the snapshot over HTTP and pushes changes to WebSocket subscribers.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
