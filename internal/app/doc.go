// Package app provides application initialization and lifecycle
// management for the compass web server. It wires configuration,
// logging, the series store, the loaded model, the service layer, and
// the HTTP surface together at startup, and handles graceful shutdown.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and metrics
//	3. Open the series store and run migrations
//	4. Load the model artifact once
//	5. Initialize services with their dependencies
//	6. Set up HTTP handlers and middleware
//	7. Configure and start the HTTP server
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM so active requests are
// drained and database connections closed before exit. All
// initialization errors are returned to the caller; the package never
// calls os.Exit() directly.
package app
