// Package httpserver defines the common interface the station's long-running
// commands use to start and stop the observe/forecast HTTP API without
// depending on its concrete type.
package httpserver

// Server is implemented by api.Server.
type Server interface {
	// Start begins serving HTTP requests in a background goroutine and
	// returns immediately. Use Shutdown() to stop the server.
	Start()

	// Shutdown gracefully stops the server and releases resources.
	Shutdown() error
}
