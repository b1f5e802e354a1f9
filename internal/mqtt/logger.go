package mqtt

import "github.com/clearsky/wxcore/internal/logger"

// GetLogger returns the module-scoped logger the package's MQTT client uses
// for connection lifecycle and publish errors.
func GetLogger() logger.Logger {
	return logger.Global().Module("mqtt")
}
