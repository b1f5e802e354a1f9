// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"station.latitude", "WXCORE_LATITUDE", validateEnvLatitude},
		{"station.longitude", "WXCORE_LONGITUDE", validateEnvLongitude},
		{"station.altitudem", "WXCORE_ALTITUDE", validateEnvAltitude},
		{"station.unitsout", "WXCORE_UNITS", validateEnvUnits},
		{"mqtt.broker", "WXCORE_MQTT_BROKER", validateEnvPath},
		{"mqtt.username", "WXCORE_MQTT_USERNAME", nil},
		{"mqtt.password", "WXCORE_MQTT_PASSWORD", nil},
		{"http.port", "WXCORE_HTTP_PORT", nil},
		{"output.mysql.password", "WXCORE_MYSQL_PASSWORD", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	bindings := getEnvBindings()
	var warnings []string

	for _, binding := range bindings {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvLatitude(value string) error {
	lat, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid latitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %g", lat)
	}
	return nil
}

func validateEnvLongitude(value string) error {
	lng, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid longitude: %w", err)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %g", lng)
	}
	return nil
}

func validateEnvAltitude(value string) error {
	alt, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid altitude: %w", err)
	}
	if alt < -500 || alt > 9000 {
		return fmt.Errorf("altitude must be between -500 and 9000 meters, got %g", alt)
	}
	return nil
}

func validateEnvUnits(value string) error {
	switch value {
	case "metric", "imperial":
		return nil
	default:
		return fmt.Errorf("units must be 'metric' or 'imperial', got %q", value)
	}
}

func validateEnvPath(value string) error {
	if strings.Contains(value, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("WXCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(); err != nil {
		// Log warnings but don't fail startup; the application continues
		// with config file/default values.
		GetLogger().Warn("environment variable validation warnings", "error", err)
	}

	return nil
}
