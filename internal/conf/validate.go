// conf/validate.go
package conf

import (
	"errors"
	"fmt"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateStationSettings(&settings.Station); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateMQTTSettings(&settings.MQTT); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateHTTPSettings(&settings.HTTP); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateStationSettings(s *StationConfig) error {
	var errs []string

	if s.Latitude < -90 || s.Latitude > 90 {
		errs = append(errs, "station latitude must be between -90 and 90")
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		errs = append(errs, "station longitude must be between -180 and 180")
	}
	if s.AltitudeM < -500 || s.AltitudeM > 9000 {
		errs = append(errs, "station altitude must be between -500 and 9000 meters")
	}
	if s.UnitsOut != "metric" && s.UnitsOut != "imperial" {
		errs = append(errs, "station unitsout must be 'metric' or 'imperial'")
	}
	if s.SolarAvgWindowMinutes <= 0 {
		errs = append(errs, "station solaravgwindowminutes must be positive")
	}
	if s.ZenithMaxRadiationWm2 <= 0 {
		errs = append(errs, "station zenithmaxradiationwm2 must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("station settings errors: %v", errs)
	}
	return nil
}

func validateMQTTSettings(settings *MQTTConfig) error {
	if !settings.Enabled {
		return nil
	}

	if settings.Broker == "" {
		return errors.New("mqtt broker URL is required when MQTT is enabled")
	}
	if settings.Topic == "" {
		return errors.New("mqtt topic is required when MQTT is enabled")
	}

	if settings.RetrySettings.Enabled {
		if settings.RetrySettings.MaxRetries < 0 {
			return errors.New("mqtt max retries must be non-negative")
		}
		if settings.RetrySettings.InitialDelay < 0 {
			return errors.New("mqtt initial delay must be non-negative")
		}
		if settings.RetrySettings.MaxDelay < settings.RetrySettings.InitialDelay {
			return errors.New("mqtt max delay must be greater than or equal to initial delay")
		}
		if settings.RetrySettings.BackoffMultiplier <= 0 {
			return errors.New("mqtt backoff multiplier must be positive")
		}
	}

	return nil
}

func validateHTTPSettings(settings *HTTPConfig) error {
	if settings.Enabled && settings.Port == "" {
		return errors.New("http port is required when the HTTP API is enabled")
	}
	return nil
}

func validateOutputSettings(settings *OutputConfig) error {
	if !settings.SQLite.Enabled && !settings.MySQL.Enabled {
		return errors.New("at least one of output.sqlite or output.mysql must be enabled")
	}
	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		return errors.New("output.sqlite.path is required when sqlite output is enabled")
	}
	if settings.MySQL.Enabled && (settings.MySQL.Host == "" || settings.MySQL.Database == "") {
		return errors.New("output.mysql.host and output.mysql.database are required when mysql output is enabled")
	}
	if settings.RetentionDays < 0 {
		return errors.New("output.retentiondays must be non-negative")
	}
	return nil
}
